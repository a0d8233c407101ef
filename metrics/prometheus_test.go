package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	rec.IncCounter("workflow_transition", map[string]string{LabelStepKind: "form", LabelOutcome: "ok"})
	rec.IncCounter("workflow_transition", map[string]string{LabelStepKind: "form", LabelOutcome: "ok"})
	rec.IncCounter("workflow_aborted", map[string]string{LabelStepKind: "iframe"})
	rec.ObserveLatency("rates", 120*time.Millisecond, map[string]string{LabelOutcome: "ok"})

	p := rec.(*PrometheusRecorder)
	assert.Equal(t, 2.0, testutil.ToFloat64(p.counters.WithLabelValues("workflow_transition", "", "form", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.counters.WithLabelValues("workflow_aborted", "", "iframe", "")))
	assert.Equal(t, 1, testutil.CollectAndCount(p.histogram))
}

func TestPrometheusRecorder_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)
	second, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	first.IncCounter("catalog", nil)
	second.IncCounter("catalog", nil)

	p := second.(*PrometheusRecorder)
	assert.Same(t, first.(*PrometheusRecorder).counters, p.counters)
	assert.Equal(t, 2.0, testutil.ToFloat64(p.counters.WithLabelValues("catalog", "", "", "")))
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, NoopRecorder{}, OrNoop(nil))

	reg := prometheus.NewRegistry()
	rec, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)
	assert.Same(t, rec, OrNoop(rec))
}
