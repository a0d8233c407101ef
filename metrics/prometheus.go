package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusRecorder struct {
	counters  *prometheus.CounterVec
	histogram *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the onramp collectors on reg, or on the
// default registerer when reg is nil. Collectors already registered by an
// earlier call are reused.
func NewPrometheusRecorder(reg prometheus.Registerer) (Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	counters := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onramp",
			Name:      "events_total",
			Help:      "onramp event counters",
		},
		[]string{"type", LabelGateway, LabelStepKind, LabelOutcome},
	)

	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "onramp",
			Name:      "latency_seconds",
			Help:      "onramp operation latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", LabelGateway, LabelOutcome},
	)

	if err := reg.Register(counters); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		counters = are.ExistingCollector.(*prometheus.CounterVec)
	}
	if err := reg.Register(histogram); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		histogram = are.ExistingCollector.(*prometheus.HistogramVec)
	}

	return &PrometheusRecorder{
		counters:  counters,
		histogram: histogram,
	}, nil
}

func (p *PrometheusRecorder) IncCounter(name string, labels map[string]string) {
	p.counters.With(prometheus.Labels{
		"type":        name,
		LabelGateway:  labels[LabelGateway],
		LabelStepKind: labels[LabelStepKind],
		LabelOutcome:  labels[LabelOutcome],
	}).Inc()
}

func (p *PrometheusRecorder) ObserveLatency(name string, d time.Duration, labels map[string]string) {
	p.histogram.With(prometheus.Labels{
		"operation":  name,
		LabelGateway: labels[LabelGateway],
		LabelOutcome: labels[LabelOutcome],
	}).Observe(d.Seconds())
}
