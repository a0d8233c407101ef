package metrics

import "time"

// Label keys understood by the recorders.
const (
	LabelGateway  = "gateway"
	LabelStepKind = "step_kind"
	LabelOutcome  = "outcome"
)

// Recorder receives counters and latencies from the transport and the workflow.
type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
