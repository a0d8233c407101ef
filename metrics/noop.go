package metrics

import "time"

// NoopRecorder drops everything; it is the default when metrics are disabled.
type NoopRecorder struct{}

func (NoopRecorder) IncCounter(string, map[string]string) {}

func (NoopRecorder) ObserveLatency(string, time.Duration, map[string]string) {}
