package workflow

import (
	"github.com/vitwit/onramp/logger"
	"github.com/vitwit/onramp/metrics"
	"github.com/vitwit/onramp/types"
)

type Option func(*Workflow)

// WithTerminal replaces the terminal predicate. The default is NoNextStep.
func WithTerminal(fn TerminalFunc) Option {
	return func(w *Workflow) {
		if fn != nil {
			w.terminal = fn
		}
	}
}

func WithLogger(l logger.Logger) Option {
	return func(w *Workflow) { w.logger = l }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(w *Workflow) { w.metrics = r }
}

// WithParams sets the query parameters sent with every submission.
func WithParams(p types.StepParams) Option {
	return func(w *Workflow) { w.params = p }
}

// WithDefaultAddresses prefills the crypto address fields of forms from the
// address configured for crypto.
func WithDefaultAddresses(addrs types.DefaultAddresses, crypto string) Option {
	return func(w *Workflow) {
		w.addresses = addrs
		w.crypto = crypto
	}
}

// WithReviewBeforeCardForm asks the collector for a review before the first
// step when that step is a form collecting card details.
func WithReviewBeforeCardForm() Option {
	return func(w *Workflow) { w.reviewCardForms = true }
}

// WithID sets the workflow id instead of a generated one.
func WithID(id string) Option {
	return func(w *Workflow) {
		if id != "" {
			w.id = id
		}
	}
}
