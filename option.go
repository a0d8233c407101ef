package onramp

import (
	"net/http"
	"time"

	"github.com/vitwit/onramp/clients"
	"github.com/vitwit/onramp/logger"
	"github.com/vitwit/onramp/metrics"
	"github.com/vitwit/onramp/types"
)

type Option func(*Onramp)

func WithLogger(l logger.Logger) Option {
	return func(o *Onramp) {
		o.logger = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(o *Onramp) {
		o.metrics = r
	}
}

func WithTimeout(t time.Duration) Option {
	return func(o *Onramp) {
		o.timeout = t
	}
}

// WithHTTPClient replaces the HTTP client built from the configuration.
func WithHTTPClient(h *http.Client) Option {
	return func(o *Onramp) {
		o.httpClient = h
	}
}

// WithAdapters sets the provider adapters consulted before the generic one,
// in order. It replaces the stage defaults.
func WithAdapters(adapters ...clients.Adapter) Option {
	return func(o *Onramp) {
		o.adapters = adapters
	}
}

// WithFilters replaces the catalog and gateway filters of the configuration.
// f is copied.
func WithFilters(f *types.Filters) Option {
	return func(o *Onramp) {
		o.filters = f.Clone()
	}
}
