package clients

import (
	"net/http"

	"github.com/vitwit/onramp/types"
)

// Registry is an ordered, read-only list of adapters. Resolution picks the
// first adapter whose Matches returns true; the fallback is always last.
type Registry struct {
	adapters []Adapter
}

// NewRegistry orders adapters ahead of the fallback. A nil fallback is
// replaced by a GenericAdapter on http.DefaultClient.
func NewRegistry(fallback Adapter, adapters ...Adapter) *Registry {
	if fallback == nil {
		fallback = NewGenericAdapter(nil)
	}
	list := make([]Adapter, 0, len(adapters)+1)
	for _, a := range adapters {
		if a != nil {
			list = append(list, a)
		}
	}
	list = append(list, fallback)
	return &Registry{adapters: list}
}

// DefaultRegistry returns the registry for a stage. The demo stage routes
// everything through the generic adapter.
func DefaultRegistry(client *http.Client, stage types.Stage) *Registry {
	generic := NewGenericAdapter(client)
	if stage == types.StageDemo {
		return NewRegistry(generic)
	}
	return NewRegistry(generic, NewMoonPayAdapter(client))
}

// Resolve returns the adapter that handles url.
func (r *Registry) Resolve(url string) Adapter {
	for _, a := range r.adapters {
		if a.Matches(url) {
			return a
		}
	}
	return r.adapters[len(r.adapters)-1]
}

// Adapters returns a copy of the resolution order.
func (r *Registry) Adapters() []Adapter {
	out := make([]Adapter, len(r.adapters))
	copy(out, r.adapters)
	return out
}
