// Package onramp drives crypto purchases through third-party payment
// gateways: it fetches and filters the gateway catalog and rate quotes, and
// runs the step workflow of the chosen gateway.
package onramp

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vitwit/onramp/clients"
	"github.com/vitwit/onramp/filter"
	"github.com/vitwit/onramp/logger"
	"github.com/vitwit/onramp/metrics"
	"github.com/vitwit/onramp/transport"
	"github.com/vitwit/onramp/types"
	"github.com/vitwit/onramp/utils"
	"github.com/vitwit/onramp/workflow"
)

// Onramp is a session against the onramp API. Its configuration is fixed at
// construction; it is safe for concurrent use.
type Onramp struct {
	config     types.Config
	transport  *transport.Client
	logger     logger.Logger
	metrics    metrics.Recorder
	timeout    time.Duration
	httpClient *http.Client
	adapters   []clients.Adapter
	filters    *types.Filters

	catalog atomic.Pointer[types.GatewayCatalog]

	rateMu  sync.Mutex
	rateGen uint64
	quotes  []types.RateQuote
}

// New creates a session from cfg. cfg is copied and validated; later changes
// to it have no effect.
func New(cfg *types.Config, opts ...Option) (*Onramp, error) {
	if cfg == nil {
		return nil, &types.Error{Code: types.ErrCodeConfig, Message: "config is required"}
	}
	config := *cfg
	config.Filters = cfg.Filters.Clone()
	if err := utils.ValidateConfig(&config); err != nil {
		return nil, err
	}

	o := &Onramp{
		config:  config,
		filters: config.Filters,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.timeout > 0 {
		o.config.DefaultTimeout = o.timeout
	}
	if o.logger == nil && o.config.LogLevel != "" {
		o.logger = logger.NewZapLogger(o.config.LogLevel)
	}
	o.logger = logger.OrNoop(o.logger)

	if o.metrics == nil && o.config.EnableMetrics {
		rec, err := metrics.NewPrometheusRecorder(nil)
		if err != nil {
			return nil, &types.Error{Code: types.ErrCodeConfig, Message: "metrics", Err: err}
		}
		o.metrics = rec
	}
	o.metrics = metrics.OrNoop(o.metrics)

	if o.httpClient == nil {
		h, err := clients.NewHTTPClient(clients.HTTPClientConfig{
			Timeout: o.config.DefaultTimeout,
			Proxy:   o.config.Proxy,
		})
		if err != nil {
			return nil, &types.Error{Code: types.ErrCodeConfig, Message: "http client", Err: err}
		}
		o.httpClient = h
	}

	registry := clients.DefaultRegistry(o.httpClient, o.config.Stage)
	if o.adapters != nil {
		registry = clients.NewRegistry(clients.NewGenericAdapter(o.httpClient), o.adapters...)
	}

	t, err := transport.New(&o.config,
		transport.WithHTTPClient(o.httpClient),
		transport.WithRegistry(registry),
		transport.WithLogger(o.logger),
		transport.WithMetrics(o.metrics),
	)
	if err != nil {
		return nil, err
	}
	o.transport = t

	o.logger.Info("onramp session created", map[string]any{
		"base_url": t.BaseURL(),
		"stage":    o.config.Stage.String(),
	})
	return o, nil
}

// Gateways fetches the gateway catalog and applies the session filters.
// The session country is used when params carries none.
func (o *Onramp) Gateways(ctx context.Context, params types.GatewaysParams) (*types.GatewayCatalog, error) {
	if params.Country == "" {
		params.Country = o.config.Country
	}

	catalog, err := o.transport.FetchGatewayCatalog(ctx, params)
	if err != nil {
		return nil, err
	}

	filtered := filter.Catalog(*catalog, o.filters)
	o.catalog.Store(&filtered)
	return &filtered, nil
}

// Catalog returns the last catalog returned by Gateways, or nil.
func (o *Onramp) Catalog() *types.GatewayCatalog {
	return o.catalog.Load()
}

// Rates fetches quotes for req, drops the ineligible ones and makes the
// result the current quote set. A call superseded by a newer one returns an
// error matching types.ErrRequestCancelled and leaves the quote set alone.
//
// The memo rule uses req.Address when set, otherwise the configured address
// for req.Crypto.
func (o *Onramp) Rates(ctx context.Context, req types.RateRequest) ([]types.RateQuote, error) {
	if req.Params.Country == "" {
		req.Params.Country = o.config.Country
	}

	if err := utils.ValidateRateRequest(&req); err != nil {
		return nil, err
	}

	addrs := o.config.DefaultAddresses
	if req.Address != nil {
		addr, err := utils.ValidateDestinationAddress(req.Crypto, *req.Address)
		if err != nil {
			return nil, &types.Error{Code: types.ErrCodeInvalidRequest, Message: "invalid destination address", Err: err}
		}
		addrs = types.DefaultAddresses{req.Crypto: addr}
	}

	gen := o.nextRateGen()

	quotes, err := o.transport.FetchRateQuotes(ctx, req)
	if err != nil {
		if errors.Is(err, types.ErrRequestCancelled) {
			o.logger.Debug("discarding superseded rates", map[string]any{
				"fiat":   req.Fiat,
				"crypto": req.Crypto,
			})
		}
		return nil, err
	}

	var onlyGateways []string
	if o.filters != nil {
		onlyGateways = o.filters.OnlyGateways
	}
	eligible := filter.Quotes(quotes, onlyGateways, addrs, req.Crypto)

	o.rateMu.Lock()
	defer o.rateMu.Unlock()
	if o.rateGen != gen {
		o.logger.Debug("discarding superseded rates", map[string]any{
			"fiat":   req.Fiat,
			"crypto": req.Crypto,
		})
		return nil, &types.Error{Code: types.ErrCodeCancelled, Message: "rate request superseded"}
	}
	o.quotes = eligible
	return eligible, nil
}

func (o *Onramp) nextRateGen() uint64 {
	o.rateMu.Lock()
	defer o.rateMu.Unlock()
	o.rateGen++
	return o.rateGen
}

// Quotes returns the current quote set.
func (o *Onramp) Quotes() []types.RateQuote {
	o.rateMu.Lock()
	defer o.rateMu.Unlock()
	return o.quotes
}

// CancelRates cancels a pending Rates call.
func (o *Onramp) CancelRates() {
	o.nextRateGen()
	o.transport.CancelRateRequest()
}

// NewWorkflow starts a workflow at step for a purchase of crypto. The session
// logger, metrics, country and default addresses are applied before opts.
func (o *Onramp) NewWorkflow(step types.NextStep, crypto string, opts ...workflow.Option) (*workflow.Workflow, error) {
	base := []workflow.Option{
		workflow.WithLogger(o.logger),
		workflow.WithMetrics(o.metrics),
		workflow.WithParams(types.StepParams{Country: o.config.Country}),
		workflow.WithDefaultAddresses(o.config.DefaultAddresses, crypto),
	}
	return workflow.New(o.transport, step, append(base, opts...)...)
}

// NewWorkflowFromQuote starts the workflow of an available quote.
func (o *Onramp) NewWorkflowFromQuote(quote types.RateQuote, crypto string, opts ...workflow.Option) (*workflow.Workflow, error) {
	if !quote.Available || quote.NextStep == nil {
		return nil, &types.Error{
			Code:    types.ErrCodeInvalidRequest,
			Message: "gateway " + quote.Identifier + " has no available next step",
		}
	}
	if types.IsUnsupported(quote.NextStep) {
		return nil, &types.Error{
			Code:    types.ErrCodeUnsupportedStep,
			Message: "gateway " + quote.Identifier + " starts with unsupported step " + quote.NextStep.Kind().String(),
		}
	}
	return o.NewWorkflow(quote.NextStep, crypto, opts...)
}

// Transport exposes the underlying API client.
func (o *Onramp) Transport() *transport.Client {
	return o.transport
}

// Close cancels pending rate requests and releases idle connections.
func (o *Onramp) Close() {
	o.CancelRates()
	o.httpClient.CloseIdleConnections()
	if s, ok := o.logger.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
}

// Version information
const (
	Version    = "1.0.0"
	APIVersion = 1
)

// GetVersion returns version information
func GetVersion() map[string]interface{} {
	return map[string]interface{}{
		"library_version": Version,
		"api_version":     APIVersion,
		"step_kinds": []string{
			string(types.KindForm), string(types.KindFile), string(types.KindPickOne),
			string(types.KindIframe), string(types.KindWait),
		},
		"stages": []string{
			types.StageProd.String(), types.StageDev.String(), types.StageDemo.String(),
		},
	}
}
