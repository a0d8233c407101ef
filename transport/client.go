package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/vitwit/onramp/clients"
	"github.com/vitwit/onramp/logger"
	"github.com/vitwit/onramp/metrics"
	"github.com/vitwit/onramp/types"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-Id"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"

	contentTypeJSON   = "application/json"
	contentTypeBinary = "application/octet-stream"
)

// Client issues authenticated requests against the onramp API. The
// authorization header is fixed when the client is built; a Client is safe
// for concurrent use.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	registry   *clients.Registry
	logger     logger.Logger
	metrics    metrics.Recorder

	catalogGroup singleflight.Group

	rateMu     sync.Mutex
	rateGen    uint64
	rateCancel context.CancelFunc
}

type Option func(*Client)

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) { c.metrics = r }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithRegistry replaces the stage default provider adapters.
func WithRegistry(r *clients.Registry) Option {
	return func(c *Client) { c.registry = r }
}

// New builds a Client from a validated configuration.
func New(cfg *types.Config, opts ...Option) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, &types.Error{Code: types.ErrCodeConfig, Message: "api key is required"}
	}

	c := &Client{
		baseURL:    cfg.APIBaseURL(),
		authHeader: cfg.AuthorizationHeader(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		h, err := clients.NewHTTPClient(clients.HTTPClientConfig{
			Timeout: cfg.DefaultTimeout,
			Proxy:   cfg.Proxy,
		})
		if err != nil {
			return nil, &types.Error{Code: types.ErrCodeConfig, Message: "http client", Err: err}
		}
		c.httpClient = h
	}
	if c.registry == nil {
		c.registry = clients.DefaultRegistry(c.httpClient, cfg.Stage)
	}
	c.logger = logger.OrNoop(c.logger)
	c.metrics = metrics.OrNoop(c.metrics)

	return c, nil
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) headers(contentType string) http.Header {
	h := http.Header{}
	h.Set(headerAuthorization, c.authHeader)
	h.Set(headerAccept, contentTypeJSON)
	h.Set(headerRequestID, uuid.NewString())
	if contentType != "" {
		h.Set(headerContentType, contentType)
	}
	return h
}

// get issues an authenticated GET through the generic path.
func (c *Client) get(ctx context.Context, operation, url string) (clients.Response, error) {
	req := &clients.Request{
		Method: http.MethodGet,
		URL:    url,
		Header: c.headers(""),
	}
	return c.dispatch(ctx, operation, "", clients.NewGenericAdapter(c.httpClient), req)
}

func (c *Client) dispatch(ctx context.Context, operation, gateway string, adapter clients.Adapter, req *clients.Request) (clients.Response, error) {
	start := time.Now()
	c.logger.Debug("sending request", map[string]any{
		"operation":  operation,
		"method":     req.Method,
		"url":        req.URL,
		"adapter":    adapter.Name(),
		"request_id": req.Header.Get(headerRequestID),
	})

	resp, err := adapter.Submit(ctx, req)

	outcome := "ok"
	switch {
	case err != nil:
		outcome = "network_error"
	case !resp.OK():
		outcome = "failed"
	}
	c.metrics.ObserveLatency(operation, time.Since(start), map[string]string{
		metrics.LabelGateway: gateway,
		metrics.LabelOutcome: outcome,
	})

	if err != nil {
		if ctx.Err() != nil {
			return nil, &types.Error{Code: types.ErrCodeCancelled, Message: "request cancelled", Err: ctx.Err()}
		}
		c.logger.Warn("request failed", map[string]any{
			"operation": operation,
			"url":       req.URL,
			"error":     err.Error(),
		})
		return nil, &types.Error{Code: types.ErrCodeNetwork, Message: operation + " request failed", Err: err}
	}
	return resp, nil
}
