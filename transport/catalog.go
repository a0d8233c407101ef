package transport

import (
	"context"
	"time"

	"github.com/vitwit/onramp/metrics"
	"github.com/vitwit/onramp/types"
	"github.com/vitwit/onramp/utils"
)

const defaultRequestTimeout = 30 * time.Second

// FetchGatewayCatalog retrieves the gateway catalog. Concurrent calls with
// the same parameters share one request and receive the same catalog, which
// callers must treat as read-only. The shared request is not tied to any one
// caller: a caller whose ctx ends stops waiting, the others keep theirs.
func (c *Client) FetchGatewayCatalog(ctx context.Context, params types.GatewaysParams) (*types.GatewayCatalog, error) {
	url := utils.AppendQuery(c.baseURL+"/gateways", utils.BuildQuery(params))
	detached := context.WithoutCancel(ctx)

	ch := c.catalogGroup.DoChan(url, func() (interface{}, error) {
		reqCtx, cancel := context.WithTimeout(detached, c.requestTimeout())
		defer cancel()

		resp, err := c.get(reqCtx, "gateways", url)
		if err != nil {
			return nil, err
		}

		var catalog types.GatewayCatalog
		if err := Classify(resp, &catalog); err != nil {
			c.logger.Warn("gateway catalog request failed", map[string]any{
				"url":   url,
				"error": err.Error(),
			})
			return nil, err
		}
		return &catalog, nil
	})

	select {
	case <-ctx.Done():
		c.metrics.IncCounter("gateways", map[string]string{metrics.LabelOutcome: "cancelled"})
		return nil, &types.Error{Code: types.ErrCodeCancelled, Message: "request cancelled", Err: ctx.Err()}

	case res := <-ch:
		if res.Err != nil {
			c.metrics.IncCounter("gateways", map[string]string{metrics.LabelOutcome: "failed"})
			return nil, res.Err
		}
		c.metrics.IncCounter("gateways", map[string]string{metrics.LabelOutcome: "ok"})
		if res.Shared {
			c.logger.Debug("gateway catalog request shared", map[string]any{"url": url})
		}
		return res.Val.(*types.GatewayCatalog), nil
	}
}

// requestTimeout bounds requests that outlive their caller's context.
func (c *Client) requestTimeout() time.Duration {
	if c.httpClient != nil && c.httpClient.Timeout > 0 {
		return c.httpClient.Timeout
	}
	return defaultRequestTimeout
}
