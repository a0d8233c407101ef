package transport

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vitwit/onramp/metrics"
	"github.com/vitwit/onramp/types"
	"github.com/vitwit/onramp/utils"
)

// FetchRateQuotes retrieves one quote per gateway for the request. Issuing a
// new rate request cancels any that is still pending; the superseded call
// returns an error matching types.ErrRequestCancelled, which callers discard.
func (c *Client) FetchRateQuotes(ctx context.Context, req types.RateRequest) ([]types.RateQuote, error) {
	if err := utils.ValidateRateRequest(&req); err != nil {
		return nil, err
	}

	ctx, gen, cancel := c.supersede(ctx)
	defer cancel()

	rateURL := fmt.Sprintf("%s/rate/%s/%s/%s/%s",
		c.baseURL,
		url.PathEscape(req.Fiat),
		url.PathEscape(req.Crypto),
		url.PathEscape(req.PaymentMethod),
		req.Amount.String(),
	)
	rateURL = utils.AppendQuery(rateURL, utils.BuildQuery(req.Params))

	resp, err := c.get(ctx, "rate", rateURL)
	if err != nil {
		if c.superseded(gen) {
			return nil, c.cancelled(rateURL)
		}
		return nil, err
	}

	var quotes []types.RateQuote
	if err := Classify(resp, &quotes); err != nil {
		if c.superseded(gen) {
			return nil, c.cancelled(rateURL)
		}
		c.logger.Warn("rate request failed", map[string]any{
			"url":   rateURL,
			"error": err.Error(),
		})
		c.metrics.IncCounter("rate", map[string]string{metrics.LabelOutcome: "failed"})
		return nil, err
	}

	if c.superseded(gen) {
		return nil, c.cancelled(rateURL)
	}
	c.metrics.IncCounter("rate", map[string]string{metrics.LabelOutcome: "ok"})
	return quotes, nil
}

// CancelRateRequest cancels the pending rate request, if any.
func (c *Client) CancelRateRequest() {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()

	c.rateGen++
	if c.rateCancel != nil {
		c.rateCancel()
		c.rateCancel = nil
	}
}

// supersede cancels the previous rate request and registers a new one.
func (c *Client) supersede(parent context.Context) (context.Context, uint64, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	c.rateMu.Lock()
	if c.rateCancel != nil {
		c.rateCancel()
	}
	c.rateGen++
	gen := c.rateGen
	c.rateCancel = cancel
	c.rateMu.Unlock()

	return ctx, gen, func() {
		c.rateMu.Lock()
		if c.rateGen == gen {
			c.rateCancel = nil
		}
		c.rateMu.Unlock()
		cancel()
	}
}

func (c *Client) superseded(gen uint64) bool {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()
	return c.rateGen != gen
}

func (c *Client) cancelled(rateURL string) error {
	c.logger.Debug("rate request superseded", map[string]any{"url": rateURL})
	c.metrics.IncCounter("rate", map[string]string{metrics.LabelOutcome: "cancelled"})
	return &types.Error{Code: types.ErrCodeCancelled, Message: "rate request superseded"}
}
