package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vitwit/onramp/clients"
	"github.com/vitwit/onramp/metrics"
	"github.com/vitwit/onramp/types"
	"github.com/vitwit/onramp/utils"
)

// SubmitStep sends the payload for step and returns the step that follows,
// or nil when the server returns none. File steps are uploaded with PUT and
// a binary body, everything else is POSTed as JSON. The request goes through
// the first provider adapter matching the step URL.
//
// A failure response is returned as a *types.StepError.
func (c *Client) SubmitStep(ctx context.Context, step types.NextStep, payload types.Payload, params types.StepParams) (types.NextStep, error) {
	if step == nil {
		return nil, &types.Error{Code: types.ErrCodeInvalidRequest, Message: "no step to submit"}
	}

	method, contentType, body, err := encodeSubmission(step, payload)
	if err != nil {
		return nil, err
	}

	adapter := c.registry.Resolve(step.TargetURL())
	req := &clients.Request{
		Method: method,
		URL:    utils.AppendQuery(step.TargetURL(), utils.BuildQuery(params)),
		Header: c.headers(contentType),
		Body:   body,
	}

	resp, err := c.dispatch(ctx, "step", adapter.Name(), adapter, req)
	if err != nil {
		return nil, err
	}

	labels := map[string]string{
		metrics.LabelGateway:  adapter.Name(),
		metrics.LabelStepKind: step.Kind().String(),
	}

	raw, err := successBody(resp)
	if err != nil {
		labels[metrics.LabelOutcome] = "failed"
		c.metrics.IncCounter("step", labels)
		c.logger.Warn("step submission failed", map[string]any{
			"kind":    step.Kind().String(),
			"adapter": adapter.Name(),
			"status":  resp.StatusCode(),
			"error":   err.Error(),
		})
		return nil, err
	}

	next, err := types.DecodeNextStep(raw)
	if err != nil {
		labels[metrics.LabelOutcome] = "invalid"
		c.metrics.IncCounter("step", labels)
		return nil, err
	}

	labels[metrics.LabelOutcome] = "ok"
	c.metrics.IncCounter("step", labels)
	return next, nil
}

func encodeSubmission(step types.NextStep, payload types.Payload) (method, contentType string, body []byte, err error) {
	switch s := step.(type) {
	case *types.FileStep:
		file, ok := payload.(*types.FilePayload)
		if !ok {
			return "", "", nil, &types.Error{
				Code:    types.ErrCodeInvalidRequest,
				Message: fmt.Sprintf("file step needs a file payload, got %T", payload),
			}
		}
		if err := utils.ValidateFilePayload(file); err != nil {
			return "", "", nil, err
		}
		contentType = file.ContentType
		if contentType == "" {
			contentType = contentTypeBinary
		}
		return http.MethodPut, contentType, file.Content, nil

	case *types.FormStep, *types.PickOneStep:
		fields, ok := payload.(types.FieldMap)
		if !ok && payload != nil {
			return "", "", nil, &types.Error{
				Code:    types.ErrCodeInvalidRequest,
				Message: fmt.Sprintf("%s step needs a field map, got %T", s.Kind(), payload),
			}
		}
		body, err := marshalFields(fields)
		return http.MethodPost, contentTypeJSON, body, err

	case *types.IframeStep, *types.WaitStep:
		fields, _ := payload.(types.FieldMap)
		body, err := marshalFields(fields)
		return http.MethodPost, contentTypeJSON, body, err

	default:
		return "", "", nil, &types.Error{
			Code:    types.ErrCodeUnsupportedStep,
			Message: fmt.Sprintf("cannot submit step of kind %q", step.Kind()),
		}
	}
}

func marshalFields(fields types.FieldMap) ([]byte, error) {
	if fields == nil {
		fields = types.FieldMap{}
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, &types.Error{Code: types.ErrCodeInvalidRequest, Message: "encode fields", Err: err}
	}
	return body, nil
}
