package transport

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/vitwit/onramp/clients"
	"github.com/vitwit/onramp/types"
)

// Classify decodes a successful response into out, or turns a failure
// response into a *types.StepError. out may be nil when the body is not needed.
func Classify(resp clients.Response, out any) error {
	if resp.OK() {
		if out == nil {
			return nil
		}
		if err := resp.JSON(out); err != nil {
			var typed *types.Error
			if errors.As(err, &typed) {
				return typed
			}
			return &types.Error{Code: types.ErrCodeInvalidResponse, Message: "decode response", Err: err}
		}
		return nil
	}
	return classifyFailure(resp)
}

// successBody returns the raw body of a successful response, which may be
// empty, or the classified failure.
func successBody(resp clients.Response) ([]byte, error) {
	if !resp.OK() {
		return nil, classifyFailure(resp)
	}
	text, err := resp.Text()
	if err != nil {
		return nil, &types.Error{Code: types.ErrCodeInvalidResponse, Message: "read response", Err: err}
	}
	return []byte(text), nil
}

// classifyFailure reads the body as JSON, then as text, then gives up with
// types.DecodeFailureMessage. A blank body counts as unreadable.
func classifyFailure(resp clients.Response) *types.StepError {
	var raw json.RawMessage
	if err := resp.JSON(&raw); err == nil {
		stepErr := decodeFailureBody(raw)
		stepErr.StatusCode = resp.StatusCode()
		return stepErr
	}

	text, err := resp.Text()
	if err != nil || strings.TrimSpace(text) == "" {
		return &types.StepError{Message: types.DecodeFailureMessage, StatusCode: resp.StatusCode()}
	}
	return &types.StepError{Message: text, StatusCode: resp.StatusCode()}
}

func decodeFailureBody(raw json.RawMessage) *types.StepError {
	trimmed := strings.TrimSpace(string(raw))

	switch {
	case strings.HasPrefix(trimmed, "["):
		var fields []types.FieldError
		if err := json.Unmarshal(raw, &fields); err == nil {
			if fields == nil {
				fields = []types.FieldError{}
			}
			return &types.StepError{Fields: fields}
		}
	case strings.HasPrefix(trimmed, "{"):
		var body struct {
			Message *json.RawMessage `json:"message"`
			Field   string           `json:"field"`
			Fatal   bool             `json:"fatal"`
		}
		if err := json.Unmarshal(raw, &body); err == nil {
			stepErr := &types.StepError{Field: body.Field, Fatal: body.Fatal}
			if body.Message != nil {
				stepErr.Message = textOf(*body.Message)
			} else if body.Field == "" {
				stepErr.Message = trimmed
			}
			return stepErr
		}
	}
	return &types.StepError{Message: textOf(raw)}
}

// textOf renders a JSON value as a message: strings unquoted, anything else verbatim.
func textOf(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
