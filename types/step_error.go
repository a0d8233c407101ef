package types

import (
	"fmt"
	"strings"
)

// DecodeFailureMessage replaces the message of an error response whose body
// could not be read at all.
const DecodeFailureMessage = "Error parsing the response"

type StepErrorKind int

const (
	StepErrorMessage StepErrorKind = iota
	StepErrorField
	StepErrorFields
)

func (k StepErrorKind) String() string {
	switch k {
	case StepErrorField:
		return "field"
	case StepErrorFields:
		return "fields"
	default:
		return "message"
	}
}

type FieldError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// StepError is a classified failure response. Unless Fatal is set the user
// may correct the input and resubmit.
type StepError struct {
	Message    string       `json:"message,omitempty"`
	Field      string       `json:"field,omitempty"`
	Fields     []FieldError `json:"fields,omitempty"`
	Fatal      bool         `json:"fatal,omitempty"`
	StatusCode int          `json:"-"`
}

func (e *StepError) Kind() StepErrorKind {
	switch {
	case e.Fields != nil:
		return StepErrorFields
	case e.Field != "":
		return StepErrorField
	default:
		return StepErrorMessage
	}
}

func (e *StepError) Error() string {
	switch e.Kind() {
	case StepErrorFields:
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Name, f.Message))
		}
		return "step error: " + strings.Join(parts, "; ")
	case StepErrorField:
		return fmt.Sprintf("step error: %s: %s", e.Field, e.Message)
	default:
		if e.Message == "" {
			return "step error"
		}
		return "step error: " + e.Message
	}
}

// FieldMessages maps field names to their messages, for inline rendering.
func (e *StepError) FieldMessages() map[string]string {
	out := make(map[string]string)
	switch e.Kind() {
	case StepErrorFields:
		for _, f := range e.Fields {
			out[f.Name] = f.Message
		}
	case StepErrorField:
		out[e.Field] = e.Message
	}
	return out
}
