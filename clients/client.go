package clients

import (
	"context"
	"net/http"
)

// Request is a step submission handed to an adapter.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the shape every adapter produces, so failures are classified
// the same way whichever provider handled the submission.
type Response interface {
	OK() bool
	StatusCode() int
	JSON(v any) error
	Text() (string, error)
}

// Adapter submits step requests on behalf of one or more providers.
type Adapter interface {
	Name() string
	Matches(url string) bool
	Submit(ctx context.Context, req *Request) (Response, error)
}
