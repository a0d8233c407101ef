package clients

import (
	"encoding/json"
	"io"
	"net/http"
)

type bufferedResponse struct {
	status  int
	body    []byte
	readErr error
}

var _ Response = (*bufferedResponse)(nil)

// NewResponse builds a Response from a status code and a body.
func NewResponse(status int, body []byte) Response {
	return &bufferedResponse{status: status, body: body}
}

// ReadResponse drains and closes an HTTP response. A body that cannot be read
// is remembered, and JSON and Text both report the read error.
func ReadResponse(resp *http.Response) Response {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return &bufferedResponse{status: resp.StatusCode, body: body, readErr: err}
}

func (r *bufferedResponse) OK() bool {
	return r.status >= 200 && r.status < 300
}

func (r *bufferedResponse) StatusCode() int {
	return r.status
}

func (r *bufferedResponse) JSON(v any) error {
	if r.readErr != nil {
		return r.readErr
	}
	return json.Unmarshal(r.body, v)
}

func (r *bufferedResponse) Text() (string, error) {
	if r.readErr != nil {
		return "", r.readErr
	}
	return string(r.body), nil
}
