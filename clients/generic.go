package clients

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// GenericAdapter submits steps as they are, over plain HTTP. It matches every
// URL and is always the last entry of a Registry.
type GenericAdapter struct {
	client *http.Client
}

var _ Adapter = (*GenericAdapter)(nil)

func NewGenericAdapter(client *http.Client) *GenericAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &GenericAdapter{client: client}
}

func (g *GenericAdapter) Name() string {
	return "generic"
}

func (g *GenericAdapter) Matches(string) bool {
	return true
}

func (g *GenericAdapter) Submit(ctx context.Context, req *Request) (Response, error) {
	return do(ctx, g.client, req.Method, req.URL, req.Header, req.Body)
}

func do(ctx context.Context, client *http.Client, method, url string, header http.Header, body []byte) (Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	return ReadResponse(resp), nil
}
