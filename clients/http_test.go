package clients

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	c, err := NewHTTPClient(HTTPClientConfig{})
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, c.Timeout)

	tr, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Nil(t, tr.Proxy)
}

func TestNewHTTPClient_HTTPProxy(t *testing.T) {
	c, err := NewHTTPClient(HTTPClientConfig{Timeout: time.Second, Proxy: "10.0.0.1:8080:user:pass"})
	require.NoError(t, err)

	tr := c.Transport.(*http.Transport)
	require.NotNil(t, tr.Proxy)

	req, err := http.NewRequest(http.MethodGet, "https://api.onramper.com/gateways", nil)
	require.NoError(t, err)
	proxyURL, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:8080", proxyURL.Host)
	assert.Equal(t, "user", proxyURL.User.Username())
}

func TestNewHTTPClient_SocksProxy(t *testing.T) {
	c, err := NewHTTPClient(HTTPClientConfig{Proxy: "127.0.0.1:1080:user:pass:socks5"})
	require.NoError(t, err)

	tr := c.Transport.(*http.Transport)
	assert.Nil(t, tr.Proxy)
	assert.NotNil(t, tr.DialContext)
}

func TestNewHTTPClient_InvalidProxy(t *testing.T) {
	_, err := NewHTTPClient(HTTPClientConfig{Proxy: "nohost"})
	assert.Error(t, err)
}

func TestReadResponse(t *testing.T) {
	resp := NewResponse(http.StatusCreated, []byte(`{"ok":true}`))
	assert.True(t, resp.OK())

	var body map[string]bool
	require.NoError(t, resp.JSON(&body))
	assert.True(t, body["ok"])

	text, err := resp.Text()
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, text)

	assert.False(t, NewResponse(http.StatusFound, nil).OK())
}
