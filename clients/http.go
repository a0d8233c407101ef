package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// HTTPClientConfig configures the shared HTTP client.
type HTTPClientConfig struct {
	Timeout time.Duration
	// Proxy is host:port, host:port:user:pass or host:port:user:pass:socks5.
	Proxy string
}

// NewHTTPClient creates the HTTP client used for every API call.
func NewHTTPClient(cfg HTTPClientConfig) (*http.Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if cfg.Proxy != "" {
		if err := configureProxy(transport, cfg.Proxy); err != nil {
			return nil, err
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, nil
}

func configureProxy(transport *http.Transport, proxyString string) error {
	parts := strings.Split(proxyString, ":")
	if len(parts) < 2 {
		return fmt.Errorf("invalid proxy %q: expected host:port", proxyString)
	}

	host := parts[0]
	port := parts[1]

	proxyType := "http"
	var username, password string

	if len(parts) >= 4 {
		username = parts[2]
		password = parts[3]
		if len(parts) >= 5 {
			proxyType = strings.ToLower(parts[4])
		}
	}

	if strings.HasPrefix(proxyType, "socks") {
		var auth *proxy.Auth
		if username != "" && password != "" {
			auth = &proxy.Auth{User: username, Password: password}
		}
		dialer, err := proxy.SOCKS5("tcp", net.JoinHostPort(host, port), auth, proxy.Direct)
		if err != nil {
			return fmt.Errorf("socks5 proxy: %w", err)
		}
		transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		}
		return nil
	}

	proxyURL := &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(host, port),
	}
	if username != "" && password != "" {
		proxyURL.User = url.UserPassword(username, password)
	}
	transport.Proxy = http.ProxyURL(proxyURL)
	return nil
}
