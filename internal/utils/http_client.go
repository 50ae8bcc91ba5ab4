package utils

import (
	"crypto/tls"
	"net/http"
	"time"
)

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: newTransport(),
	}
}

// NewDebugHTTPClient wraps the default transport in a DebugTransport when
// debug is set.
func NewDebugHTTPClient(timeout time.Duration, debug bool) *http.Client {
	client := NewHTTPClient(timeout)
	if debug {
		client.Transport = NewDebugTransport(client.Transport, true)
	}
	return client
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: false,
		},
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}
