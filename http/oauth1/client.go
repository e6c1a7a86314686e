package oauth1

import (
	"net/http"

	"github.com/meridianhq/go/httpclient"
)

// NewClient returns an http.Client that signs every request with cfg over
// the library's conventional instrumented transport. Pass WithRoundTripper
// to substitute a different base transport.
func NewClient(cfg Config, opts ...Option) (*http.Client, error) {
	opts = append([]Option{WithRoundTripper(httpclient.DefaultRoundTripper())}, opts...)

	transport, err := NewTransport(cfg, opts...)
	if err != nil {
		return nil, err
	}

	return &http.Client{Transport: transport}, nil
}
