// Package httpclient collects conventions for the configuration of HTTP
// clients used across our various codebases.
//
// It is heavily inspired by github.com/hashicorp/go-cleanhttp.
package httpclient

import (
	"net"
	"net/http"
	"net/url"
	"runtime"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
)

const ConnectTimeout = 5 * time.Second

// DefaultRoundTripper returns an http.RoundTripper with similar default
// values to http.DefaultTransport, but with idle connections and keepalives
// disabled. The transport is configured to emit OTel spans.
func DefaultRoundTripper() http.RoundTripper {
	transport := defaultPooledTransport()
	transport.DisableKeepAlives = true
	transport.MaxIdleConnsPerHost = -1
	return otelhttp.NewTransport(transport)
}

// DefaultPooledRoundTripper returns an http.RoundTripper with similar
// default values to http.DefaultTransport. Only use this for transports that
// will be re-used for the same host(s), otherwise it can leak file
// descriptors over time.
func DefaultPooledRoundTripper() http.RoundTripper {
	return otelhttp.NewTransport(defaultPooledTransport())
}

// PooledEgressRoundTripper returns an http.RoundTripper designed to call
// arbitrary 3rd-party endpoints. It accepts a proxy function which in
// production should point to a suitable egress proxy. Trace context is not
// propagated to the remote endpoint.
func PooledEgressRoundTripper(proxy func(*http.Request) (*url.URL, error)) http.RoundTripper {
	transport := defaultPooledTransport()
	transport.Proxy = proxy

	noopPropagator := propagation.NewCompositeTextMapPropagator()

	return otelhttp.NewTransport(transport, otelhttp.WithPropagators(noopPropagator))
}

func defaultPooledTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   ConnectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConnsPerHost:   runtime.GOMAXPROCS(0) + 1,
	}
}

// DefaultClient returns a new http.Client with a non-shared transport, idle
// connections disabled, and keepalives disabled.
func DefaultClient() *http.Client {
	return &http.Client{
		Transport: DefaultRoundTripper(),
	}
}

// DefaultPooledClient returns a new http.Client with a shared transport.
// Only use this for clients that will be re-used for the same host(s).
func DefaultPooledClient() *http.Client {
	return &http.Client{
		Transport: DefaultPooledRoundTripper(),
	}
}
