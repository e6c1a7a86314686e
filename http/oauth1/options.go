package oauth1

import (
	"fmt"
	"net/http"
	"time"
)

type Option interface {
	apply(*options) error
}

type options struct {
	base  http.RoundTripper
	nonce func() string
	clock func() time.Time
}

type optionFunc func(*options) error

func (fn optionFunc) apply(opts *options) error {
	return fn(opts)
}

// WithRoundTripper sets the transport that executes requests after signing.
// If unset, http.DefaultTransport is used.
func WithRoundTripper(rt http.RoundTripper) Option {
	return optionFunc(func(opts *options) error {
		opts.base = rt
		return nil
	})
}

// WithNonceSource replaces the default nonce generator. The source must
// return a fresh high-entropy opaque string on each call.
func WithNonceSource(source func() string) Option {
	return optionFunc(func(opts *options) error {
		if source == nil {
			return fmt.Errorf("%w: nil nonce source", ErrInvalidOption)
		}
		opts.nonce = source
		return nil
	})
}

// WithClock replaces the clock used for the oauth_timestamp parameter.
func WithClock(clock func() time.Time) Option {
	return optionFunc(func(opts *options) error {
		if clock == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidOption)
		}
		opts.clock = clock
		return nil
	})
}

func makeOptions(opts ...Option) (*options, error) {
	options := &options{}
	for _, o := range opts {
		if err := o.apply(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}
