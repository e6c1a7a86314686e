// Package oauth1 implements outbound request signing for the OAuth 1.0
// protocol as defined in [RFC 5849].
//
// Transport is an http.RoundTripper that computes an HMAC-SHA1 signature
// over each outgoing request and injects it as an Authorization header.
// Requests that already carry an Authorization header pass through
// untouched, as do requests whose context disables signing via
// WithoutSigning. Per-request credential overrides are carried in the
// request context via WithOverride.
//
// [RFC 5849]: https://www.rfc-editor.org/rfc/rfc5849
package oauth1

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/meridianhq/go/logging"
)

var logger = logging.New("oauth1")

// Transport signs outgoing requests before delegating to a base
// http.RoundTripper. It holds no per-request state and is safe for
// concurrent use.
//
// Note: for signable (form-encoded or untyped) bodies the transport buffers
// the request body in memory in order to fold its parameters into the
// signature base string.
type Transport struct {
	base     http.RoundTripper
	defaults Config
	signer   *Signer
}

// NewTransport returns a Transport that signs every request with defaults,
// subject to per-request directives carried in the request context. It fails
// if defaults names an unsupported signature method.
func NewTransport(defaults Config, opts ...Option) (*Transport, error) {
	if err := defaults.validate(); err != nil {
		return nil, err
	}
	options, err := makeOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &Transport{
		base:     options.base,
		defaults: defaults,
		signer:   newSigner(options),
	}, nil
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Never overwrite a credential the caller already attached.
	if req.Header.Get("Authorization") != "" {
		logger.Debug("request already authorized, skipping signing",
			zap.String("url", req.URL.Redacted()))
		return t.roundTripper().RoundTrip(req)
	}

	d := directiveFromContext(req.Context())
	if d.disabled {
		logger.Debug("signing disabled for request",
			zap.String("url", req.URL.Redacted()))
		return t.roundTripper().RoundTrip(req)
	}

	cfg := merge(t.defaults, d.override)

	// RoundTrip must not modify the original request.
	req = req.Clone(req.Context())

	snap, err := snapshotRequest(req)
	if err != nil {
		return nil, err
	}

	header, err := t.signer.Authorization(snap, cfg)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", header)

	return t.roundTripper().RoundTrip(req)
}

func (t *Transport) roundTripper() http.RoundTripper {
	if t.base != nil {
		return t.base
	}
	return http.DefaultTransport
}

// snapshotRequest reads the request into the form the signer consumes. The
// body is buffered and restored only when its content type makes it
// signable; other bodies never participate in the signature and are left
// alone on the wire.
func snapshotRequest(req *http.Request) (Snapshot, error) {
	snap := Snapshot{
		Method:      req.Method,
		URL:         req.URL,
		ContentType: req.Header.Get("Content-Type"),
	}

	if !bodySignable(snap.ContentType) || req.Body == nil || req.Body == http.NoBody {
		return snap, nil
	}

	defer req.Body.Close()
	buf, err := io.ReadAll(req.Body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: reading request body: %v", ErrSigningFailure, err)
	}

	snap.Body = string(buf)
	req.Body = io.NopCloser(bytes.NewReader(buf))

	return snap, nil
}
