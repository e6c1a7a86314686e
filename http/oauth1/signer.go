package oauth1

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"mime"
	"net/url"
	"strconv"
	"time"

	"github.com/segmentio/ksuid"
)

const contentTypeForm = "application/x-www-form-urlencoded"

// Snapshot is the read-only view of an outgoing request that the signer
// consumes: the method, the full URL, the declared Content-Type (empty when
// the header is absent) and the serialized body.
type Snapshot struct {
	Method      string
	URL         *url.URL
	ContentType string
	Body        string
}

// Signer computes OAuth 1.0 Authorization header values. It is stateless
// across invocations and safe for concurrent use.
type Signer struct {
	method string
	nonce  func() string
	now    func() time.Time
	signFn func(key, base string) []byte
}

// NewSigner returns a Signer using HMAC-SHA1. The nonce source and clock can
// be replaced via WithNonceSource and WithClock.
func NewSigner(opts ...Option) (*Signer, error) {
	options, err := makeOptions(opts...)
	if err != nil {
		return nil, err
	}
	return newSigner(options), nil
}

func newSigner(opts *options) *Signer {
	s := &Signer{
		method: MethodHMACSHA1,
		nonce:  opts.nonce,
		now:    opts.clock,
		signFn: hmacSHA1,
	}
	if s.nonce == nil {
		s.nonce = func() string { return ksuid.New().String() }
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func hmacSHA1(key, base string) []byte {
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return mac.Sum(nil)
}

// Authorization signs snap with cfg and returns the complete Authorization
// header value.
//
// Protocol parameters appear in the header in a fixed order: consumer key
// and token first (each only when non-empty), then signature method,
// timestamp, nonce, version, and the signature itself last.
func (s *Signer) Authorization(snap Snapshot, cfg Config) (string, error) {
	// NewTransport validates its defaults, but a Signer used directly (or a
	// per-request merge) can still carry a method this signer cannot honor.
	if err := cfg.validate(); err != nil {
		return "", err
	}

	// Signing with an empty secret would produce signatures the server
	// rejects for unobvious reasons, so surface the misconfiguration here.
	if cfg.ConsumerKey != "" && cfg.ConsumerSecret == "" {
		return "", fmt.Errorf("%w (consumer key %q)", ErrMissingConsumerSecret, cfg.ConsumerKey)
	}

	nonce := cfg.Nonce
	if nonce == "" {
		nonce = s.nonce()
	}
	timestamp := cfg.Timestamp
	if timestamp == "" {
		timestamp = strconv.FormatInt(s.now().Unix(), 10)
	}

	var ps params
	if cfg.ConsumerKey != "" {
		ps = ps.add("oauth_consumer_key", cfg.ConsumerKey)
	}
	if cfg.Token != "" {
		ps = ps.add("oauth_token", cfg.Token)
	}
	ps = ps.add("oauth_signature_method", s.method)
	ps = ps.add("oauth_timestamp", timestamp)
	ps = ps.add("oauth_nonce", nonce)
	ps = ps.add("oauth_version", protocolVersion)

	pairs, err := collect(snap, ps)
	if err != nil {
		return "", err
	}

	base := baseString(snap.Method, snap.URL, pairs)
	key := encode(cfg.ConsumerSecret) + "&" + encode(cfg.TokenSecret)
	sig := base64.StdEncoding.EncodeToString(s.signFn(key, base))

	ps = ps.add("oauth_signature", sig)
	return ps.header(), nil
}

// collect flattens the signable body parameters, the URL query parameters
// and the protocol parameters into one collection for the base string.
func collect(snap Snapshot, ps params) ([]param, error) {
	var pairs []param

	if bodySignable(snap.ContentType) {
		body, err := decodeFormBody(snap.Body)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, body...)
	}

	if snap.URL.RawQuery != "" {
		query, err := url.ParseQuery(snap.URL.RawQuery)
		if err != nil {
			return nil, fmt.Errorf("%w: malformed query string: %v", ErrSigningFailure, err)
		}
		for k, vs := range query {
			for _, v := range vs {
				pairs = append(pairs, param{Key: k, Value: v})
			}
		}
	}

	return append(pairs, ps...), nil
}

// bodySignable reports whether the declared content type allows the request
// body to participate in the signature. Only form-encoded bodies are
// signable as parameters; JSON, multipart and every other declared media
// type is excluded. An absent Content-Type is treated as form-encoded.
func bodySignable(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediatype, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediatype == contentTypeForm
}
