package oauth1

import (
	"context"
	"fmt"
)

// MethodHMACSHA1 is the only signature method currently implemented. It is
// also the default when Config.SignatureMethod is left empty.
const MethodHMACSHA1 = "HMAC-SHA1"

const protocolVersion = "1.0"

// Config holds the credentials and fixed protocol values used to sign
// outgoing requests. The zero value is valid: signing without credentials
// still produces a header carrying nonce, timestamp, signature method,
// version and signature.
//
// ConsumerSecret and TokenSecret are used only as HMAC key material and are
// never rendered into the Authorization header.
type Config struct {
	ConsumerKey    string
	ConsumerSecret string

	// Token and TokenSecret identify the authorized user or session. When
	// Token is empty the oauth_token parameter is omitted from the header
	// entirely, not sent with an empty value.
	Token       string
	TokenSecret string

	// Nonce, if set, is used verbatim for every signed request instead of a
	// freshly generated random value. Intended for tests and for callers that
	// manage nonces themselves; no uniqueness tracking happens either way.
	Nonce string

	// Timestamp, if set, is used verbatim instead of the current Unix time.
	Timestamp string

	// SignatureMethod selects the signing algorithm. Empty means HMAC-SHA1.
	SignatureMethod string
}

func (c Config) method() string {
	if c.SignatureMethod == "" {
		return MethodHMACSHA1
	}
	return c.SignatureMethod
}

func (c Config) validate() error {
	if m := c.method(); m != MethodHMACSHA1 {
		return fmt.Errorf("%w: %q", ErrUnsupportedSignatureMethod, m)
	}
	return nil
}

// Override is a per-request patch applied over a Transport's default Config.
// A nil field inherits the default; a non-nil field replaces it, including
// an explicit pointer to the empty string.
type Override struct {
	ConsumerKey    *string
	ConsumerSecret *string
	Token          *string
	TokenSecret    *string
	Nonce          *string
	Timestamp      *string
}

// String returns a pointer to s, for use in Override literals.
func String(s string) *string { return &s }

// merge returns a new effective Config with o applied over defaults. It
// never mutates either argument.
func merge(defaults Config, o *Override) Config {
	cfg := defaults
	if o == nil {
		return cfg
	}
	if o.ConsumerKey != nil {
		cfg.ConsumerKey = *o.ConsumerKey
	}
	if o.ConsumerSecret != nil {
		cfg.ConsumerSecret = *o.ConsumerSecret
	}
	if o.Token != nil {
		cfg.Token = *o.Token
	}
	if o.TokenSecret != nil {
		cfg.TokenSecret = *o.TokenSecret
	}
	if o.Nonce != nil {
		cfg.Nonce = *o.Nonce
	}
	if o.Timestamp != nil {
		cfg.Timestamp = *o.Timestamp
	}
	return cfg
}

// directive is the per-request signing decision carried in the request
// context: sign with the Transport defaults, skip signing entirely, or sign
// with an override patch.
type directive struct {
	disabled bool
	override *Override
}

type contextKey int

const directiveContextKey contextKey = iota

// WithoutSigning returns a context that disables signing for any request
// dispatched with it. The request passes through the Transport unmodified.
func WithoutSigning(ctx context.Context) context.Context {
	return context.WithValue(ctx, directiveContextKey, directive{disabled: true})
}

// WithOverride returns a context that signs the request with o applied over
// the Transport's default Config. Fields left nil inherit the default.
func WithOverride(ctx context.Context, o Override) context.Context {
	return context.WithValue(ctx, directiveContextKey, directive{override: &o})
}

func directiveFromContext(ctx context.Context) directive {
	d, _ := ctx.Value(directiveContextKey).(directive)
	return d
}
