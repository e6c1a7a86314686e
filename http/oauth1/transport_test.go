package oauth1_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianhq/go/http/oauth1"
	"github.com/meridianhq/go/test"
)

func defaultConfig() oauth1.Config {
	return oauth1.Config{
		ConsumerKey:    "CKEY",
		ConsumerSecret: "CSECRET",
		Token:          "TOKEN",
		TokenSecret:    "TSECRET",
	}
}

// recordingServer captures the Authorization header and body of the request
// it receives.
func recordingServer(t *testing.T, gotAuth *string, gotBody *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotAuth = r.Header.Get("Authorization")

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		*gotBody = string(body)

		w.WriteHeader(http.StatusOK)
	}))
}

func newClient(t *testing.T, cfg oauth1.Config, opts ...oauth1.Option) *http.Client {
	t.Helper()
	transport, err := oauth1.NewTransport(cfg, opts...)
	require.NoError(t, err)
	return &http.Client{Transport: transport}
}

func oauthValue(t *testing.T, header, key string) string {
	t.Helper()
	for _, part := range strings.Split(strings.TrimPrefix(header, "OAuth "), ", ") {
		if k, v, ok := strings.Cut(part, "="); ok && k == key {
			return strings.Trim(v, `"`)
		}
	}
	return ""
}

func TestRoundTripSigns(t *testing.T) {
	var gotAuth, gotBody string
	server := recordingServer(t, &gotAuth, &gotBody)
	defer server.Close()

	client := newClient(t, defaultConfig())

	req, err := http.NewRequest("POST", server.URL+"/resource", strings.NewReader("foo=bar"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.True(t, strings.HasPrefix(gotAuth, "OAuth "))
	assert.Equal(t, "CKEY", oauthValue(t, gotAuth, "oauth_consumer_key"))
	assert.Equal(t, "TOKEN", oauthValue(t, gotAuth, "oauth_token"))
	assert.Equal(t, "HMAC-SHA1", oauthValue(t, gotAuth, "oauth_signature_method"))
	assert.Equal(t, "1.0", oauthValue(t, gotAuth, "oauth_version"))
	assert.NotEmpty(t, oauthValue(t, gotAuth, "oauth_signature"))

	// The buffered body still reaches the wire intact.
	assert.Equal(t, "foo=bar", gotBody)
}

func TestRoundTripDoesNotMutateOriginal(t *testing.T) {
	var gotAuth, gotBody string
	server := recordingServer(t, &gotAuth, &gotBody)
	defer server.Close()

	client := newClient(t, defaultConfig())

	req, err := http.NewRequest("GET", server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, gotAuth)
	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestExistingAuthorizationPreserved(t *testing.T) {
	var gotAuth, gotBody string
	server := recordingServer(t, &gotAuth, &gotBody)
	defer server.Close()

	client := newClient(t, defaultConfig())

	req, err := http.NewRequest("GET", server.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "iz me!")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "iz me!", gotAuth)
}

func TestSigningDisabledForRequest(t *testing.T) {
	var gotAuth, gotBody string
	server := recordingServer(t, &gotAuth, &gotBody)
	defer server.Close()

	client := newClient(t, defaultConfig())

	req, err := http.NewRequest("GET", server.URL, nil)
	require.NoError(t, err)
	req = req.WithContext(oauth1.WithoutSigning(test.Context(t)))

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Empty(t, gotAuth)
}

func TestPerRequestOverride(t *testing.T) {
	var gotAuth, gotBody string
	server := recordingServer(t, &gotAuth, &gotBody)
	defer server.Close()

	client := newClient(t, defaultConfig())

	req, err := http.NewRequest("GET", server.URL, nil)
	require.NoError(t, err)
	req = req.WithContext(oauth1.WithOverride(test.Context(t), oauth1.Override{
		ConsumerKey: oauth1.String("CKEY2"),
	}))

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	// Only the overridden key changes; the token inherits the default.
	assert.Equal(t, "CKEY2", oauthValue(t, gotAuth, "oauth_consumer_key"))
	assert.Equal(t, "TOKEN", oauthValue(t, gotAuth, "oauth_token"))
}

func TestSigningErrorAbortsRequest(t *testing.T) {
	var called bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	// Consumer key without its secret fails at sign time, after the merge.
	client := newClient(t, oauth1.Config{ConsumerKey: "CKEY"})

	req, err := http.NewRequest("GET", server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req) //nolint:bodyclose // no response on error
	require.ErrorIs(t, err, oauth1.ErrMissingConsumerSecret)
	assert.Nil(t, resp)
	assert.False(t, called, "request must not be dispatched when signing fails")
}

func TestNewTransportValidation(t *testing.T) {
	_, err := oauth1.NewTransport(oauth1.Config{SignatureMethod: "PLAINTEXT"})
	require.ErrorIs(t, err, oauth1.ErrUnsupportedSignatureMethod)

	_, err = oauth1.NewTransport(oauth1.Config{}, oauth1.WithNonceSource(nil))
	require.ErrorIs(t, err, oauth1.ErrInvalidOption)

	_, err = oauth1.NewTransport(oauth1.Config{}, oauth1.WithClock(nil))
	require.ErrorIs(t, err, oauth1.ErrInvalidOption)
}

func TestFixedNonceSource(t *testing.T) {
	var gotAuth, gotBody string
	server := recordingServer(t, &gotAuth, &gotBody)
	defer server.Close()

	client := newClient(t, defaultConfig(),
		oauth1.WithNonceSource(func() string { return "fixed-nonce" }),
	)

	req, err := http.NewRequest("GET", server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "fixed-nonce", oauthValue(t, gotAuth, "oauth_nonce"))
}
