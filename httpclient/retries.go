package httpclient

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ApplyRetryPolicy wraps an HTTP client with one that has a retry policy.
// The policy retries connection errors and timeouts, 429 and 503 responses
// (Retry-After is respected), and other 5XX responses except 501. All other
// responses are returned as-is.
//
// Note that retried requests re-enter the client's transport chain from the
// top, so a signing transport underneath this policy signs each attempt
// afresh (the original request is never mutated).
func ApplyRetryPolicy(c *http.Client) *http.Client {
	retryClient := &retryablehttp.Client{
		HTTPClient:   c,
		Logger:       nil, // request logging is provided by the OTel transport
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 2 * time.Second,
		RetryMax:     4,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
	}
	return retryClient.StandardClient()
}
