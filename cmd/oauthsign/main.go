// Command oauthsign computes an OAuth 1.0 Authorization header for a request
// described on the command line. With -send it also dispatches the signed
// request through the conventional retrying, instrumented client and prints
// the response.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/meridianhq/go/errors"
	"github.com/meridianhq/go/http/oauth1"
	"github.com/meridianhq/go/httpclient"
	"github.com/meridianhq/go/must"
)

func main() {
	method := flag.String("method", "GET", "HTTP method of the request")
	rawurl := flag.String("url", "", "request URL (required)")
	body := flag.String("body", "", "serialized request body")
	contentType := flag.String("content-type", "", "declared Content-Type of the body")
	consumerKey := flag.String("consumer-key", "", "OAuth consumer key")
	consumerSecret := flag.String("consumer-secret", "", "OAuth consumer secret")
	token := flag.String("token", "", "OAuth token")
	tokenSecret := flag.String("token-secret", "", "OAuth token secret")
	send := flag.Bool("send", false, "send the signed request and print the response")
	proxy := flag.String("proxy", "", "egress proxy URL used with -send")

	flag.Parse()

	if *rawurl == "" {
		fmt.Fprintln(os.Stderr, "-url is required")
		os.Exit(1)
	}

	cfg := oauth1.Config{
		ConsumerKey:    *consumerKey,
		ConsumerSecret: *consumerSecret,
		Token:          *token,
		TokenSecret:    *tokenSecret,
	}

	if *send {
		sendRequest(cfg, *method, *rawurl, *contentType, *body, *proxy)
		return
	}

	signer := must.Get(oauth1.NewSigner())
	snap := oauth1.Snapshot{
		Method:      strings.ToUpper(*method),
		URL:         must.Get(url.Parse(*rawurl)),
		ContentType: *contentType,
		Body:        *body,
	}

	header, err := signer.Authorization(snap, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "signing failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(header)
}

func sendRequest(cfg oauth1.Config, method, rawurl, contentType, body, proxy string) {
	errors.Init()

	var opts []oauth1.Option
	if proxy != "" {
		proxyURL := must.Get(url.Parse(proxy))
		opts = append(opts, oauth1.WithRoundTripper(
			httpclient.PooledEgressRoundTripper(http.ProxyURL(proxyURL))))
	}

	client := httpclient.ApplyRetryPolicy(must.Get(oauth1.NewClient(cfg, opts...)))

	req := must.Get(http.NewRequest(strings.ToUpper(method), rawurl, strings.NewReader(body)))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "request failed: %v\n", err)
		errors.Flush(2 * time.Second)
		os.Exit(1)
	}
	defer resp.Body.Close()

	fmt.Println(resp.Status)
	_, _ = io.Copy(os.Stdout, resp.Body)
	errors.Flush(2 * time.Second)
}
