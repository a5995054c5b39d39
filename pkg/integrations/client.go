package integrations

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/jarlens/pkg/httputil"
	"github.com/matzehuels/jarlens/pkg/observability"
)

// Client provides shared HTTP functionality for remote repository clients.
// It handles timeouts, retry logic, and common request headers.
type Client struct {
	http    *http.Client
	retry   httputil.Policy
	headers map[string]string
}

// Options configures a [Client]. Zero values select the defaults.
type Options struct {
	Timeout time.Duration     // Per-request timeout (default: 30s)
	Retry   httputil.Policy   // Retry policy (default: httputil.DefaultPolicy)
	Headers map[string]string // Headers applied to every request
}

// NewClient creates a Client. Headers in opts are applied to all requests.
func NewClient(opts Options) *Client {
	if opts.Retry.Attempts <= 0 {
		opts.Retry = httputil.DefaultPolicy
	}
	return &Client{
		http:    NewHTTPClient(opts.Timeout),
		retry:   opts.Retry,
		headers: opts.Headers,
	}
}

// GetBytes performs an HTTP GET request and returns the full response body.
// Transient failures are retried according to the client's policy.
//
// Returns [ErrNotFound] for 404 responses and [ErrNetwork] (possibly wrapped
// in [httputil.RetryableError]) for everything else that is not a 200.
func (c *Client) GetBytes(ctx context.Context, rawURL string) ([]byte, error) {
	var data []byte
	err := httputil.Retry(ctx, c.retry, func() error {
		body, err := c.doRequest(ctx, rawURL)
		if err != nil {
			return err
		}
		defer body.Close()
		b, err := io.ReadAll(body)
		if err != nil {
			return httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
		}
		data = b
		return nil
	})
	return data, err
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := splitURL(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", rawURL
	}
	return u.Host, u.Path
}
