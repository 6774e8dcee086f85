// Package fetch wraps outbound HTTP with bounded retries and a hard
// per-attempt timeout. Every upstream call in the service goes through it.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const requestTimeout = 12 * time.Second

// Client performs a logical outbound request with up to Attempts total
// tries, waiting backoff*attemptIndex between failures.
type Client struct {
	rc *retryablehttp.Client
}

// New creates a Client. attempts is the total ceiling (first try included);
// backoff is the linear wait base between attempts.
func New(attempts int, backoff time.Duration) *Client {
	if attempts < 1 {
		attempts = 1
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = attempts - 1
	rc.HTTPClient.Timeout = requestTimeout
	rc.Logger = nil
	rc.Backoff = linearBackoff(backoff)
	rc.CheckRetry = retryNon2xx
	return &Client{rc: rc}
}

// linearBackoff waits base*1 after the first failure, base*2 after the
// second, and so on. retryablehttp passes attemptNum starting at 0.
func linearBackoff(base time.Duration) retryablehttp.Backoff {
	return func(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
		return base * time.Duration(attemptNum+1)
	}
}

// retryNon2xx retries on any transport error or non-2xx status. A 2xx
// response is never retried.
func retryNon2xx(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return true, nil
	}
	return false, nil
}

// Get fetches url and returns the response body. After the attempt ceiling
// is exhausted the last observed error is returned.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.rc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}

// GetJSON fetches url and decodes the body into v. A malformed payload is
// reported as an error so callers can treat it like a failed fetch.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
