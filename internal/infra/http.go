package infra

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay is the base backoff when a 429 response carries no
// Retry-After header. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 3

// DoGet performs a GET request with the given headers and returns the
// response body and status code. Callers own closing the body.
func DoGet(ctx context.Context, client *http.Client, url string, headers map[string]string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	return resp.Body, resp.StatusCode, nil
}

// DoGetRetry performs a GET request and retries on HTTP 429, honoring a
// server-supplied Retry-After header when present and falling back to
// exponential backoff starting at RetryBaseDelay. When maxRetries is 0 the
// default (3) is used.
//
// Returns the full body and status. A non-200 status after exhausting
// retries is not an error; callers inspect the status and degrade. Only
// transport failures and context cancellation return an error.
func DoGetRetry(ctx context.Context, client *http.Client, url string, headers map[string]string, maxRetries int) ([]byte, int, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	delay := RetryBaseDelay
	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, 0, err
		}

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			data, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				return nil, resp.StatusCode, readErr
			}
			return data, resp.StatusCode, nil
		}

		// Rate limited: drain the body, then wait either the server's
		// Retry-After or the current backoff step.
		io.Copy(io.Discard, resp.Body)
		wait := delay
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
		resp.Body.Close()
		delay *= 2

		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		case <-time.After(wait):
		}
	}
}
