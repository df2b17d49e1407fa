package marketplace

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/theCapypara/nix-jetbrains-plugins/internal/logging"
)

// retryTransport wraps an http.RoundTripper with bounded retries. Transport
// errors, 5xx responses and 429 responses are retried with exponential
// backoff; a Retry-After header on a 429 overrides the computed backoff.
type retryTransport struct {
	base           http.RoundTripper
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

func newRetryTransport(base http.RoundTripper, maxRetries int) *retryTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &retryTransport{
		base:           base,
		maxRetries:     maxRetries,
		initialBackoff: 250 * time.Millisecond,
		maxBackoff:     30 * time.Second,
	}
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := t.base.RoundTrip(req.Clone(req.Context()))
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		if attempt == t.maxRetries {
			// Budget spent, hand the last outcome to the caller.
			return resp, err
		}

		wait := t.backoff(attempt)
		if err == nil {
			if after := retryAfter(resp); after > 0 {
				wait = after
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
		logging.Debugf("retrying %s in %s (attempt %d)", req.URL.Path, wait, attempt+1)

		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(wait):
		}
	}
}

func (t *retryTransport) backoff(attempt int) time.Duration {
	wait := t.initialBackoff
	for i := 0; i < attempt; i++ {
		wait *= 2
		if wait >= t.maxBackoff {
			return t.maxBackoff
		}
	}
	return wait
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

// retryAfter reads the Retry-After header, in seconds form only.
func retryAfter(resp *http.Response) time.Duration {
	value := resp.Header.Get("Retry-After")
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
