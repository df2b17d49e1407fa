package marketplace

import (
	"fmt"
	"time"
)

// NotFoundError signals the marketplace does not know a plugin or a specific
// plugin version. It is an expected outcome, not a failure.
type NotFoundError struct {
	PluginID string
	Version  string
}

func (e *NotFoundError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("plugin %s not found", e.PluginID)
	}
	return fmt.Sprintf("plugin %s@%s not found", e.PluginID, e.Version)
}

// RateLimitedError signals the marketplace refused a request even after the
// retry budget was spent on 429 responses.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("marketplace rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "marketplace rate limit exceeded"
}

// StatusError is a non-success response that is neither a 404 nor a 429.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
}
