package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrProviderUnavailable is returned when no adapter is wired.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrUnsupportedProvider is returned for a course whose provider tag has no adapter.
	ErrUnsupportedProvider = errors.New("unsupported provider")
	// ErrMissingIdentifier means the upstream id for a course could not be resolved.
	ErrMissingIdentifier = errors.New("missing upstream identifier")
	// ErrUnexpectedShape means the upstream payload did not contain recognizable tee times.
	ErrUnexpectedShape = errors.New("unexpected upstream shape")
	// ErrCircuitOpen is returned while a course's breaker rejects calls.
	ErrCircuitOpen = errors.New("circuit open")
	// ErrThrottled means the local limiter refused a call the deadline could not wait for.
	// Upstream was never contacted.
	ErrThrottled = errors.New("throttled locally")
)

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// StatusError is a non-success upstream response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Provider, e.StatusCode, body)
}

// Retryable reports whether an upstream error is worth another attempt:
// rate limits, 5xx responses and transport failures. Configuration and shape
// errors, 4xx responses and context cancellation are final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrMissingIdentifier) || errors.Is(err, ErrUnexpectedShape) ||
		errors.Is(err, ErrUnsupportedProvider) || errors.Is(err, ErrProviderUnavailable) ||
		errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrThrottled) {
		return false
	}
	if _, ok := AsRateLimitError(err); ok {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(raw string, now time.Time) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
