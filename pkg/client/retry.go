package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// requestIDHeaders are the response headers that may carry a server side
// request id, in lookup order.
var requestIDHeaders = []string{
	"x-request-id",
	"x-arequestid",
	"x-trace-id",
	"x-b3-traceid",
	"traceparent",
}

// RequestID returns the first request id header present in h, or "".
func RequestID(h http.Header) string {
	for _, name := range requestIDHeaders {
		if v := h.Get(name); v != "" {
			return v
		}
	}
	return ""
}

// RetryWait computes the wait before retry number attempt (1-based) using the
// default jitter bound. A non-negative integer Retry-After header wins over
// the exponential schedule 2^(attempt-1) seconds.
func RetryWait(h http.Header, attempt int) time.Duration {
	return retryWait(h, attempt, DefaultMaxJitter, randomJitter)
}

func retryWait(h http.Header, attempt int, maxJitter time.Duration, jitter func(time.Duration) time.Duration) time.Duration {
	base := baseWait(h, attempt)
	if jitter != nil {
		base += jitter(maxJitter)
	}
	return base
}

func baseWait(h http.Header, attempt int) time.Duration {
	if h != nil {
		if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
			if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	if attempt < 1 {
		attempt = 1
	}
	// Cap the exponent so a misconfigured attempt count cannot overflow.
	if attempt > 16 {
		attempt = 16
	}
	return time.Duration(1<<(attempt-1)) * time.Second
}

// retryBackOff is a backoff.BackOff whose next interval depends on the
// headers of the response that just failed.
type retryBackOff struct {
	attempt   int
	header    http.Header
	maxJitter time.Duration
	jitter    func(time.Duration) time.Duration
}

var _ backoff.BackOff = (*retryBackOff)(nil)

func (b *retryBackOff) NextBackOff() time.Duration {
	b.attempt++
	return retryWait(b.header, b.attempt, b.maxJitter, b.jitter)
}

func (b *retryBackOff) Reset() {
	b.attempt = 0
	b.header = nil
}

// Retry runs op until it succeeds, returns a non-retryable error, the context
// is cancelled or MaxAttempts tries have been made. op receives the 1-based
// attempt number and must build a fresh request each time. Only errors for
// which Retryable reports true are retried.
func (c *Client) Retry(ctx context.Context, op func(attempt int) error) error {
	b := &retryBackOff{maxJitter: c.cfg.MaxJitter, jitter: c.cfg.Jitter}

	attempt := 0
	var last *Error
	wrapped := func() error {
		attempt++
		err := op(attempt)
		if err == nil {
			return nil
		}

		var apiErr *Error
		if errors.As(err, &apiErr) {
			apiErr.Attempts = attempt
			last = apiErr
			b.header = apiErr.Header
		} else {
			b.header = nil
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		if last != nil && last.Status != 0 {
			c.log.Debug("retrying request",
				"method", last.Method,
				"url", last.URL,
				"status", last.Status,
				"attempt", attempt,
				"wait", wait,
				"request_id", RequestID(last.Header))
			return
		}
		c.log.Debug("retrying request after error", "attempt", attempt, "wait", wait, "error", err)
	}

	var timer backoff.Timer
	if c.cfg.NewTimer != nil {
		timer = c.cfg.NewTimer()
	}

	maxRetries := uint64(0)
	if c.cfg.MaxAttempts > 1 {
		maxRetries = uint64(c.cfg.MaxAttempts - 1)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)

	return backoff.RetryNotifyWithTimer(wrapped, policy, notify, timer)
}
