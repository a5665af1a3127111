// Package retry re-sends webhook deliveries with capped exponential backoff.
// A server that answers 429 or 503 with Retry-After is waited on for at
// least that long.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"
)

// Policy bounds how often and how slowly an operation is retried.
type Policy struct {
	// Attempts counts the first try. Values below 1 mean a single try.
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// Jitter is the fraction of each delay added at random (0..1).
	Jitter float64
}

// Webhook is the policy for Slack and Discord digest posts.
func Webhook() Policy {
	return Policy{
		Attempts:  4,
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  5 * time.Second,
		Jitter:    0.2,
	}
}

// StatusError is a non-2xx answer from a webhook endpoint.
type StatusError struct {
	Code int
	Body string
	// RetryAfter is the server's requested pause, zero when absent.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Code)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// NewStatusError builds a StatusError from a response, reading Retry-After
// as either delay-seconds or an HTTP date.
func NewStatusError(resp *http.Response, body string, now time.Time) *StatusError {
	e := &StatusError{Code: resp.StatusCode, Body: body}
	if h := resp.Header.Get("Retry-After"); h != "" {
		if secs, err := strconv.Atoi(h); err == nil && secs > 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		} else if at, err := http.ParseTime(h); err == nil && at.After(now) {
			e.RetryAfter = at.Sub(now)
		}
	}
	return e
}

// Temporary reports whether another attempt could succeed: timeouts,
// refused or reset connections, 408, 429 and 5xx answers.
func Temporary(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusRequestTimeout ||
			se.Code == http.StatusTooManyRequests ||
			se.Code >= 500
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// Do calls op until it succeeds, returns a permanent error, the attempts run
// out or ctx is done. The last error is returned wrapped.
func Do(ctx context.Context, p Policy, op func(context.Context) error) error {
	attempts := max(p.Attempts, 1)

	var err error
	for attempt := 1; ; attempt++ {
		if err = op(ctx); err == nil {
			if attempt > 1 {
				slog.InfoContext(ctx, "delivered after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !Temporary(err) {
			return err
		}
		if attempt == attempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
		}

		wait := p.delay(attempt, err)
		slog.WarnContext(ctx, "delivery failed, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.Any("error", err))

		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		}
	}
}

// delay is BaseDelay*2^(attempt-1) plus jitter, raised to the server's
// Retry-After and capped at MaxDelay.
func (p Policy) delay(attempt int, err error) time.Duration {
	d := p.BaseDelay
	for i := 1; i < attempt && (p.MaxDelay <= 0 || d < p.MaxDelay); i++ {
		d *= 2
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	if p.Jitter > 0 {
		// #nosec G404 -- jitter does not need a cryptographic source
		d += time.Duration(rand.Float64() * min(p.Jitter, 1) * float64(d))
	}

	var se *StatusError
	if errors.As(err, &se) && se.RetryAfter > d {
		d = se.RetryAfter
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		d = p.MaxDelay
	}
	return d
}
