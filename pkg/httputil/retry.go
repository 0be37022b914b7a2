package httputil

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"
)

// MaxRetryAfter caps how long a Retry-After header may delay the next attempt.
const MaxRetryAfter = 30 * time.Second

// RetryableError marks a transient failure. After, when positive, is the
// wait the server asked for through Retry-After.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry calls fn until it succeeds, fails with a non-retryable error, or
// attempts calls have been made. The wait starts at delay and doubles after
// every failure; a longer Retry-After from the server takes precedence.
// Cancelling ctx aborts the wait and returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) {
			return err
		}
		if i == attempts-1 {
			break
		}

		wait := max(delay, min(re.After, MaxRetryAfter))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return err
}

// IsRetryable reports whether err is, or wraps, a RetryableError.
func IsRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}

// retryAfter parses a Retry-After header given in seconds. HTTP dates are
// not used by the services this client talks to and yield zero.
func retryAfter(h http.Header) time.Duration {
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
