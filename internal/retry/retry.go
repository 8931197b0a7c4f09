// Package retry provides a reusable retry policy for transient upstream
// failures. Clients share one policy instead of reimplementing backoff loops.
package retry

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/nvidaurre/swaprouter/internal/apperror"
)

// RetryableFunc reports whether an error is worth retrying.
type RetryableFunc func(err error) bool

// BackoffFunc returns the delay before the given attempt (1-based).
type BackoffFunc func(attempt int) time.Duration

// Policy describes how an operation is retried.
type Policy struct {
	MaxAttempts int
	Backoff     BackoffFunc
	Retryable   RetryableFunc
}

// LinearBackoff returns base multiplied by the attempt index
// (1s, 2s, 3s... for base=1s).
func LinearBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

// TransportErrors is the default retryable predicate: connection-level
// failures, timeouts, and upstream 5xx responses. Upstream rejections (4xx)
// are never retried.
func TransportErrors(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.StatusCode >= 500 {
		return true
	}
	return false
}

// Default returns the policy used for idempotent aggregator reads:
// 3 attempts with 1s linear backoff on transport failures.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(time.Second),
		Retryable:   TransportErrors,
	}
}

// None returns a policy that performs exactly one attempt. Used for calls
// with side effects where a duplicate submission is worse than a failure.
func None() Policy {
	return Policy{MaxAttempts: 1}
}

// Do runs op under the policy. It returns the first non-retryable error,
// or the last error once attempts are exhausted.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt == attempts {
			break
		}
		if p.Retryable == nil || !p.Retryable(lastErr) {
			return lastErr
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// DoValue runs op under the policy and returns its result.
func DoValue[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Do(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	return result, err
}
