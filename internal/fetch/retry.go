package fetch

import (
	"context"
	"errors"
	"time"
)

// BackoffPolicy controls how retries are spaced.
type BackoffPolicy struct {
	MaxRetries      int
	Factor          time.Duration // base delay, doubled each attempt
	RateLimitFactor time.Duration // base delay after a 429, doubled each attempt
}

// DefaultBackoffPolicy mirrors the retry strategy used across the pipeline:
// three retries, 300ms exponential backoff, with a longer ramp for 429s.
func DefaultBackoffPolicy() BackoffPolicy {
	return BackoffPolicy{
		MaxRetries:      3,
		Factor:          300 * time.Millisecond,
		RateLimitFactor: 2 * time.Second,
	}
}

// Delay returns the backoff before retry attempt n (0-based).
func (p BackoffPolicy) Delay(attempt int, rateLimited bool) time.Duration {
	factor := p.Factor
	if rateLimited {
		factor = p.RateLimitFactor
	}
	return factor * (1 << attempt)
}

// retryable is implemented by errors that know whether another attempt
// could succeed.
type retryable interface {
	Retryable() bool
	RateLimited() bool
}

// Do runs op with bounded retries under the given policy. A non-retryable
// error or context cancellation stops immediately; exhausting retries
// returns the last error.
func Do[T any](ctx context.Context, policy BackoffPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			rateLimited := false
			var r retryable
			if errors.As(lastErr, &r) {
				rateLimited = r.RateLimited()
			}
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(policy.Delay(attempt-1, rateLimited)):
			}
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var r retryable
		if errors.As(err, &r) {
			if !r.Retryable() {
				return zero, err
			}
		} else if !errors.Is(err, context.DeadlineExceeded) {
			// Unclassified errors are not retried.
			return zero, err
		}

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}

	return zero, lastErr
}
