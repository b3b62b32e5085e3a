package common

import (
	"context"
	"fmt"
	"time"
)

// RetryPolicy retries a fallible operation with exponential backoff:
// attempt n (starting at 1) is followed by a wait of 2^n * BaseDelay.
// Each policy value is independent; failures never persist across cycles.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Sleep is overridable for tests. Nil means a context-aware time.Sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy returns a policy with the standard 1s backoff base.
func NewRetryPolicy(maxAttempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: maxAttempts, BaseDelay: time.Second}
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Retry runs op until it succeeds or the policy's attempts are exhausted.
// Success on any attempt short-circuits further retries. Exhaustion returns
// an error embedding the last failure and the total attempt count.
func Retry[T any](ctx context.Context, p RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt < maxAttempts {
			delay := time.Duration(1<<uint(attempt)) * base
			if serr := p.sleep(ctx, delay); serr != nil {
				return zero, fmt.Errorf("retry aborted after %d attempts: %w", attempt, serr)
			}
		}
	}

	return zero, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}
