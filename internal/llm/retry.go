package llm

import (
	"context"
	"errors"
	"math"
	"time"
)

// RetryPolicy controls backoff for transient LLM failures.
type RetryPolicy struct {
	MaxRetries  int
	BackoffBase time.Duration
	MaxBackoff  time.Duration
	Multiplier  float64
	// Timeout bounds every single attempt. Zero means no per-attempt limit.
	Timeout time.Duration
	// OnRetry is called before sleeping between attempts.
	OnRetry func(attempt int, wait time.Duration, err error)
}

// DefaultRetryPolicy is suitable for chat completion calls.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:  3,
	BackoffBase: time.Second,
	MaxBackoff:  30 * time.Second,
	Multiplier:  2.0,
	Timeout:     2 * time.Minute,
}

// Backoff returns the wait before retry number attempt (0-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	mult := p.Multiplier
	if mult <= 0 {
		mult = 2.0
	}
	wait := time.Duration(float64(p.BackoffBase) * math.Pow(mult, float64(attempt)))
	if p.MaxBackoff > 0 && wait > p.MaxBackoff {
		wait = p.MaxBackoff
	}
	return wait
}

// Do calls fn until it succeeds, fails with a non-transient error, or the
// retry budget is spent. It returns the number of attempts made.
// Per-attempt timeouts are reported as NetworkError and retried.
func Do[T any](ctx context.Context, p RetryPolicy, fn func(ctx context.Context) (T, error)) (T, int, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, attempt, err
		}

		result, err := callOnce(ctx, p.Timeout, fn)
		if err == nil {
			return result, attempt + 1, nil
		}
		if ctx.Err() != nil {
			return zero, attempt + 1, ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) && !IsTransient(err) {
			err = &NetworkError{Provider: "timeout", Err: err}
		}
		lastErr = err

		if !IsTransient(err) {
			return zero, attempt + 1, err
		}

		if attempt < p.MaxRetries {
			wait := p.Backoff(attempt)
			if p.OnRetry != nil {
				p.OnRetry(attempt+1, wait, err)
			}
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return zero, attempt + 1, ctx.Err()
			}
		}
	}
	return zero, p.MaxRetries + 1, lastErr
}

func callOnce[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(attemptCtx)
}
