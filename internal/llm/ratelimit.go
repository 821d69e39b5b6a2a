package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

const providerRateLimit = "ratelimit"

type rateLimited struct {
	next    Client
	limiter *rate.Limiter
}

// RateLimited wraps next so that at most requestsPerMinute calls start per
// minute across every caller sharing the returned Client. A non-positive
// limit returns next unchanged.
func RateLimited(next Client, requestsPerMinute int) Client {
	if requestsPerMinute <= 0 {
		return next
	}
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return &rateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
	}
}

func (r *rateLimited) Complete(ctx context.Context, prompt, model string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("rate limiter: %w", ctxErr)
		}
		// No token fits before the deadline; retry with backoff like a 429.
		return "", &RateLimitError{Provider: providerRateLimit, Err: err}
	}
	return r.next.Complete(ctx, prompt, model)
}
