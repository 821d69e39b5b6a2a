package transcript

import (
	"context"
	"errors"
	"fmt"
)

// Fetch tries every fetcher in order.
func (c *implChain) Fetch(ctx context.Context, videoID string) (string, error) {
	if len(c.fetchers) == 0 {
		return "", errors.New("no transcript fetchers configured")
	}

	var errs []error
	for i, f := range c.fetchers {
		text, err := f.Fetch(ctx, videoID)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		var unavailable *VideoUnavailableError
		if errors.As(err, &unavailable) {
			return "", err
		}
		errs = append(errs, err)
		if i < len(c.fetchers)-1 {
			c.logger.Warn(ctx, "Transcript fetcher %d failed for %s, trying next: %v", i+1, videoID, err)
		}
	}

	// Surface a typed NoTranscriptError when every fetcher agreed on it.
	var none *NoTranscriptError
	for _, err := range errs {
		if !errors.As(err, &none) {
			return "", fmt.Errorf("fetch transcript %s: %w", videoID, errors.Join(errs...))
		}
	}
	return "", errs[len(errs)-1]
}
