package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// RateLimitError is returned when the provider throttles the caller.
type RateLimitError struct {
	Provider string
	Err      error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limited: %v", e.Provider, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// NetworkError covers connection failures, timeouts and 5xx replies.
type NetworkError struct {
	Provider string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Provider, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ModelError is a non-retryable provider failure (bad request, auth, context
// length, empty reply).
type ModelError struct {
	Provider string
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: model error: %v", e.Provider, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// IsTransient reports whether err is worth retrying with backoff.
func IsTransient(err error) bool {
	var rl *RateLimitError
	var ne *NetworkError
	return errors.As(err, &rl) || errors.As(err, &ne)
}

// classifyStatus maps an HTTP status code from a provider SDK to the error
// taxonomy.
func classifyStatus(provider string, status int, err error) error {
	switch {
	case status == 429:
		return &RateLimitError{Provider: provider, Err: err}
	case status == 408 || status >= 500:
		return &NetworkError{Provider: provider, Err: err}
	case status > 0:
		return &ModelError{Provider: provider, Err: err}
	}
	return classifyTransport(provider, err)
}

// classifyTransport handles errors that carry no HTTP status.
func classifyTransport(provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Provider: provider, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &NetworkError{Provider: provider, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &NetworkError{Provider: provider, Err: err}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "rate limit") {
		return &RateLimitError{Provider: provider, Err: err}
	}
	if strings.Contains(msg, "connection reset") || strings.Contains(msg, "eof") || strings.Contains(msg, "unavailable") {
		return &NetworkError{Provider: provider, Err: err}
	}
	return &ModelError{Provider: provider, Err: err}
}
