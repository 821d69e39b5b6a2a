package llm

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"429", 429, func(err error) bool { var e *RateLimitError; return errors.As(err, &e) }},
		{"503", 503, func(err error) bool { var e *NetworkError; return errors.As(err, &e) }},
		{"408", 408, func(err error) bool { var e *NetworkError; return errors.As(err, &e) }},
		{"400", 400, func(err error) bool { var e *ModelError; return errors.As(err, &e) }},
		{"401", 401, func(err error) bool { var e *ModelError; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyStatus("test", tt.status, base)
			if !tt.check(err) {
				t.Errorf("classifyStatus(%d) = %T", tt.status, err)
			}
			if !errors.Is(err, base) {
				t.Error("cause must stay reachable")
			}
		})
	}
}

func TestClassifyTransport(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"deadline", context.DeadlineExceeded, true},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"quota message", errors.New("Error 429: RESOURCE_EXHAUSTED quota"), true},
		{"unavailable", errors.New("503 UNAVAILABLE"), true},
		{"invalid argument", errors.New("400 INVALID_ARGUMENT"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(classifyTransport("test", tt.err)); got != tt.transient {
				t.Errorf("IsTransient = %v, want %v", got, tt.transient)
			}
		})
	}
}

func TestClassifyTransportKeepsCancellation(t *testing.T) {
	if err := classifyTransport("test", context.Canceled); !errors.Is(err, context.Canceled) || IsTransient(err) {
		t.Errorf("cancellation must pass through untouched, got %v", err)
	}
}
