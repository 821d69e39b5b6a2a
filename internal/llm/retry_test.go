package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

var fastPolicy = RetryPolicy{MaxRetries: 3, BackoffBase: time.Millisecond, MaxBackoff: 5 * time.Millisecond, Multiplier: 2}

func TestBackoff(t *testing.T) {
	p := RetryPolicy{BackoffBase: 100 * time.Millisecond, MaxBackoff: time.Second, Multiplier: 2}
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{5, time.Second},
	}
	for _, tt := range tests {
		if got := p.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestDoSuccess(t *testing.T) {
	calls := 0
	got, attempts, err := Do(context.Background(), fastPolicy, func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || attempts != 1 || calls != 1 {
		t.Errorf("got %q after %d attempts (%d calls)", got, attempts, calls)
	}
}

func TestDoRetryThenSuccess(t *testing.T) {
	calls := 0
	got, attempts, err := Do(context.Background(), fastPolicy, func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &RateLimitError{Provider: "test", Err: errors.New("429")}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || attempts != 3 {
		t.Errorf("got %q after %d attempts", got, attempts)
	}
}

func TestDoExhausted(t *testing.T) {
	calls := 0
	_, attempts, err := Do(context.Background(), fastPolicy, func(context.Context) (string, error) {
		calls++
		return "", &NetworkError{Provider: "test", Err: errors.New("reset")}
	})
	if !IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if calls != 4 || attempts != 4 {
		t.Errorf("expected 4 calls, got %d (attempts %d)", calls, attempts)
	}
}

func TestDoNonRetryable(t *testing.T) {
	calls := 0
	_, _, err := Do(context.Background(), fastPolicy, func(context.Context) (string, error) {
		calls++
		return "", &ModelError{Provider: "test", Err: errors.New("bad request")}
	})
	var me *ModelError
	if !errors.As(err, &me) {
		t.Fatalf("expected ModelError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDoAttemptTimeoutIsRetried(t *testing.T) {
	p := fastPolicy
	p.Timeout = 5 * time.Millisecond
	calls := 0
	got, _, err := Do(context.Background(), p, func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 2 {
		t.Errorf("got %q after %d calls", got, calls)
	}
}

func TestDoContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Do(ctx, fastPolicy, func(context.Context) (string, error) {
		t.Fatal("fn must not be called")
		return "", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
