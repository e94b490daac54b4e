package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: attempts,
		MinBackoff:  time.Millisecond,
		MaxBackoff:  2 * time.Millisecond,
	}
}

func TestRetry_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := fastPolicy(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRetry_RetriesConnectionErrors(t *testing.T) {
	calls := 0
	err := fastPolicy(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &ConnectionError{URL: "http://localhost:11434", Err: errors.New("refused")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetry_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad prompt")
	calls := 0
	err := fastPolicy(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Expected the permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Non-retryable errors should not be retried, got %d calls", calls)
	}
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	connErr := &ConnectionError{URL: "http://localhost:11434", Err: errors.New("refused")}
	calls := 0
	err := fastPolicy(3).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return connErr
	})

	var ce *ConnectionError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected the last ConnectionError, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetry_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policy := RetryPolicy{MaxAttempts: 3, MinBackoff: time.Minute}
	err := policy.Do(ctx, func(ctx context.Context) error {
		return &ConnectionError{URL: "x", Err: errors.New("refused")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&ConnectionError{URL: "x", Err: errors.New("refused")}) {
		t.Error("Connection errors are retryable")
	}
	if IsRetryable(errors.New("validation failed")) {
		t.Error("Plain errors are not retryable")
	}
	if !IsRetryable(context.DeadlineExceeded) {
		t.Error("Deadline exceeded is retryable")
	}
}
