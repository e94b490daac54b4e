package llm

import (
	"context"
	"time"
)

// RetryPolicy retries transient failures with exponential backoff.
type RetryPolicy struct {
	MaxAttempts int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
	// Retryable decides whether an error deserves another attempt.
	// Defaults to IsRetryable.
	Retryable func(error) bool
}

// DefaultRetryPolicy matches the transport defaults: three attempts with
// backoff doubling from 2s up to 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		MinBackoff:  2 * time.Second,
		MaxBackoff:  10 * time.Second,
	}
}

// Do runs fn until it succeeds, fails permanently, or attempts run out.
// The last error is returned unwrapped so callers can inspect its kind.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	backoff := p.MinBackoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts || !retryable(err) {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if p.MaxBackoff > 0 && backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}
	return err
}
