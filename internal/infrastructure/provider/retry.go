package provider

import (
	"context"
	"math"
	"math/rand"
	"strconv"
	"time"
)

// retryConfig implements bounded exponential backoff with jitter,
// honoring a Retry-After hint when the server supplies one. Grounded
// on the same calculateDelay shape used by a GeoApify-style client.
type retryConfig struct {
	maxRetries   int
	initialDelay time.Duration
	maxDelay     time.Duration
}

type retryHint struct {
	retryAfter string
}

func (r *retryConfig) do(ctx context.Context, fn func() (*retryHint, error)) error {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		hint, err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if hint == nil || attempt == r.maxRetries {
			break
		}

		delay := r.calculateDelay(attempt, hint)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func (r *retryConfig) calculateDelay(attempt int, hint *retryHint) time.Duration {
	if hint != nil && hint.retryAfter != "" {
		if seconds, err := strconv.Atoi(hint.retryAfter); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	backoff := float64(r.initialDelay) * math.Pow(2, float64(attempt))
	if backoff > float64(r.maxDelay) {
		backoff = float64(r.maxDelay)
	}

	jitter := backoff * (0.5 + rand.Float64()*0.5)
	return time.Duration(jitter)
}
