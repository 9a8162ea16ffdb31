package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// retryPolicy retries transient upstream failures with exponential backoff.
type retryPolicy struct {
	maxAttempts  int
	initialDelay time.Duration
	logger       *zap.Logger
}

func withRetry[T any](ctx context.Context, p retryPolicy, op string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := p.maxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.initialDelay
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == attempts {
			break
		}

		p.logger.Warn("Upstream call failed, retrying",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("context cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return zero, fmt.Errorf("%s failed after retries: %w", op, lastErr)
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// an open breaker will not close within our backoff window
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return true
}
