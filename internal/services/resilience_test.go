package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/ai-interview-platform/internal/config"
)

func testPolicy(attempts int) retryPolicy {
	return retryPolicy{maxAttempts: attempts, initialDelay: time.Millisecond, logger: zap.NewNop()}
}

func TestWithRetry_SucceedsAfterTransientErrors(t *testing.T) {
	calls := 0
	result, err := withRetry(context.Background(), testPolicy(3), "op", func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("503 unavailable")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_GivesUp(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), testPolicy(2), "generate text", func() (int, error) {
		calls++
		return 0, errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "generate text failed after retries")
}

func TestWithRetry_DoesNotRetryOpenBreaker(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), testPolicy(5), "op", func() (int, error) {
		calls++
		return 0, fmt.Errorf("failed: %w", gobreaker.ErrOpenState)
	})

	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := retryPolicy{maxAttempts: 5, initialDelay: time.Hour, logger: zap.NewNop()}

	_, err := withRetry(ctx, p, "op", func() (int, error) {
		cancel()
		return 0, errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	cfg := config.BreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		MinRequests:      2,
		FailureThreshold: 0.5,
		Interval:         time.Minute,
		Timeout:          time.Minute,
	}
	b := NewBreaker[string]("text", cfg, zap.NewNop())
	fail := func() (string, error) { return "", errors.New("upstream") }

	_, _ = b.Execute(fail)
	_, _ = b.Execute(fail)

	assert.Equal(t, "open", b.State())

	_, err := b.Execute(func() (string, error) { return "never", nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestBreaker_DisabledPassesThrough(t *testing.T) {
	b := NewBreaker[string]("text", config.BreakerConfig{Enabled: false}, zap.NewNop())

	assert.Nil(t, b)
	assert.Equal(t, "disabled", b.State())

	out, err := b.Execute(func() (string, error) { return "direct", nil })
	require.NoError(t, err)
	assert.Equal(t, "direct", out)
}
