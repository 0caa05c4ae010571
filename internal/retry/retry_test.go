package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/retry"
)

var errTransient = errors.New("connection reset by peer")

func fastConfig(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	calls := 0
	var retries []int
	cfg := fastConfig(3)
	cfg.OnRetry = func(attempt int, _ time.Duration, _ error) {
		retries = append(retries, attempt)
	}

	err := retry.Do(context.Background(), cfg, func(context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	t.Parallel()

	permanent := errors.New("not found")
	calls := 0
	err := retry.Do(context.Background(), fastConfig(5), func(context.Context) error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	err := retry.Do(context.Background(), fastConfig(2), func(context.Context) error {
		calls++
		return errTransient
	})

	require.ErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	require.ErrorIs(t, err, errTransient)
	assert.Equal(t, 2, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retry.Do(ctx, fastConfig(3), func(context.Context) error {
		calls++
		return nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	cfg := retry.Config{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2}
	assert.Equal(t, 100*time.Millisecond, retry.Backoff(cfg, 1))
	assert.Equal(t, 200*time.Millisecond, retry.Backoff(cfg, 2))
	assert.Equal(t, 400*time.Millisecond, retry.Backoff(cfg, 3))
	assert.Equal(t, time.Second, retry.Backoff(cfg, 10))
}

func TestDefaultIsRetryable(t *testing.T) {
	t.Parallel()

	assert.False(t, retry.DefaultIsRetryable(nil))
	assert.False(t, retry.DefaultIsRetryable(context.Canceled))
	assert.True(t, retry.DefaultIsRetryable(errors.New("dial tcp: i/o timeout")))
	assert.True(t, retry.DefaultIsRetryable(errTransient))
	assert.False(t, retry.DefaultIsRetryable(errors.New("invalid url")))
}
