package reliability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("transient")

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  4,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2,
		Jitter:       0,
	}
}

func TestRetrier_SucceedsAfterTransientFailures(t *testing.T) {
	var calls, retries int
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		retries++
		assert.ErrorIs(t, err, errTransient)
	}

	err := NewRetrier(cfg).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retries)
}

func TestRetrier_StopsAtMaxAttempts(t *testing.T) {
	calls := 0
	err := NewRetrier(fastConfig()).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 4, calls)
}

func TestRetrier_NonRetryableErrorStopsImmediately(t *testing.T) {
	permanent := errors.New("permanent")
	cfg := fastConfig()
	cfg.ShouldRetry = func(err error) bool { return errors.Is(err, errTransient) }

	calls := 0
	err := NewRetrier(cfg).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestRetrier_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.InitialDelay = time.Hour
	cfg.MaxDelay = time.Hour

	calls := 0
	err := NewRetrier(cfg).Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errTransient
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetrier_NextDelay(t *testing.T) {
	r := NewRetrier(RetryConfig{
		MaxAttempts:  5,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     50 * time.Millisecond,
		Multiplier:   2,
	})

	assert.Equal(t, time.Duration(0), r.NextDelay(-1))
	assert.Equal(t, 10*time.Millisecond, r.NextDelay(0))
	assert.Equal(t, 20*time.Millisecond, r.NextDelay(1))
	assert.Equal(t, 40*time.Millisecond, r.NextDelay(2))
	assert.Equal(t, 50*time.Millisecond, r.NextDelay(3))
}

func TestRetrier_JitterStaysInRange(t *testing.T) {
	r := NewRetrier(RetryConfig{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2,
		Jitter:       0.5,
	})

	for i := 0; i < 100; i++ {
		d := r.NextDelay(0)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestRetryConfigDefaults(t *testing.T) {
	r := NewRetrier(RetryConfig{Jitter: 7})
	assert.Equal(t, DefaultRetryConfig().MaxAttempts, r.MaxAttempts())
	assert.Equal(t, DefaultRetryConfig().Jitter, r.config.Jitter)
	assert.NotNil(t, r.config.ShouldRetry)
}
