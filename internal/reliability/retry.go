// Package reliability retries transient failures of external password
// sources with exponential backoff.
package reliability

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// RetryConfig holds configuration for retry operations
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial attempt)
	MaxAttempts int
	// InitialDelay is the delay before the first retry
	InitialDelay time.Duration
	// MaxDelay is the maximum delay between retries
	MaxDelay time.Duration
	// Multiplier for exponential backoff
	Multiplier float64
	// Jitter adds up to +/- Jitter*delay of randomness, in [0, 1]
	Jitter float64
	// ShouldRetry decides whether err is worth another attempt
	ShouldRetry func(err error) bool
	// OnRetry is called before each retry attempt
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		Jitter:       0.1,
		ShouldRetry: func(err error) bool {
			return err != nil
		},
	}
}

// withDefaults fills unset fields from DefaultRetryConfig.
func (c RetryConfig) withDefaults() RetryConfig {
	d := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = d.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	if c.Multiplier <= 0 {
		c.Multiplier = d.Multiplier
	}
	if c.Jitter < 0 || c.Jitter > 1 {
		c.Jitter = d.Jitter
	}
	if c.ShouldRetry == nil {
		c.ShouldRetry = d.ShouldRetry
	}
	return c
}

// Retrier runs an operation until it succeeds, returns a non-retryable
// error, runs out of attempts, or ctx is done.
type Retrier struct {
	config RetryConfig
}

// NewRetrier creates a Retrier. Unset config fields take their defaults.
func NewRetrier(config RetryConfig) *Retrier {
	return &Retrier{config: config.withDefaults()}
}

// MaxAttempts returns the maximum number of attempts.
func (r *Retrier) MaxAttempts() int {
	return r.config.MaxAttempts
}

// NextDelay returns the backoff before retry number attempt+1 (0-indexed).
func (r *Retrier) NextDelay(attempt int) time.Duration {
	if attempt < 0 {
		return 0
	}

	delay := float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt))
	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	if r.config.Jitter > 0 {
		jitterRange := delay * r.config.Jitter
		delay += (rand.Float64() - 0.5) * 2 * jitterRange
	}
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}

// Do executes operation with retry logic and returns the last error.
func (r *Retrier) Do(ctx context.Context, operation func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.config.ShouldRetry(err) || attempt == r.config.MaxAttempts-1 {
			break
		}

		delay := r.NextDelay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
