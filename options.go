package stegx

import (
	"fmt"
	"log/slog"
)

// Option configures a Codec created with NewCodec.
type Option func(*Config) error

// WithPlacement sets the bit placement strategy.
func WithPlacement(p Placement) Option {
	return func(c *Config) error {
		switch p {
		case PlacementSequential, PlacementPermuted:
			c.Placement = p
			return nil
		default:
			return fmt.Errorf("%w: unknown placement %s", ErrInvalidConfiguration, p)
		}
	}
}

// WithScramble turns 10x10 block scrambling on or off.
func WithScramble(enabled bool) Option {
	return func(c *Config) error {
		c.Scramble = enabled
		return nil
	}
}

// WithKDFIterations sets the PBKDF2 iteration count.
func WithKDFIterations(iterations int) Option {
	return func(c *Config) error {
		if iterations < MinKDFIterations {
			return fmt.Errorf("%w: kdf iterations must be at least %d, got %d", ErrInvalidConfiguration, MinKDFIterations, iterations)
		}
		c.KDFIterations = iterations
		return nil
	}
}

// WithCryptoProvider replaces the default PBKDF2 + AES-GCM + crypto/rand
// provider, typically to inject a deterministic random source in tests.
func WithCryptoProvider(provider *CryptoProvider) Option {
	return func(c *Config) error {
		if provider == nil {
			return fmt.Errorf("%w: crypto provider cannot be nil", ErrInvalidConfiguration)
		}
		if err := provider.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
		c.Crypto = provider
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error {
		if logger == nil {
			return fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfiguration)
		}
		c.Logger = logger
		return nil
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(collector MetricsCollector) Option {
	return func(c *Config) error {
		if collector == nil {
			return fmt.Errorf("%w: metrics collector cannot be nil", ErrInvalidConfiguration)
		}
		c.MetricsCollector = collector
		return nil
	}
}

// WithObservabilityHook sets the observability hook.
func WithObservabilityHook(hook ObservabilityHook) Option {
	return func(c *Config) error {
		if hook == nil {
			return fmt.Errorf("%w: observability hook cannot be nil", ErrInvalidConfiguration)
		}
		c.ObservabilityHook = hook
		return nil
	}
}

// WithConfig starts from an existing Config. Options listed after it
// override its fields.
func WithConfig(cfg Config) Option {
	return func(c *Config) error {
		*c = cfg
		return nil
	}
}
