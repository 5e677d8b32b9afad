package stegx

import (
	"log/slog"

	"github.com/hengadev/stegx/internal/monitoring"
)

// Config holds the configuration for creating a Codec.
//
// This struct contains only data, no behavior. It can be filled from code,
// the environment (LoadConfigFromEnvironment) or a YAML file
// (LoadConfigFile), then passed to NewCodecFromConfig.
//
// Zero values are valid: Validate fills in sequential placement, scramble
// off, DefaultKDFIterations, a discard logger and no-op monitoring.
//
// Example usage:
//
//	cfg := stegx.Config{
//	    Placement: stegx.PlacementPermuted,
//	    Scramble:  true,
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	codec, err := stegx.NewCodecFromConfig(cfg)
type Config struct {
	// Placement selects where frame bits are written. Encode and Decode
	// must use the same placement.
	Placement Placement

	// Scramble swaps 10x10 pixel blocks after embedding and reverses the
	// swaps before extraction.
	Scramble bool

	// KDFIterations is the PBKDF2-SHA256 iteration count. It is ignored
	// when Crypto is set. Default: DefaultKDFIterations.
	KDFIterations int

	// Crypto supplies the key derivation, cipher and random source. If nil,
	// NewCryptoProvider(KDFIterations) is used.
	Crypto *CryptoProvider

	// Logger receives debug and error records. Passwords, keys and
	// plaintext are never logged.
	Logger *slog.Logger

	MetricsCollector  MetricsCollector
	ObservabilityHook ObservabilityHook
}

// DefaultConfig returns a validated configuration with all defaults applied.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.KDFIterations == 0 {
		c.KDFIterations = DefaultKDFIterations
	}
	if c.Crypto == nil {
		c.Crypto = NewCryptoProvider(c.KDFIterations)
	}
	if c.Logger == nil {
		c.Logger = monitoring.DiscardLogger()
	}
	if c.MetricsCollector == nil {
		c.MetricsCollector = &monitoring.NoOpMetricsCollector{}
	}
	if c.ObservabilityHook == nil {
		c.ObservabilityHook = &monitoring.NoOpObservabilityHook{}
	}
}
