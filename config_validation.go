package stegx

import (
	"fmt"

	"github.com/hengadev/errsx"
)

// Validate checks the configuration and applies defaults to unset fields.
//
// All problems are collected into an errsx.Map keyed by field:
//   - "placement": unknown placement value
//   - "kdf_iterations": negative or below MinKDFIterations
//   - "crypto": provider with a missing primitive
func (c *Config) Validate() error {
	errs := errsx.Map{}

	switch c.Placement {
	case PlacementSequential, PlacementPermuted:
	default:
		errs.Set("placement", fmt.Errorf("unknown placement %s", c.Placement))
	}

	if c.KDFIterations != 0 && c.KDFIterations < MinKDFIterations {
		errs.Set("kdf_iterations", fmt.Errorf("kdf iterations must be at least %d, got %d", MinKDFIterations, c.KDFIterations))
	}

	if c.Crypto != nil {
		if err := c.Crypto.Validate(); err != nil {
			errs.Set("crypto", err)
		}
	}

	if !errs.IsEmpty() {
		return errs.AsError()
	}

	c.applyDefaults()
	return nil
}
