package stegx

import "github.com/hengadev/stegx/internal/crypto"

// Environment variable names
const (
	// EnvPlacement selects the bit placement strategy: "sequential" or "permuted".
	EnvPlacement = "STEGX_PLACEMENT"

	// EnvScramble turns block scrambling on when set to a true value
	// ("1", "true", "yes", "on").
	EnvScramble = "STEGX_SCRAMBLE"

	// EnvKDFIterations overrides the PBKDF2 iteration count.
	EnvKDFIterations = "STEGX_KDF_ITERATIONS"

	// EnvPassword is read by EnvPasswordSource.
	EnvPassword = "STEGX_PASSWORD"
)

// Default values
const (
	// DefaultKDFIterations is the PBKDF2-SHA256 iteration count used to
	// derive the AES-256 key.
	DefaultKDFIterations = crypto.DefaultIterations

	// MinKDFIterations is the lowest iteration count Validate accepts.
	MinKDFIterations = crypto.MinIterations

	// DefaultPlacement is used when no placement is configured.
	DefaultPlacement = PlacementSequential
)

// Operation names reported to hooks and metrics.
const (
	OperationEncode     = "encode"
	OperationDecode     = "decode"
	OperationScramble   = "scramble"
	OperationUnscramble = "unscramble"
)
