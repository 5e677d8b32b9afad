package stegx

import (
	"context"
	"fmt"

	"github.com/hengadev/stegx/internal/channel"
	"github.com/hengadev/stegx/internal/crypto"
)

// Placement selects where frame bits go inside the pixel buffer.
type Placement = channel.Placement

const (
	PlacementSequential = channel.Sequential
	PlacementPermuted   = channel.Permuted
)

// ParsePlacement parses "sequential" or "permuted". The empty string yields
// the default placement.
func ParsePlacement(s string) (Placement, error) {
	p, err := channel.ParsePlacement(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return p, nil
}

// Cryptographic capabilities. They are passed to the codec explicitly with
// WithCryptoProvider so tests can pin salts and nonces.
type (
	KeyDerivationFunction = crypto.KeyDerivationFunction
	SymmetricCipher       = crypto.SymmetricCipher
	RandomGenerator       = crypto.RandomGenerator
	CryptoProvider        = crypto.Provider
)

// NewCryptoProvider returns PBKDF2-SHA256 with the given iteration count,
// AES-256-GCM and crypto/rand.
func NewCryptoProvider(iterations int) *CryptoProvider {
	return crypto.NewProvider(iterations)
}

// PasswordSource resolves the password used for an encode or decode.
//
// Implementations:
//   - StaticPasswordSource: a literal value
//   - EnvPasswordSource: an environment variable
//   - github.com/hengadev/stegx/providers/secrets/hashicorp.KVPasswordSource: Vault KV v2
type PasswordSource interface {
	// GetPassword returns the password. It must not return an empty string
	// with a nil error.
	GetPassword(ctx context.Context) (string, error)
}
