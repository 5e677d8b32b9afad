package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 derives AES-256 keys from passwords with PBKDF2-HMAC-SHA256.
type PBKDF2 struct {
	Iterations int
}

// NewPBKDF2 creates a KDF with the given iteration count. Zero selects
// DefaultIterations.
func NewPBKDF2(iterations int) *PBKDF2 {
	if iterations == 0 {
		iterations = DefaultIterations
	}
	return &PBKDF2{Iterations: iterations}
}

// DeriveKey returns a KeySize key for password and salt. The result is
// deterministic for identical inputs.
func (p *PBKDF2) DeriveKey(password, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSaltSize, len(salt), SaltSize)
	}
	if p.Iterations < 1 {
		return nil, fmt.Errorf("%w: iteration count %d", ErrPrimitiveUnavailable, p.Iterations)
	}
	return pbkdf2.Key(password, salt, p.Iterations, KeySize, sha256.New), nil
}

func (p *PBKDF2) Name() string {
	return fmt.Sprintf("PBKDF2-SHA256(i=%d)", p.Iterations)
}
