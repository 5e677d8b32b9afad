package crypto

import (
	"fmt"
)

// KeyDerivationFunction derives a KeySize key from a password and salt.
type KeyDerivationFunction interface {
	DeriveKey(password, salt []byte) ([]byte, error)
	Name() string
}

// SymmetricCipher provides authenticated encryption with an explicit nonce.
// Seal returns ciphertext || tag; Open fails closed.
type SymmetricCipher interface {
	Seal(key, nonce, plaintext []byte) ([]byte, error)
	Open(key, nonce, ciphertext []byte) ([]byte, error)
	Name() string
}

// RandomGenerator produces salts and nonces.
type RandomGenerator interface {
	Generate(n int) ([]byte, error)
}

// Provider bundles the primitives used to build and open encrypted blobs.
// It is passed explicitly to the codec; there is no package-level provider.
type Provider struct {
	KDF    KeyDerivationFunction
	Cipher SymmetricCipher
	Random RandomGenerator
}

// NewProvider returns PBKDF2-SHA256 + AES-256-GCM + crypto/rand.
func NewProvider(iterations int) *Provider {
	return &Provider{
		KDF:    NewPBKDF2(iterations),
		Cipher: NewAESGCM(),
		Random: NewSecureRandom(),
	}
}

// Validate reports a missing primitive.
func (p *Provider) Validate() error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: provider is nil", ErrPrimitiveUnavailable)
	case p.KDF == nil:
		return fmt.Errorf("%w: key derivation function is nil", ErrPrimitiveUnavailable)
	case p.Cipher == nil:
		return fmt.Errorf("%w: cipher is nil", ErrPrimitiveUnavailable)
	case p.Random == nil:
		return fmt.Errorf("%w: random generator is nil", ErrPrimitiveUnavailable)
	}
	return nil
}

// SealBlob encrypts plaintext under a key derived from password and a fresh
// salt, and returns salt || nonce || ciphertext || tag.
func (p *Provider) SealBlob(password string, plaintext []byte) ([]byte, error) {
	salt, err := p.Random.Generate(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce, err := p.Random.Generate(NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	key, err := p.deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(key)

	ciphertext, err := p.Cipher.Seal(key, nonce, plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt payload: %w", err)
	}

	blob := make([]byte, 0, SaltSize+NonceSize+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// OpenBlob splits blob into salt, nonce and ciphertext || tag, derives the
// key from password and the stored salt, and decrypts.
func (p *Provider) OpenBlob(password string, blob []byte) ([]byte, error) {
	if len(blob) < Overhead {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrBlobTooShort, len(blob), Overhead)
	}
	salt := blob[:SaltSize]
	nonce := blob[SaltSize : SaltSize+NonceSize]
	ciphertext := blob[SaltSize+NonceSize:]

	key, err := p.deriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(key)

	return p.Cipher.Open(key, nonce, ciphertext)
}

func (p *Provider) deriveKey(password string, salt []byte) ([]byte, error) {
	secret := []byte(password)
	defer ZeroBytes(secret)

	key, err := p.KDF.DeriveKey(secret, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
