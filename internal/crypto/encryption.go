package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// AESGCM handles authenticated encryption with AES-256-GCM. The nonce is
// supplied by the caller so tests can pin it; production callers draw it
// fresh from a RandomGenerator for every Seal.
type AESGCM struct{}

// NewAESGCM creates a new AESGCM instance
func NewAESGCM() *AESGCM {
	return &AESGCM{}
}

func (a *AESGCM) newGCM(key, nonce []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), KeySize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), NonceSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create AES cipher: %w", ErrPrimitiveUnavailable, err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create GCM: %w", ErrPrimitiveUnavailable, err)
	}
	return aesGCM, nil
}

// Seal encrypts plaintext and returns ciphertext || tag.
func (a *AESGCM) Seal(key, nonce, plaintext []byte) ([]byte, error) {
	aesGCM, err := a.newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	return aesGCM.Seal(nil, nonce, plaintext, nil), nil
}

// Open verifies the tag and decrypts ciphertext || tag. Nothing is returned
// unless the tag verifies.
func (a *AESGCM) Open(key, nonce, ciphertext []byte) ([]byte, error) {
	aesGCM, err := a.newGCM(key, nonce)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("%w: ciphertext shorter than tag", ErrAuthentication)
	}
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

func (a *AESGCM) Name() string {
	return "AES-256-GCM"
}
