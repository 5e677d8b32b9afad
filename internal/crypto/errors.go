package crypto

import "errors"

var (
	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrInvalidSaltSize is returned when the salt size is invalid.
	ErrInvalidSaltSize = errors.New("invalid salt size")

	// ErrAuthentication is returned when the GCM tag does not verify. A wrong
	// password and tampered ciphertext are indistinguishable here.
	ErrAuthentication = errors.New("message authentication failed")

	// ErrBlobTooShort is returned when a blob cannot hold salt, nonce and tag.
	ErrBlobTooShort = errors.New("encrypted blob too short")

	// ErrPrimitiveUnavailable is returned when a cryptographic primitive or the
	// random source fails. It is fatal and not worth retrying.
	ErrPrimitiveUnavailable = errors.New("cryptographic primitive unavailable")
)
