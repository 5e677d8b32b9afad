package crypto

const (
	// KeySize is the size of an AES-256 key in bytes.
	KeySize = 32
	// SaltSize is the size of the PBKDF2 salt stored at the front of a blob.
	SaltSize = 16
	// NonceSize is the size of an AES-GCM nonce in bytes.
	NonceSize = 12
	// TagSize is the size of an AES-GCM authentication tag in bytes.
	TagSize = 16

	// Overhead is the number of blob bytes added on top of the plaintext.
	Overhead = SaltSize + NonceSize + TagSize

	// DefaultIterations is the PBKDF2 iteration count used by encoded images.
	DefaultIterations = 100000
	// MinIterations is the lowest iteration count accepted by configuration.
	MinIterations = 1000
)
