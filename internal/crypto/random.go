package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
)

// SecureRandom reads salts and nonces from an io.Reader, crypto/rand by
// default.
type SecureRandom struct {
	reader io.Reader
	mutex  sync.Mutex
}

// NewSecureRandom creates a generator backed by crypto/rand.
func NewSecureRandom() *SecureRandom {
	return &SecureRandom{reader: rand.Reader}
}

// NewReaderRandom creates a generator backed by r. Use it to pin salts and
// nonces in tests.
func NewReaderRandom(r io.Reader) *SecureRandom {
	return &SecureRandom{reader: r}
}

// Generate returns n random bytes.
func (s *SecureRandom) Generate(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid size: %d", n)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	b := make([]byte, n)
	if _, err := io.ReadFull(s.reader, b); err != nil {
		return nil, fmt.Errorf("%w: random generation failed: %w", ErrPrimitiveUnavailable, err)
	}
	return b, nil
}
