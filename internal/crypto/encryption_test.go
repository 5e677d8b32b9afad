package crypto

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequence(start byte, n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// Vector generated with Node's crypto.pbkdf2Sync and aes-256-gcm.
func TestPBKDF2_AESGCM_KnownVector(t *testing.T) {
	salt := sequence(0x00, SaltSize)
	nonce := sequence(0x10, NonceSize)

	key, err := NewPBKDF2(DefaultIterations).DeriveKey([]byte("abc"), salt)
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "546cac7650d6664491158e128fff26c0c45bf263c3c2c2be775293707e6d52a0"), key)

	ciphertext, err := NewAESGCM().Seal(key, nonce, []byte("hi"))
	require.NoError(t, err)
	assert.Equal(t, mustHex(t, "5ce075d38b18e7b158ee6372b9241ce40ef4"), ciphertext)
}

func TestPBKDF2_Deterministic(t *testing.T) {
	kdf := NewPBKDF2(MinIterations)
	salt := sequence(0x42, SaltSize)

	k1, err := kdf.DeriveKey([]byte("password"), salt)
	require.NoError(t, err)
	k2, err := kdf.DeriveKey([]byte("password"), salt)
	require.NoError(t, err)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, KeySize)

	k3, err := kdf.DeriveKey([]byte("password"), sequence(0x43, SaltSize))
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)
}

func TestPBKDF2_InvalidSalt(t *testing.T) {
	_, err := NewPBKDF2(MinIterations).DeriveKey([]byte("pw"), make([]byte, 8))
	assert.ErrorIs(t, err, ErrInvalidSaltSize)
}

func TestNewPBKDF2_DefaultIterations(t *testing.T) {
	assert.Equal(t, DefaultIterations, NewPBKDF2(0).Iterations)
	assert.Equal(t, 5000, NewPBKDF2(5000).Iterations)
}

func TestAESGCM_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", []byte{}},
		{"simple", []byte("hello world")},
		{"binary", []byte{0x00, 0xff, 0x7f, 0x80}},
		{"large", make([]byte, 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := make([]byte, KeySize)
			_, err := rand.Read(key)
			require.NoError(t, err)
			nonce := make([]byte, NonceSize)
			_, err = rand.Read(nonce)
			require.NoError(t, err)

			c := NewAESGCM()
			ciphertext, err := c.Seal(key, nonce, tt.plaintext)
			require.NoError(t, err)
			assert.Len(t, ciphertext, len(tt.plaintext)+TagSize)

			decrypted, err := c.Open(key, nonce, ciphertext)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.plaintext, decrypted))
		})
	}
}

func TestAESGCM_InvalidSizes(t *testing.T) {
	c := NewAESGCM()

	_, err := c.Seal(make([]byte, 16), make([]byte, NonceSize), []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidKeySize)

	_, err = c.Seal(make([]byte, KeySize), make([]byte, 8), []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidNonceSize)

	_, err = c.Open(make([]byte, KeySize), make([]byte, NonceSize), make([]byte, TagSize-1))
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestAESGCM_TamperedCiphertext(t *testing.T) {
	key := sequence(1, KeySize)
	nonce := sequence(2, NonceSize)
	c := NewAESGCM()

	ciphertext, err := c.Seal(key, nonce, []byte("sensitive data"))
	require.NoError(t, err)
	ciphertext[len(ciphertext)/2] ^= 0x01

	plaintext, err := c.Open(key, nonce, ciphertext)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Nil(t, plaintext)
}

func TestSecureRandom_Generate(t *testing.T) {
	r := NewSecureRandom()
	a, err := r.Generate(16)
	require.NoError(t, err)
	b, err := r.Generate(16)
	require.NoError(t, err)
	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)

	_, err = r.Generate(0)
	assert.Error(t, err)
}

func TestSecureRandom_ShortReader(t *testing.T) {
	r := NewReaderRandom(bytes.NewReader([]byte{1, 2, 3}))
	_, err := r.Generate(16)
	assert.ErrorIs(t, err, ErrPrimitiveUnavailable)
}

func TestProvider_SealOpenBlob(t *testing.T) {
	fixed := append(sequence(0x00, SaltSize), sequence(0x10, NonceSize)...)
	p := &Provider{
		KDF:    NewPBKDF2(DefaultIterations),
		Cipher: NewAESGCM(),
		Random: NewReaderRandom(bytes.NewReader(fixed)),
	}
	require.NoError(t, p.Validate())

	blob, err := p.SealBlob("abc", []byte("hi"))
	require.NoError(t, err)
	assert.Len(t, blob, len("hi")+Overhead)
	assert.Equal(t, sequence(0x00, SaltSize), blob[:SaltSize])
	assert.Equal(t, sequence(0x10, NonceSize), blob[SaltSize:SaltSize+NonceSize])
	assert.Equal(t, mustHex(t, "5ce075d38b18e7b158ee6372b9241ce40ef4"), blob[SaltSize+NonceSize:])

	plaintext, err := p.OpenBlob("abc", blob)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(plaintext))

	_, err = p.OpenBlob("abx", blob)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestProvider_FreshSaltAndNonce(t *testing.T) {
	p := NewProvider(MinIterations)
	b1, err := p.SealBlob("pw", []byte("same"))
	require.NoError(t, err)
	b2, err := p.SealBlob("pw", []byte("same"))
	require.NoError(t, err)
	assert.NotEqual(t, b1[:SaltSize], b2[:SaltSize])
	assert.NotEqual(t, b1[SaltSize:SaltSize+NonceSize], b2[SaltSize:SaltSize+NonceSize])
}

func TestProvider_OpenBlobTooShort(t *testing.T) {
	_, err := NewProvider(MinIterations).OpenBlob("pw", make([]byte, Overhead-1))
	assert.ErrorIs(t, err, ErrBlobTooShort)
}

func TestProvider_Validate(t *testing.T) {
	var nilProvider *Provider
	assert.ErrorIs(t, nilProvider.Validate(), ErrPrimitiveUnavailable)
	assert.ErrorIs(t, (&Provider{Cipher: NewAESGCM(), Random: NewSecureRandom()}).Validate(), ErrPrimitiveUnavailable)
	assert.NoError(t, NewProvider(0).Validate())
}

func TestZeroBytes(t *testing.T) {
	data := []byte("derived key material")
	ZeroBytes(data)
	assert.Equal(t, make([]byte, len(data)), data)

	assert.NotPanics(t, func() { ZeroBytes(nil) })
}
