package channel

import (
	"math/rand"
	"testing"

	"github.com/hengadev/stegx/internal/prng"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPixels(t *testing.T, n int, seed int64) []byte {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	pix := make([]byte, n)
	r.Read(pix)
	return pix
}

func randomBits(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	bits := make([]byte, n)
	for i := range bits {
		bits[i] = byte(r.Intn(2))
	}
	return bits
}

func TestParsePlacement(t *testing.T) {
	tests := []struct {
		in      string
		want    Placement
		wantErr bool
	}{
		{"sequential", Sequential, false},
		{"Permuted", Permuted, false},
		{"", Sequential, false},
		{"random", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlacement(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPlacement)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "permuted", Permuted.String())
}

// Reference order produced by the canonical JavaScript mulberry32 shuffle.
func TestPermutation_Reference(t *testing.T) {
	assert.Equal(t, []int{2, 1, 4, 3, 7, 5, 0, 6}, Permutation(8, prng.NewFromPassword("abc")))
	assert.Equal(t, []int{1, 11, 4, 9, 10, 6, 8, 5, 0, 3, 7, 2}, Permutation(12, prng.NewFromPassword("secret")))
}

func TestPermutation_IsBijection(t *testing.T) {
	for _, n := range []int{1, 2, 4, 400, 1600, 4096} {
		order := Permutation(n, prng.NewFromPassword("bijection"))
		seen := make([]bool, n)
		for _, idx := range order {
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, n)
			require.False(t, seen[idx], "index %d repeated", idx)
			seen[idx] = true
		}
	}
}

func TestPermutation_Deterministic(t *testing.T) {
	a := Permutation(1600, prng.NewFromPassword("pw"))
	b := Permutation(1600, prng.NewFromPassword("pw"))
	c := Permutation(1600, prng.NewFromPassword("px"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestNew_InvalidBuffer(t *testing.T) {
	_, err := New(nil, Sequential, "")
	assert.ErrorIs(t, err, ErrInvalidBuffer)

	_, err = New(make([]byte, 7), Sequential, "")
	assert.ErrorIs(t, err, ErrInvalidBuffer)

	_, err = New(make([]byte, 8), Placement(9), "")
	assert.ErrorIs(t, err, ErrUnknownPlacement)
}

func TestEmbed_SequentialLayout(t *testing.T) {
	pix := make([]byte, 16)
	for i := range pix {
		pix[i] = 0xF0
	}
	c, err := New(pix, Sequential, "")
	require.NoError(t, err)

	require.NoError(t, c.Embed([]byte{1, 0, 1, 1}))
	assert.Equal(t, []byte{
		0xF1, 0xF0, 0xF1, 0xF0, // alpha untouched
		0xF1, 0xF0, 0xF0, 0xF0, // trailing untouched
		0xF0, 0xF0, 0xF0, 0xF0,
		0xF0, 0xF0, 0xF0, 0xF0,
	}, pix)
}

func TestEmbedExtract_RoundTrip(t *testing.T) {
	for _, placement := range []Placement{Sequential, Permuted} {
		t.Run(placement.String(), func(t *testing.T) {
			pix := randomPixels(t, 20*20*4, 1)
			bits := randomBits(Capacity(len(pix)), 2)

			enc, err := New(pix, placement, "abc")
			require.NoError(t, err)
			require.NoError(t, enc.Embed(bits))

			dec, err := New(pix, placement, "abc")
			require.NoError(t, err)
			assert.Equal(t, bits[:56], dec.ReadBits(56))
			assert.Equal(t, bits[56:], dec.ReadBits(len(bits)-56))
			assert.Empty(t, dec.ReadBits(1))
		})
	}
}

func TestEmbed_NeverTouchesAlpha(t *testing.T) {
	for _, placement := range []Placement{Sequential, Permuted} {
		t.Run(placement.String(), func(t *testing.T) {
			pix := randomPixels(t, 10*10*4, 3)
			orig := append([]byte(nil), pix...)

			c, err := New(pix, placement, "alpha")
			require.NoError(t, err)
			require.NoError(t, c.Embed(randomBits(c.Capacity(), 4)))

			for i := range pix {
				if i%4 == 3 {
					require.Equal(t, orig[i], pix[i], "alpha byte %d changed", i)
				} else {
					require.Equal(t, orig[i]&0xFE, pix[i]&0xFE, "high bits of byte %d changed", i)
				}
			}
		})
	}
}

func TestEmbed_CapacityBoundary(t *testing.T) {
	pix := make([]byte, 20*20*4)
	c, err := New(pix, Permuted, "abc")
	require.NoError(t, err)
	require.Equal(t, 1200, c.Capacity())

	over, err := New(append([]byte(nil), pix...), Permuted, "abc")
	require.NoError(t, err)
	err = over.Embed(make([]byte, 1201))
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	assert.NoError(t, c.Embed(randomBits(1200, 5)))
}

func TestEmbed_OverCapacityWritesNothing(t *testing.T) {
	pix := randomPixels(t, 8, 6)
	orig := append([]byte(nil), pix...)
	c, err := New(pix, Sequential, "")
	require.NoError(t, err)

	assert.ErrorIs(t, c.Embed(randomBits(7, 7)), ErrCapacityExceeded)
	assert.Equal(t, orig, pix)
}

func TestReadBits_WrongPasswordDiffers(t *testing.T) {
	pix := randomPixels(t, 16*16*4, 8)
	bits := randomBits(512, 9)
	c, err := New(pix, Permuted, "right")
	require.NoError(t, err)
	require.NoError(t, c.Embed(bits))

	other, err := New(pix, Permuted, "wrong")
	require.NoError(t, err)
	assert.NotEqual(t, bits, other.ReadBits(len(bits)))
}
