// Package scramble spatially permutes fixed-size pixel blocks with the
// password-seeded generator. It is a visual obfuscation layer only and is
// independent of the bit channel.
package scramble

import (
	"errors"
	"fmt"

	"github.com/hengadev/stegx/internal/prng"
)

// BlockSize is the edge length, in pixels, of a scramble block.
const BlockSize = 10

const bytesPerPixel = 4

// ErrInvalidDimensions is returned when the buffer does not match width*height*4.
var ErrInvalidDimensions = errors.New("invalid image dimensions")

// Swap exchanges the pixels starting at byte offsets A and B.
type Swap struct {
	A, B int
}

// Swaps generates the swap list for a width x height image. For each block in
// raster order two draws pick a destination origin; every in-bounds pixel of
// the block is paired with the pixel at the same offset from that origin,
// wrapping around the image edges. Partial blocks on the right and bottom
// edges only contribute their in-bounds pixels.
func Swaps(width, height int, seed int32) []Swap {
	rng := prng.New(seed)
	swaps := make([]Swap, 0, width*height)

	for y := 0; y < height; y += BlockSize {
		for x := 0; x < width; x += BlockSize {
			dx := rng.Intn(width)
			dy := rng.Intn(height)

			for by := 0; by < BlockSize; by++ {
				sy := y + by
				if sy >= height {
					break
				}
				ty := (dy + by) % height
				for bx := 0; bx < BlockSize; bx++ {
					sx := x + bx
					if sx >= width {
						break
					}
					tx := (dx + bx) % width
					swaps = append(swaps, Swap{
						A: (sy*width + sx) * bytesPerPixel,
						B: (ty*width + tx) * bytesPerPixel,
					})
				}
			}
		}
	}
	return swaps
}

func validate(pix []byte, width, height int) error {
	if width <= 0 || height <= 0 || len(pix) != width*height*bytesPerPixel {
		return fmt.Errorf("%w: %dx%d with %d bytes", ErrInvalidDimensions, width, height, len(pix))
	}
	return nil
}

func swapPixel(pix []byte, s Swap) {
	for i := 0; i < bytesPerPixel; i++ {
		pix[s.A+i], pix[s.B+i] = pix[s.B+i], pix[s.A+i]
	}
}

// Scramble returns a scrambled copy of pix. Swaps are applied in generation
// order.
func Scramble(pix []byte, width, height int, seed int32) ([]byte, error) {
	if err := validate(pix, width, height); err != nil {
		return nil, err
	}
	out := append([]byte(nil), pix...)
	for _, s := range Swaps(width, height, seed) {
		swapPixel(out, s)
	}
	return out, nil
}

// Unscramble returns the inverse of Scramble for the same seed by replaying
// the identical swap list last-in first-out.
func Unscramble(pix []byte, width, height int, seed int32) ([]byte, error) {
	if err := validate(pix, width, height); err != nil {
		return nil, err
	}
	out := append([]byte(nil), pix...)
	swaps := Swaps(width, height, seed)
	for i := len(swaps) - 1; i >= 0; i-- {
		swapPixel(out, swaps[i])
	}
	return out, nil
}
