// Package channel maps payload bits onto the least-significant bits of the
// colour bytes of an RGBA buffer. Alpha bytes are never touched.
package channel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hengadev/stegx/internal/prng"
)

// BytesPerPixel is the RGBA stride.
const BytesPerPixel = 4

var (
	// ErrCapacityExceeded is returned when the bits do not fit the buffer.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrInvalidBuffer is returned for buffers that are not whole RGBA pixels.
	ErrInvalidBuffer = errors.New("invalid pixel buffer")
	// ErrUnknownPlacement is returned when a placement name is not recognised.
	ErrUnknownPlacement = errors.New("unknown placement")
)

// Placement selects the order in which byte slots are visited.
type Placement int

const (
	// Sequential visits bytes in raster order.
	Sequential Placement = iota
	// Permuted visits bytes in a password-seeded Fisher-Yates order.
	Permuted
)

func (p Placement) String() string {
	switch p {
	case Sequential:
		return "sequential"
	case Permuted:
		return "permuted"
	default:
		return fmt.Sprintf("placement(%d)", int(p))
	}
}

// ParsePlacement parses "sequential" or "permuted" (case-insensitive).
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequential", "":
		return Sequential, nil
	case "permuted":
		return Permuted, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlacement, s)
	}
}

// Capacity returns the number of embeddable bit slots in a buffer of n bytes.
func Capacity(n int) int {
	return n / BytesPerPixel * 3
}

// isAlpha reports whether byte index idx holds an alpha channel value.
func isAlpha(idx int) bool {
	return idx%BytesPerPixel == BytesPerPixel-1
}

// Permutation returns a Fisher-Yates shuffle of [0, n), walking i from n-1
// down to 1 and drawing j = floor(rng.Next() * (i+1)).
func Permutation(n int, rng *prng.Mulberry32) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Channel walks the byte slots of one pixel buffer. It is not safe for
// concurrent use and mutates the buffer it was given on Embed.
type Channel struct {
	pix   []byte
	order []int // nil for Sequential
	pos   int
}

// New creates a channel over pix. For Permuted the order is generated from
// the full buffer length, regardless of how many bits are later consumed.
func New(pix []byte, placement Placement, password string) (*Channel, error) {
	if len(pix) == 0 || len(pix)%BytesPerPixel != 0 {
		return nil, fmt.Errorf("%w: length %d is not a positive multiple of %d", ErrInvalidBuffer, len(pix), BytesPerPixel)
	}

	c := &Channel{pix: pix}
	switch placement {
	case Sequential:
	case Permuted:
		c.order = Permutation(len(pix), prng.NewFromPassword(password))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlacement, int(placement))
	}
	return c, nil
}

// Capacity returns the number of bit slots in the underlying buffer.
func (c *Channel) Capacity() int {
	return Capacity(len(c.pix))
}

// next returns the next non-alpha byte index, or false when the walk is done.
// Alpha positions are consumed without carrying a bit.
func (c *Channel) next() (int, bool) {
	for c.pos < len(c.pix) {
		idx := c.pos
		if c.order != nil {
			idx = c.order[c.pos]
		}
		c.pos++
		if !isAlpha(idx) {
			return idx, true
		}
	}
	return 0, false
}

// Embed writes bits into successive slots. It refuses, without writing
// anything, when bits exceed the buffer capacity.
func (c *Channel) Embed(bits []byte) error {
	if len(bits) > c.Capacity() {
		return fmt.Errorf("%w: need %d bits, have %d", ErrCapacityExceeded, len(bits), c.Capacity())
	}
	for _, bit := range bits {
		idx, ok := c.next()
		if !ok {
			return fmt.Errorf("%w: walk ended early", ErrCapacityExceeded)
		}
		c.pix[idx] = c.pix[idx]&0xFE | bit&1
	}
	return nil
}

// ReadBits reads up to n bits from successive slots. It returns fewer than n
// bits only when the buffer is exhausted.
func (c *Channel) ReadBits(n int) []byte {
	bits := make([]byte, 0, n)
	for len(bits) < n {
		idx, ok := c.next()
		if !ok {
			break
		}
		bits = append(bits, c.pix[idx]&1)
	}
	return bits
}
