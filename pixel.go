package stegx

import "fmt"

// BytesPerPixel is the stride of a PixelBuffer: R, G, B, A.
const BytesPerPixel = 4

// PixelBuffer is a raw RGBA image: Width*Height pixels in raster order, four
// bytes per pixel. The codec never retains a PixelBuffer or its Pix slice.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewPixelBuffer allocates a zeroed buffer of the given dimensions.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidImage, width, height)
	}
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}, nil
}

// Validate checks dimensions against the length of Pix.
func (p *PixelBuffer) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: buffer is nil", ErrInvalidImage)
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrInvalidImage, p.Width, p.Height)
	}
	if want := p.Width * p.Height * BytesPerPixel; len(p.Pix) != want {
		return fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrInvalidImage, p.Width, p.Height, want, len(p.Pix))
	}
	return nil
}

// Clone returns a deep copy.
func (p *PixelBuffer) Clone() *PixelBuffer {
	return &PixelBuffer{
		Width:  p.Width,
		Height: p.Height,
		Pix:    append([]byte(nil), p.Pix...),
	}
}

// Capacity returns the number of embeddable bit slots: three per pixel.
func (p *PixelBuffer) Capacity() int {
	return p.Width * p.Height * 3
}
