// Package imageio converts between image containers and stegx.PixelBuffer.
// Only lossless formats are written; JPEG is accepted as a cover image but
// never produced, since recompression destroys the low bits.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/hengadev/stegx"
)

// Format names accepted by Encode.
const (
	FormatPNG = "png"
	FormatBMP = "bmp"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// ToPixelBuffer copies img into a non-premultiplied RGBA buffer.
func ToPixelBuffer(img image.Image) *stegx.PixelBuffer {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != bounds.Dx()*stegx.BytesPerPixel || bounds.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return &stegx.PixelBuffer{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pix:    append([]byte(nil), nrgba.Pix...),
	}
}

// FromPixelBuffer wraps a copy of buf as an image.NRGBA.
func FromPixelBuffer(buf *stegx.PixelBuffer) (*image.NRGBA, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return &image.NRGBA{
		Pix:    append([]byte(nil), buf.Pix...),
		Stride: buf.Width * stegx.BytesPerPixel,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}, nil
}

// Decode reads any registered image format and returns its pixels and the
// format name.
func Decode(r io.Reader) (*stegx.PixelBuffer, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return ToPixelBuffer(img), format, nil
}

// Encode writes buf in a lossless format.
func Encode(w io.Writer, buf *stegx.PixelBuffer, format string) error {
	img, err := FromPixelBuffer(buf)
	if err != nil {
		return err
	}
	switch strings.ToLower(format) {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FormatFromPath picks a lossless output format from the file extension.
func FormatFromPath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	default:
		return "", fmt.Errorf("%w: %q (use .png or .bmp)", ErrUnsupportedFormat, ext)
	}
}

// ReadFile decodes the image at path.
func ReadFile(path string) (*stegx.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, _, err := Decode(f)
	return buf, err
}

// WriteFile encodes buf to path, choosing the format from the extension.
func WriteFile(path string, buf *stegx.PixelBuffer) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return Encode(f, buf, format)
}
