// Package frame builds and parses the bit frame stored in pixel LSBs:
//
//	"$STEG" (5 bytes) || length (uint16, big-endian) || blob (length bytes)
//
// Bits are emitted MSB-first within each byte.
package frame

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Magic marks the start of an embedded frame.
const Magic = "$STEG"

const (
	// MagicBits is the bit length of the magic marker.
	MagicBits = len(Magic) * 8
	// LengthBits is the bit length of the length field.
	LengthBits = 16
	// HeaderBits is the bit length of magic plus length.
	HeaderBits = MagicBits + LengthBits
	// MaxBlobSize is the largest blob the length field can describe.
	MaxBlobSize = math.MaxUint16
)

var (
	// ErrBadHeader is returned when the magic marker does not match.
	ErrBadHeader = errors.New("bad frame header")
	// ErrTruncated is returned when fewer bits remain than the length declares.
	ErrTruncated = errors.New("truncated frame")
	// ErrBlobTooLarge is returned when a blob does not fit the 16-bit length field.
	ErrBlobTooLarge = errors.New("blob exceeds frame length field")
)

// BitLen returns the total number of frame bits for a blob of blobLen bytes.
func BitLen(blobLen int) int {
	return HeaderBits + 8*blobLen
}

// Build returns the frame for blob as a bit sequence, one bit (0 or 1) per
// element.
func Build(blob []byte) ([]byte, error) {
	if len(blob) > MaxBlobSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrBlobTooLarge, len(blob), MaxBlobSize)
	}

	raw := make([]byte, 0, len(Magic)+2+len(blob))
	raw = append(raw, Magic...)
	raw = binary.BigEndian.AppendUint16(raw, uint16(len(blob)))
	raw = append(raw, blob...)
	return ToBits(raw), nil
}

// ParseHeader validates the magic marker in the first HeaderBits bits and
// returns the declared blob length.
func ParseHeader(bits []byte) (int, error) {
	if len(bits) < HeaderBits {
		return 0, fmt.Errorf("%w: header needs %d bits, got %d", ErrTruncated, HeaderBits, len(bits))
	}
	if string(FromBits(bits[:MagicBits])) != Magic {
		return 0, ErrBadHeader
	}
	length := binary.BigEndian.Uint16(FromBits(bits[MagicBits:HeaderBits]))
	return int(length), nil
}

// Parse returns the blob carried by bits. Bits past the declared length are
// ignored.
func Parse(bits []byte) ([]byte, error) {
	length, err := ParseHeader(bits)
	if err != nil {
		return nil, err
	}
	need := BitLen(length)
	if len(bits) < need {
		return nil, fmt.Errorf("%w: length %d needs %d bits, got %d", ErrTruncated, length, need, len(bits))
	}
	return FromBits(bits[HeaderBits:need]), nil
}

// ToBits expands data into bits, MSB-first.
func ToBits(data []byte) []byte {
	bits := make([]byte, 0, len(data)*8)
	for _, b := range data {
		for shift := 7; shift >= 0; shift-- {
			bits = append(bits, (b>>uint(shift))&1)
		}
	}
	return bits
}

// FromBits packs bits MSB-first. A trailing partial byte is dropped.
func FromBits(bits []byte) []byte {
	out := make([]byte, len(bits)/8)
	for i := range out {
		var b byte
		for _, bit := range bits[i*8 : i*8+8] {
			b = b<<1 | bit&1
		}
		out[i] = b
	}
	return out
}
