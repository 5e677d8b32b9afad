package stegx

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// Package-level sinks keep the compiler from eliding benchmarked calls.
var (
	benchImage   *PixelBuffer
	benchMessage string
	benchErr     error
)

// BenchmarkEncodeDecode measures a full round trip at increasing image
// sizes, excluding key derivation cost.
func BenchmarkEncodeDecode(b *testing.B) {
	ctx := context.Background()
	sizes := []int{64, 256, 512}
	placements := []Placement{PlacementSequential, PlacementPermuted}

	for _, placement := range placements {
		for _, size := range sizes {
			codec := NewTestCodec(b, &TestCodecOptions{Placement: placement})
			img := NewTestImage(b, size, size)
			message := strings.Repeat("x", 256)

			b.Run(fmt.Sprintf("Encode_%s_%dx%d", placement, size, size), func(b *testing.B) {
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					benchImage, benchErr = codec.Encode(ctx, img, message, "bench")
				}
			})

			encoded, err := codec.Encode(ctx, img, message, "bench")
			if err != nil {
				b.Fatalf("Failed to encode: %v", err)
			}
			b.Run(fmt.Sprintf("Decode_%s_%dx%d", placement, size, size), func(b *testing.B) {
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					benchMessage, benchErr = codec.Decode(ctx, encoded, "bench")
				}
			})
		}
	}
}

// BenchmarkScramble measures the block shuffle on its own.
func BenchmarkScramble(b *testing.B) {
	ctx := context.Background()
	codec := NewTestCodec(b)

	for _, size := range []int{100, 500, 1000} {
		img := NewTestImage(b, size, size)
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			b.SetBytes(int64(len(img.Pix)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				benchImage, benchErr = codec.Scramble(ctx, img, "bench")
			}
		})
	}
}

// BenchmarkKeyDerivation measures the default PBKDF2 cost paid per call.
func BenchmarkKeyDerivation(b *testing.B) {
	ctx := context.Background()
	codec := NewTestCodec(b, &TestCodecOptions{Iterations: DefaultKDFIterations})
	img := NewTestImage(b, 32, 32)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchImage, benchErr = codec.Encode(ctx, img, "hi", "bench")
	}
}
