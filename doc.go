// Package stegx hides a password-encrypted text message in the least
// significant bits of a raw RGBA pixel buffer and recovers it later.
//
// Encoding encrypts the message with AES-256-GCM under a key derived from the
// password with PBKDF2-SHA256, wraps the result in a frame
//
//	"$STEG" || uint16 big-endian length || salt(16) || nonce(12) || ciphertext || tag(16)
//
// and writes the frame bit by bit, MSB-first, into the low bit of every
// red, green and blue byte. Alpha bytes are never modified.
//
// # Placement
//
// Two placement strategies are available:
//
//   - PlacementSequential writes bits in raster order.
//   - PlacementPermuted visits byte offsets in a Fisher-Yates order seeded
//     from the password with mulberry32.
//
// Independently, WithScramble(true) swaps 10x10 pixel blocks after
// embedding and swaps them back before extraction. The permutation seed is a
// plain sum of the password's code points: it spreads the payload around and
// is not a security boundary. Confidentiality comes from the AES key alone.
//
// # Quick Start
//
//	codec, err := stegx.NewCodec(stegx.WithPlacement(stegx.PlacementPermuted))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := codec.Encode(ctx, img, "meet at dawn", password)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	msg, err := codec.Decode(ctx, out, password)
//	if stegx.IsDecodeError(err) {
//	    // wrong password, not a stego image, or a damaged image
//	}
//
// # Errors
//
// Decode failures are *DecodeError values. They all match ErrDecodeFailed so
// callers can treat them as one outcome, and also match the specific kind
// (ErrBadHeader, ErrTruncated, ErrAuthFailure, ErrInvalidMessage) for
// diagnostics. A wrong password almost always surfaces as ErrAuthFailure.
//
// # Testing
//
// NewTestCodec returns a codec with a deterministic random source and a low
// KDF iteration count so tests run fast and produce stable output.
package stegx
