package stegx

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/hengadev/stegx/internal/channel"
	"github.com/hengadev/stegx/internal/crypto"
	"github.com/hengadev/stegx/internal/frame"
	"github.com/hengadev/stegx/internal/prng"
	"github.com/hengadev/stegx/internal/scramble"
)

// Codec embeds and recovers encrypted messages in pixel buffers.
//
// A Codec holds no per-call state and is safe for concurrent use, provided
// callers do not share a PixelBuffer between concurrent calls.
type Codec struct {
	placement Placement
	scramble  bool
	crypto    *CryptoProvider

	logger            *slog.Logger
	metricsCollector  MetricsCollector
	observabilityHook ObservabilityHook
}

// NewCodec creates a Codec from functional options. With no options it uses
// sequential placement, no scrambling and PBKDF2 with DefaultKDFIterations.
func NewCodec(opts ...Option) (*Codec, error) {
	var cfg Config
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return NewCodecFromConfig(cfg)
}

// NewCodecFromConfig creates a Codec from an explicit Config.
func NewCodecFromConfig(cfg Config) (*Codec, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return &Codec{
		placement:         cfg.Placement,
		scramble:          cfg.Scramble,
		crypto:            cfg.Crypto,
		logger:            cfg.Logger.With("component", "codec"),
		metricsCollector:  cfg.MetricsCollector,
		observabilityHook: cfg.ObservabilityHook,
	}, nil
}

// Placement returns the configured placement strategy.
func (c *Codec) Placement() Placement {
	return c.placement
}

// ScrambleEnabled reports whether block scrambling is applied.
func (c *Codec) ScrambleEnabled() bool {
	return c.scramble
}

// Capacity returns the number of bit slots in a width x height image.
func (c *Codec) Capacity(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return channel.Capacity(width * height * BytesPerPixel)
}

// MaxMessageBytes returns the largest UTF-8 message, in bytes, that Encode
// can fit in a width x height image.
func (c *Codec) MaxMessageBytes(width, height int) int {
	blob := (c.Capacity(width, height) - frame.HeaderBits) / 8
	if blob > frame.MaxBlobSize {
		blob = frame.MaxBlobSize
	}
	if n := blob - crypto.Overhead; n > 0 {
		return n
	}
	return 0
}

func (c *Codec) metadata(img *PixelBuffer) map[string]any {
	md := map[string]any{
		"operation_id": uuid.NewString(),
		"placement":    c.placement.String(),
		"scramble":     c.scramble,
	}
	if img != nil {
		md["width"] = img.Width
		md["height"] = img.Height
	}
	return md
}

func (c *Codec) finish(ctx context.Context, op string, start time.Time, metadata map[string]any, err error) {
	tags := map[string]string{"operation": op, "placement": c.placement.String()}
	if err != nil {
		kind := errorKind(err)
		c.observabilityHook.OnError(ctx, op, kind, err, metadata)
		c.logger.DebugContext(ctx, "operation failed", "operation", op, "operation_id", metadata["operation_id"], "kind", kind)
		tags["result"] = "failure"
	} else {
		tags["result"] = "success"
	}
	c.metricsCollector.IncrementCounter("stegx."+op, tags)
	c.metricsCollector.RecordTiming("stegx."+op+".duration", time.Since(start), tags)
	c.observabilityHook.OnProcessComplete(ctx, op, time.Since(start), err, metadata)
}

// Encode returns a copy of img carrying message encrypted under password.
// img is not modified.
//
// Errors: ErrInvalidImage, ErrInvalidMessage, ErrPayloadTooLarge,
// ErrCapacityExceeded, ErrCryptoUnavailable, or ctx.Err().
func (c *Codec) Encode(ctx context.Context, img *PixelBuffer, message, password string) (out *PixelBuffer, err error) {
	start := time.Now()
	metadata := c.metadata(img)
	c.observabilityHook.OnProcessStart(ctx, OperationEncode, metadata)
	defer func() {
		c.finish(ctx, OperationEncode, start, metadata, err)
	}()

	if err := img.Validate(); err != nil {
		return nil, err
	}
	if !utf8.ValidString(message) {
		return nil, ErrInvalidMessage
	}

	blobLen := len(message) + crypto.Overhead
	if blobLen > frame.MaxBlobSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, blobLen)
	}
	required, available := frame.BitLen(blobLen), img.Capacity()
	c.observabilityHook.OnCapacity(ctx, OperationEncode, required, available, metadata)
	if required > available {
		return nil, fmt.Errorf("%w: need %d bits, image has %d", ErrCapacityExceeded, required, available)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blob, err := c.crypto.SealBlob(password, []byte(message))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCryptoUnavailable, err)
	}

	bits, err := frame.Build(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayloadTooLarge, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out = img.Clone()
	ch, err := channel.New(out.Pix, c.placement, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if err := ch.Embed(bits); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCapacityExceeded, err)
	}

	if c.scramble {
		out.Pix, err = scramble.Scramble(out.Pix, out.Width, out.Height, prng.SeedFromPassword(password))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
		}
	}

	c.metricsCollector.RecordValue(MetricEncodeBits, float64(len(bits)), nil)
	c.metricsCollector.RecordValue(MetricEncodeBytes, float64(len(message)), nil)
	c.metricsCollector.SetGauge(MetricCapacityBits, float64(available), nil)
	c.logger.DebugContext(ctx, "message embedded",
		"operation_id", metadata["operation_id"],
		"frame_bits", len(bits),
		"capacity_bits", available,
	)
	return out, nil
}

// Decode recovers the message embedded in img with password. img is not
// modified.
//
// Every failure caused by the image or password is a *DecodeError matching
// ErrDecodeFailed. ctx.Err() is returned unwrapped.
func (c *Codec) Decode(ctx context.Context, img *PixelBuffer, password string) (message string, err error) {
	start := time.Now()
	metadata := c.metadata(img)
	c.observabilityHook.OnProcessStart(ctx, OperationDecode, metadata)
	defer func() {
		c.finish(ctx, OperationDecode, start, metadata, err)
	}()

	if err := img.Validate(); err != nil {
		return "", newDecodeError(ErrInvalidImage, err)
	}

	pix := img.Pix
	if c.scramble {
		pix, err = scramble.Unscramble(pix, img.Width, img.Height, prng.SeedFromPassword(password))
		if err != nil {
			return "", newDecodeError(ErrInvalidImage, err)
		}
	}

	ch, err := channel.New(pix, c.placement, password)
	if err != nil {
		return "", classifyDecode(err)
	}

	header := ch.ReadBits(frame.HeaderBits)
	length, err := frame.ParseHeader(header)
	if err != nil {
		return "", classifyDecode(err)
	}
	c.observabilityHook.OnCapacity(ctx, OperationDecode, frame.BitLen(length), ch.Capacity(), metadata)

	blob, err := frame.Parse(append(header, ch.ReadBits(8*length)...))
	if err != nil {
		return "", classifyDecode(err)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	plaintext, err := c.crypto.OpenBlob(password, blob)
	if err != nil {
		return "", classifyDecode(err)
	}
	if !utf8.Valid(plaintext) {
		return "", newDecodeError(ErrInvalidMessage, nil)
	}

	c.metricsCollector.RecordValue(MetricDecodeBytes, float64(len(plaintext)), nil)
	return string(plaintext), nil
}

// EncodeWithSource resolves the password from source, then calls Encode.
func (c *Codec) EncodeWithSource(ctx context.Context, img *PixelBuffer, message string, source PasswordSource) (*PixelBuffer, error) {
	password, err := ResolvePassword(ctx, source)
	if err != nil {
		return nil, err
	}
	return c.Encode(ctx, img, message, password)
}

// DecodeWithSource resolves the password from source, then calls Decode.
func (c *Codec) DecodeWithSource(ctx context.Context, img *PixelBuffer, source PasswordSource) (string, error) {
	password, err := ResolvePassword(ctx, source)
	if err != nil {
		return "", err
	}
	return c.Decode(ctx, img, password)
}

// Scramble returns a copy of img with its 10x10 blocks swapped using a seed
// derived from password. It does not embed anything.
func (c *Codec) Scramble(ctx context.Context, img *PixelBuffer, password string) (*PixelBuffer, error) {
	return c.applyScramble(ctx, OperationScramble, img, password, scramble.Scramble)
}

// Unscramble is the exact inverse of Scramble for the same password.
func (c *Codec) Unscramble(ctx context.Context, img *PixelBuffer, password string) (*PixelBuffer, error) {
	return c.applyScramble(ctx, OperationUnscramble, img, password, scramble.Unscramble)
}

func (c *Codec) applyScramble(
	ctx context.Context,
	op string,
	img *PixelBuffer,
	password string,
	fn func(pix []byte, width, height int, seed int32) ([]byte, error),
) (out *PixelBuffer, err error) {
	start := time.Now()
	metadata := c.metadata(img)
	c.observabilityHook.OnProcessStart(ctx, op, metadata)
	defer func() {
		c.finish(ctx, op, start, metadata, err)
	}()

	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pix, err := fn(img.Pix, img.Width, img.Height, prng.SeedFromPassword(password))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	return &PixelBuffer{Width: img.Width, Height: img.Height, Pix: pix}, nil
}
