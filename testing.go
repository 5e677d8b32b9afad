package stegx

import (
	"io"
	"sync"
	"testing"

	"github.com/hengadev/stegx/internal/crypto"
	"github.com/hengadev/stegx/internal/monitoring"
)

// TestKDFIterations keeps PBKDF2 fast in tests. Images produced with it
// only decode with a codec using the same count.
const TestKDFIterations = MinKDFIterations

// FixedReader yields 0x00, 0x01, 0x02, ... wrapping at 0xff. Used as the
// random source, the first encode gets salt 00..0f and nonce 10..1b.
type FixedReader struct {
	mu   sync.Mutex
	next byte
}

// NewFixedReader returns a FixedReader starting at start.
func NewFixedReader(start byte) *FixedReader {
	return &FixedReader{next: start}
}

func (r *FixedReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

// TestCodecOptions configures NewTestCodec.
type TestCodecOptions struct {
	Placement  Placement
	Scramble   bool
	Iterations int       // If 0, uses TestKDFIterations
	Random     io.Reader // If nil, uses NewFixedReader(0)
	Metrics    MetricsCollector
	Hook       ObservabilityHook
}

// NewTestCodec creates a Codec with a deterministic random source and a low
// KDF iteration count.
func NewTestCodec(t testing.TB, options ...*TestCodecOptions) *Codec {
	t.Helper()

	opts := &TestCodecOptions{}
	if len(options) > 0 && options[0] != nil {
		opts = options[0]
	}

	iterations := opts.Iterations
	if iterations == 0 {
		iterations = TestKDFIterations
	}
	random := opts.Random
	if random == nil {
		random = NewFixedReader(0)
	}

	provider := &crypto.Provider{
		KDF:    crypto.NewPBKDF2(iterations),
		Cipher: crypto.NewAESGCM(),
		Random: crypto.NewReaderRandom(random),
	}

	cfg := Config{
		Placement:         opts.Placement,
		Scramble:          opts.Scramble,
		KDFIterations:     iterations,
		Crypto:            provider,
		Logger:            monitoring.DiscardLogger(),
		MetricsCollector:  opts.Metrics,
		ObservabilityHook: opts.Hook,
	}

	codec, err := NewCodecFromConfig(cfg)
	if err != nil {
		t.Fatalf("Failed to create test codec: %v", err)
	}
	return codec
}

// NewTestImage returns a width x height buffer filled with a repeating
// pattern and opaque alpha.
func NewTestImage(t testing.TB, width, height int) *PixelBuffer {
	t.Helper()

	img, err := NewPixelBuffer(width, height)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	for i := range img.Pix {
		if i%BytesPerPixel == BytesPerPixel-1 {
			img.Pix[i] = 0xff
			continue
		}
		img.Pix[i] = byte(i * 31)
	}
	return img
}
