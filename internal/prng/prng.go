// Package prng implements the password-seeded mulberry32 generator used to
// place payload bits and to scramble pixel blocks.
//
// The generator is NOT a security boundary. Its seed is a character sum of the
// password and is trivially brute-forced; confidentiality comes from the
// PBKDF2-derived AES key in internal/crypto.
package prng

// increment is the mulberry32 Weyl sequence constant.
const increment uint32 = 0x6D2B79F5

// twoPow32 scales a 32-bit output into [0, 1).
const twoPow32 = 4294967296.0

// SeedFromPassword sums the Unicode code points of password and wraps the
// result to a signed 32-bit integer.
func SeedFromPassword(password string) int32 {
	var sum int64
	for _, r := range password {
		sum += int64(r)
	}
	return int32(uint32(sum))
}

// Step advances state by one mulberry32 step. It returns the output in [0, 1)
// together with the new state; it never touches shared state.
func Step(state uint32) (float64, uint32) {
	state += increment
	t := (state ^ state>>15) * (state | 1)
	t = (t + (t^t>>7)*(t|61)) ^ t
	return float64(t^t>>14) / twoPow32, state
}

// Mulberry32 threads the generator state for a single caller.
type Mulberry32 struct {
	state uint32
}

// New returns a generator starting from seed.
func New(seed int32) *Mulberry32 {
	return &Mulberry32{state: uint32(seed)}
}

// NewFromPassword returns a generator seeded with SeedFromPassword(password).
func NewFromPassword(password string) *Mulberry32 {
	return New(SeedFromPassword(password))
}

// Next returns the next output in [0, 1).
func (m *Mulberry32) Next() float64 {
	var out float64
	out, m.state = Step(m.state)
	return out
}

// Intn returns floor(Next() * n). n must be positive.
func (m *Mulberry32) Intn(n int) int {
	return int(m.Next() * float64(n))
}

// State returns the current internal state.
func (m *Mulberry32) State() uint32 {
	return m.state
}
