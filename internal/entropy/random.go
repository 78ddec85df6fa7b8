// Package entropy provides the random sources injected into stochastic
// simulation steps. Seeded sources make a run reproducible; the crypto
// source is used when no seed is configured.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
	"sync"
)

// Source yields random numbers for fire and settlement rolls.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// Intn returns a value in [0, n). n must be positive.
	Intn(n int) int
}

// Seeded is a deterministic source backed by math/rand.
type Seeded struct {
	seed int64

	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeeded creates a deterministic source. Two sources built from the same
// seed produce the same sequence.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{seed: seed, rng: mrand.New(mrand.NewSource(seed))}
}

// Seed returns the seed the source was created with.
func (s *Seeded) Seed() int64 {
	return s.seed
}

// Float64 returns a value in [0, 1).
func (s *Seeded) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// Intn returns a value in [0, n).
func (s *Seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Crypto draws from crypto/rand. It is not reproducible.
type Crypto struct{}

// NewCrypto returns the crypto-backed source.
func NewCrypto() Crypto {
	return Crypto{}
}

// Float64 returns a value in [0, 1).
func (Crypto) Float64() float64 {
	return cryptoRandFloat()
}

// Intn returns a value in [0, n).
func (Crypto) Intn(n int) int {
	if n <= 0 {
		panic("entropy: Intn called with non-positive n")
	}
	return int(cryptoRandFloat() * float64(n))
}

// New returns a seeded source when seed is non-zero, otherwise the crypto
// source.
func New(seed int64) Source {
	if seed == 0 {
		return NewCrypto()
	}
	return NewSeeded(seed)
}

// cryptoRandFloat generates a random float64 using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}
