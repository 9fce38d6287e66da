package random

import (
	"crypto/rand"
	"math/big"
	mathrand "math/rand/v2"
	"sync"
)

// Random is the source of card numbers and calls
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// CryptoRandom draws from crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a uniformly random int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	result, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(result.Int64())
}

// SeededRandom is a reproducible PCG source, for replaying a game
type SeededRandom struct {
	mu  sync.Mutex
	rng *mathrand.Rand
}

// NewSeeded creates a SeededRandom. The same seed yields the same cards and calls.
func NewSeeded(seed uint64) *SeededRandom {
	return &SeededRandom{rng: mathrand.New(mathrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Intn returns a pseudo-random int in [0, n)
func (r *SeededRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// FromSeed returns a SeededRandom for a non-zero seed, otherwise CryptoRandom
func FromSeed(seed uint64) Random {
	if seed == 0 {
		return New()
	}
	return NewSeeded(seed)
}
