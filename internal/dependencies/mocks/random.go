package mocks

import (
	"math/rand/v2"
	"sync"

	"github.com/mcoot/bingobot/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// fallback serves Intn once the queue is drained, so rejection
	// sampling loops still terminate
	fallback *rand.Rand
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom with a fixed fallback seed
func NewMockRandom() *MockRandom {
	return &MockRandom{fallback: rand.New(rand.NewPCG(1, 2))}
}

// Intn returns the next queued result, or a seeded pseudo-random value if none remaining.
// Queued results are reduced modulo n.
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n <= 0 {
		return 0
	}
	if r.intnIndex >= len(r.IntnResults) {
		return r.fallback.IntN(n)
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result % n
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// Remaining returns how many queued results have not been consumed
func (r *MockRandom) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.IntnResults) - r.intnIndex
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = nil
	r.intnIndex = 0
}
