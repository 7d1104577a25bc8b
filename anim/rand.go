package anim

import (
	"math/rand"
	"sync"
)

// Rand is the source of randomness used for target generation and
// eligibility reassignment. It is an explicit dependency so that tests can
// substitute a seeded or scripted source.
type Rand interface {
	// Float64 returns a number in [0.0, 1.0).
	Float64() float64

	// Intn returns a number in [0, n).
	Intn(n int) int
}

// NewRand returns a Rand seeded with the given seed. Two sources created
// with the same seed produce the same sequence.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// lockedRand serializes access to a Rand. Sources created with NewRand are
// not safe for use from multiple tick goroutines at once.
type lockedRand struct {
	mu  sync.Mutex
	src Rand
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.src.Float64()
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.src.Intn(n)
}
