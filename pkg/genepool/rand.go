package genepool

import "math/rand/v2"

// Rand is the source of randomness for a pool. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewRand returns a deterministic PCG generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}
