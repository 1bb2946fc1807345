package vm

import (
	"math/rand/v2"
)

// A RandomSource is the pseudo-random generator a Model draws from. Each Model
// owns its source; sources must not be shared between models that are used
// concurrently.
type RandomSource interface {
	// Uint64N returns a uniform value in [0, n). n must be positive.
	Uint64N(n uint64) uint64
}

// NewSeededRandomSource returns a source that produces the same sequence for
// the same seed.
func NewSeededRandomSource(seed int64) RandomSource {
	s := uint64(seed)
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

// NewRandomSource returns a source seeded from the runtime's entropy.
func NewRandomSource() RandomSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
