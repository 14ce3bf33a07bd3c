package shuffle

import (
	"math/rand/v2"
	"time"
)

// Rand is the randomness used for shuffle order and timestamp offsets.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Shuffle(n int, swap func(i, j int))
	Int64N(n int64) int64
}

// NewRand returns a PCG-backed source. A zero seed draws one from the
// current time, so successive processes produce different permutations.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
