// Package util holds the seeded randomness shared by simulations and live
// battles.
package util

import "math/rand"

// Seed names a reproducible random stream. Seed 0 replays exactly like seed 1,
// so an unset seed in config or a request is still deterministic.
type Seed int64

// batchStride spaces batch run seeds apart; it is prime so runs of
// neighbouring base seeds rarely collide.
const batchStride = 7919

// Rand opens a fresh source for s.
func (s Seed) Rand() *rand.Rand {
	if s == 0 {
		s = 1
	}
	return rand.New(rand.NewSource(int64(s)))
}

// Run is the seed of run i of a batch started from s. It does not depend on
// which worker picks the run up.
func (s Seed) Run(i int) Seed {
	return s + Seed(i)*batchStride
}
