// Package generators holds the closed-form simulators used when real data is
// unavailable: Balding–Nichols genotypes, additive phenotypes, negative
// binomial style RNA-seq counts and proteome lengths.
//
// Every generator takes its own *rand.Rand; the same seed always yields the
// same output.
package generators

import "math/rand/v2"

// NewRand returns a PCG-backed generator seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
