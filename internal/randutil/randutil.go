// Package randutil centralises how deterministic RNGs are derived from
// batch seeds.
package randutil

import "math/rand"

// New returns a *rand.Rand seeded through a splitmix64-style mixer, so the
// adjacent seeds a batch hands out (seed, seed+1, ...) still produce
// uncorrelated shuffle sequences.
func New(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(int64(mix(uint64(seed)))))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
