// SPDX-License-Identifier: MIT

// Package mts - deterministic RNG streams for the engine and its workers.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. The engine stream is used only by
//     the sequential parts of a generation; every child gets its own stream
//     derived up front, so worker scheduling cannot change results.
package mts

import "math/rand"

// defaultSeed is used when the caller neither seeds nor supplies an RNG.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand; seed==0 ⇒ defaultSeed.
//
// Complexity: O(1).
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// mixSeed combines a parent draw with a stream id using the SplitMix64
// finalizer, so neighbouring stream ids give unrelated seeds.
//
// Complexity: O(1).
func mixSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// childStreams draws count independent RNGs from base, one per child.
// base advances exactly once per stream.
//
// Complexity: O(count).
func childStreams(base *rand.Rand, count int) []*rand.Rand {
	out := make([]*rand.Rand, count)
	for i := range out {
		out[i] = rand.New(rand.NewSource(mixSeed(base.Int63(), uint64(i))))
	}

	return out
}
