// Package operators provides the genetic operators of the memetic search:
// recombination (Combine, UniformCombine), sign-flip mutation (Mutate) and
// tournament parent selection (Tournament).
//
// Contract:
//   - Inputs are never modified; every operator returns a fresh Sequence.
//   - Length and the ±1 alphabet are preserved.
//   - Randomness comes only from the caller's *rand.Rand; a nil source is an
//     error, never a silent fallback to global state.
//   - math/rand.Rand is not goroutine-safe: give each worker its own stream.
package operators
