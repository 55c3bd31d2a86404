// Package tabu implements the tabu-guided local search used as the
// improvement step of the memetic search.
//
// 🚀 What
//
//	Search(ctx, s, rng, opts) walks the single-bit-flip neighbourhood of a
//	±1 sequence, always moving to the best admissible neighbour (even when
//	it is worse), and returns the best state it visited.
//
// ✨ How
//
//   - Each move scores all N neighbours with the O(N) incremental
//     autocorrelation update (sequence.FlipEnergy), so one move is O(N²).
//   - Visited states are remembered by their canonical symmetry key
//     (sequence.Key); a neighbour whose key is remembered and not yet
//     expired is tabu. Tenure is drawn per move from [MinTenure, MaxTenure].
//   - Aspiration: a tabu neighbour is admissible when it beats the best
//     energy found so far.
//   - Ties between equally good neighbours are broken uniformly at random.
//
// ⚙️ Termination
//
//	MaxMoves budget, no admissible neighbour, Patience (moves without a new
//	best), TargetEnergy reached, or context cancellation.
//
// 📈 Guarantees
//
//   - The returned energy never exceeds the input energy.
//   - The input sequence is never modified.
//   - Same seed ⇒ same walk.
package tabu
