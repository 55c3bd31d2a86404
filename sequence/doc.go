// Package sequence defines ±1 binary sequences and the Low Autocorrelation
// Binary Sequence (LABS) objective evaluated over them.
//
// 🚀 What is LABS?
//
//	For a sequence s of length N with entries in {−1,+1}, the aperiodic
//	autocorrelation at lag k is
//	    C_k = Σ_{i=0}^{N−1−k} s[i]·s[i+k],   k = 1..N−1
//	and the energy is E(s) = Σ_k C_k². Low energy means low sidelobes, which
//	is what radar pulse compression and spread-spectrum codes want.
//
// ✨ Key features:
//   - Energy / Autocorrelations: direct O(N²) evaluation.
//   - FlipEnergy: O(N) energy of a single-bit-flip neighbor from a cached
//     correlation vector (the hot path of local search).
//   - MeritFactor: F = N²/(2E).
//   - Symmetries: identity, negate, reverse and negate∘reverse all preserve E.
//     Canonical and Key collapse the four images to one representative.
//
// ⚙️ Usage:
//
//	s, _ := sequence.Parse("+++--+-")
//	fmt.Println(sequence.Energy(s))   // 3
//	fmt.Println(sequence.Key(s))      // canonical text form
//
// Sequences are plain slices. Every function in this package except ApplyFlip
// treats its input as read-only and returns fresh slices; ApplyFlip updates
// the sequence and its correlation vector in place.
package sequence
