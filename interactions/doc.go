// Package interactions enumerates the two-body (G2) and four-body (G4) index
// sets of the LABS Hamiltonian and computes the angle schedule θ(t) that
// parameterizes an external variational sampler.
//
// Expanding E(s) = Σ_k C_k² separates a constant, two-body products
// s_i·s_{i+2k} and four-body products s_i·s_{i+t}·s_{i+k}·s_{i+k+t}:
//
//	E(s) = N(N−1)/2 + 2·Σ_{(i,i+k)∈G2, i+2k<N} s_i·s_{i+2k} + 4·Σ_{G4} s_a·s_b·s_c·s_d
//
// ReformulatedEnergy evaluates that right-hand side, so comparing it with
// sequence.Energy validates the generated index sets.
//
// Sizes (closed forms, see G2Count / G4Count):
//
//	|G2(N)| = ⌊N²/4⌋ − 1              (N ≥ 2)
//	|G4(N)| = ⌊(N−2)·N·(2N−5)/24⌋      (N ≥ 3)
//
// The schedule follows a sin² annealing ramp λ(t) over total time T,
// discretized into steps of size dt; θ(t) = dt·α(λ)·λ̇(t), where α is the
// first-order gauge coefficient built from the topology of G2 and G4. The
// sampler consumes the angles; nothing in the optimizer reads them back.
package interactions
