// Package labsearch searches for Low Autocorrelation Binary Sequences:
// ±1 sequences of length N whose sidelobe energy E = Σ_k C_k² is as small
// as possible (equivalently, whose merit factor F = N²/2E is as large as
// possible).
//
// The work is split into small subpackages:
//
//	sequence/     — ±1 sequences, energy, incremental flips, symmetry keys
//	interactions/ — G2/G4 interaction sets and the counterdiabatic θ schedule
//	operators/    — crossover, mutation and tournament selection
//	tabu/         — single-flip tabu local search with aspiration
//	sampler/      — initial-population sources (uniform, remote HTTP)
//	mts/          — the memetic tabu search engine
//	config/       — YAML + LABS_* environment configuration
//	store/        — Badger archive of the best sequence per N
//	cmd/labs      — the command-line front end
//
// Quick example:
//
//	res, err := mts.Run(ctx, 13, 20, 50, nil, mts.WithSeed(7))
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Best, res.BestEnergy, res.MeritFactor)
//
// Runs are reproducible: a fixed seed yields the same result for any
// number of worker goroutines.
package labsearch
