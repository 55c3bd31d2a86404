// Package mts implements the Memetic Tabu Search engine for LABS: a
// genetic population whose children are refined by tabu local search.
//
// 🚀 Loop (one generation)
//
//  1. Score the population (energies memoized by canonical symmetry key).
//  2. Pick two parents per child by tournament selection.
//  3. Recombine with probability CrossoverRate (else clone parent 1) and
//     flip each position with probability MutationRate (default 1/N).
//  4. Refine every child with tabu.Search, on up to Workers goroutines.
//  5. Keep the best P of parents ∪ children, skipping symmetry duplicates
//     while enough distinct candidates exist.
//  6. Append the best-so-far energy to History.
//
// ✨ Seeding
//
//	Uniform random by default; WithInitialPopulation for a fixed start;
//	WithSampler to draw it once from a sampler.Sampler (for example a
//	remote quantum sampler driven by the counterdiabatic schedule).
//
// ⚙️ Determinism
//
//	Same seed ⇒ same Result, for any worker count: selection and variation
//	run on the engine stream, and every child's local search gets its own
//	derived stream before the workers start.
//
// 📈 Observability
//
//	WithLogger (log/slog), WithMetrics (Prometheus) and WithTracer
//	(OpenTelemetry span "mts.run" with one event per generation).
package mts
