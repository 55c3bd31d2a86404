// Package sampler is the boundary between the memetic search and whatever
// produces its starting population: a seeded uniform generator, an
// in-process function, or an out-of-process variational quantum sampler
// reached over HTTP.
//
// Contract:
//
//	SamplePopulation(ctx, n, popSize, total, steps) returns exactly popSize
//	sequences of length n over {−1,+1}. total and steps parameterize the
//	counterdiabatic angle schedule (interactions.NewSchedule) that remote
//	backends turn into circuit rotations; local samplers ignore them.
//
// Checked wraps any Sampler so that violations surface as
// ErrInvalidPopulation instead of corrupting the search. No retries are
// performed here; callers that want them wrap the Sampler.
package sampler
