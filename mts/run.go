package mts

import (
	"context"

	"github.com/katalvlaran/labsearch/sequence"
)

// Run builds an engine for sequences of length n with popSize members and
// runs it for generations generations. A non-nil initial population seeds
// the search; otherwise it starts from a sampler (WithSampler) or uniformly
// random sequences.
//
// Errors: ErrInvalidParameter, ErrInvalidInitialPopulation, sampler and
// context errors.
func Run(ctx context.Context, n, popSize, generations int, initial []sequence.Sequence, opts ...Option) (Result, error) {
	if initial != nil {
		opts = append([]Option{WithInitialPopulation(initial)}, opts...)
	}
	eng, err := NewEngine(n, popSize, opts...)
	if err != nil {
		return Result{}, err
	}

	return eng.Run(ctx, generations)
}
