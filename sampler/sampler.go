package sampler

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/labsearch/interactions"
	"github.com/katalvlaran/labsearch/sequence"
)

var (
	// ErrInvalidPopulation indicates a wrong count, a wrong length or a value
	// outside {−1,+1} in a sampled population.
	ErrInvalidPopulation = errors.New("sampler: invalid population")

	// ErrRemote indicates a transport or protocol failure talking to a
	// remote sampler.
	ErrRemote = errors.New("sampler: remote failure")

	// ErrNonFiniteResult is returned when a backend yields NaN or ±Inf.
	ErrNonFiniteResult = interactions.ErrNonFiniteResult
)

// Sampler produces an initial population for the memetic search.
type Sampler interface {
	SamplePopulation(ctx context.Context, n, popSize int, total float64, steps int) ([]sequence.Sequence, error)
}

// Func adapts an ordinary function to Sampler.
type Func func(ctx context.Context, n, popSize int, total float64, steps int) ([]sequence.Sequence, error)

// SamplePopulation calls f.
func (f Func) SamplePopulation(ctx context.Context, n, popSize int, total float64, steps int) ([]sequence.Sequence, error) {
	return f(ctx, n, popSize, total, steps)
}

// Validate checks that pop holds exactly popSize sequences of length n over
// {−1,+1}. The first violation is reported, wrapped in ErrInvalidPopulation
// and the underlying sequence.ErrInvalidSequence when applicable.
//
// Complexity: O(popSize·n).
func Validate(pop []sequence.Sequence, n, popSize int) error {
	if len(pop) != popSize {
		return fmt.Errorf("%w: got %d sequences, want %d", ErrInvalidPopulation, len(pop), popSize)
	}
	for i, s := range pop {
		if err := sequence.Validate(s, n); err != nil {
			return fmt.Errorf("%w: member %d: %w", ErrInvalidPopulation, i, err)
		}
	}

	return nil
}

// Checked returns a Sampler that validates every population produced by s.
func Checked(s Sampler) Sampler {
	return Func(func(ctx context.Context, n, popSize int, total float64, steps int) ([]sequence.Sequence, error) {
		pop, err := s.SamplePopulation(ctx, n, popSize, total, steps)
		if err != nil {
			return nil, err
		}
		if err = Validate(pop, n, popSize); err != nil {
			return nil, err
		}

		return pop, nil
	})
}
