package sampler

import (
	"context"
	"math/rand"
	"sync"

	"github.com/katalvlaran/labsearch/sequence"
)

// Uniform draws every member uniformly from {−1,+1}^n. It is the classical
// baseline the quantum-seeded runs are compared against. Safe for
// concurrent use.
type Uniform struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniform returns a Uniform sampler seeded with seed.
func NewUniform(seed int64) *Uniform {
	return &Uniform{rng: rand.New(rand.NewSource(seed))}
}

// SamplePopulation ignores total and steps.
func (u *Uniform) SamplePopulation(ctx context.Context, n, popSize int, _ float64, _ int) ([]sequence.Sequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n < 1 || popSize < 0 {
		return nil, ErrInvalidPopulation
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	pop := make([]sequence.Sequence, popSize)
	for i := range pop {
		pop[i] = sequence.Random(n, u.rng)
	}

	return pop, nil
}
