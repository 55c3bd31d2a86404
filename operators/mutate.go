package operators

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/labsearch/sequence"
)

// Mutate flips the sign of each position independently with probability p.
//
// Contract:
//   - p == 0 returns an exact copy and consumes no randomness.
//   - p == 1 returns −s.
//   - p ∉ [0,1] (or NaN) → ErrInvalidProbability.
//
// Complexity: O(N).
func Mutate(s sequence.Sequence, p float64, rng *rand.Rand) (sequence.Sequence, error) {
	if err := sequence.Validate(s, 0); err != nil {
		return nil, fmt.Errorf("mutate: %w", err)
	}
	if !(p >= 0 && p <= 1) {
		return nil, fmt.Errorf("mutate: p=%v: %w", p, ErrInvalidProbability)
	}
	out := s.Clone()
	if p == 0 {
		return out, nil
	}
	if rng == nil {
		return nil, ErrNilRand
	}
	for i := range out {
		if p == 1 || rng.Float64() < p {
			out[i] = -out[i]
		}
	}

	return out, nil
}
