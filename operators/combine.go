// SPDX-License-Identifier: MIT

package operators

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/labsearch/sequence"
)

// Combine performs one-point crossover: the child takes s1[:cut] followed by
// s2[cut:], with cut drawn uniformly from [1, N−1]. For N == 1 the child is a
// copy of s1.
//
// Errors: sequence.ErrInvalidSequence (wrapped) for a bad alphabet or a
// length mismatch; ErrNilRand for a nil rng.
//
// Complexity: O(N).
func Combine(s1, s2 sequence.Sequence, rng *rand.Rand) (sequence.Sequence, error) {
	if err := checkParents(s1, s2, rng); err != nil {
		return nil, err
	}
	n := len(s1)
	child := make(sequence.Sequence, n)
	if n == 1 {
		child[0] = s1[0]

		return child, nil
	}

	cut := 1 + rng.Intn(n-1)
	copy(child[:cut], s1[:cut])
	copy(child[cut:], s2[cut:])

	return child, nil
}

// UniformCombine takes each position from s1 or s2 with equal probability.
//
// Complexity: O(N).
func UniformCombine(s1, s2 sequence.Sequence, rng *rand.Rand) (sequence.Sequence, error) {
	if err := checkParents(s1, s2, rng); err != nil {
		return nil, err
	}
	child := make(sequence.Sequence, len(s1))
	for i := range child {
		if rng.Intn(2) == 0 {
			child[i] = s1[i]
		} else {
			child[i] = s2[i]
		}
	}

	return child, nil
}

// Crossover selects a recombination operator.
type Crossover int

const (
	// OnePoint is Combine.
	OnePoint Crossover = iota
	// Uniform is UniformCombine.
	Uniform
)

// String names the crossover.
func (c Crossover) String() string {
	switch c {
	case OnePoint:
		return "one-point"
	case Uniform:
		return "uniform"
	default:
		return "unknown"
	}
}

// ParseCrossover maps a configuration name onto a Crossover.
func ParseCrossover(name string) (Crossover, error) {
	switch name {
	case "", "one-point", "onepoint":
		return OnePoint, nil
	case "uniform":
		return Uniform, nil
	default:
		return OnePoint, fmt.Errorf("%w: %q", ErrUnknownCrossover, name)
	}
}

// Apply dispatches to the selected operator; unknown values fall back to
// OnePoint.
func (c Crossover) Apply(s1, s2 sequence.Sequence, rng *rand.Rand) (sequence.Sequence, error) {
	if c == Uniform {
		return UniformCombine(s1, s2, rng)
	}

	return Combine(s1, s2, rng)
}

// checkParents validates both parents share a length and the ±1 alphabet.
func checkParents(s1, s2 sequence.Sequence, rng *rand.Rand) error {
	if err := sequence.Validate(s1, 0); err != nil {
		return fmt.Errorf("combine: first parent: %w", err)
	}
	if err := sequence.Validate(s2, len(s1)); err != nil {
		return fmt.Errorf("combine: second parent: %w", err)
	}
	if rng == nil {
		return ErrNilRand
	}

	return nil
}
