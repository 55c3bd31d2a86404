// SPDX-License-Identifier: MIT

package operators

import "errors"

var (
	// ErrInvalidProbability indicates a rate outside the closed interval [0,1].
	ErrInvalidProbability = errors.New("operators: probability out of range")

	// ErrNilRand indicates that a stochastic operator received a nil *rand.Rand.
	ErrNilRand = errors.New("operators: rng is required")

	// ErrEmptyPool indicates selection over an empty population.
	ErrEmptyPool = errors.New("operators: empty selection pool")

	// ErrUnknownCrossover indicates a crossover name ParseCrossover does not know.
	ErrUnknownCrossover = errors.New("operators: unknown crossover")
)
