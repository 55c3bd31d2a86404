// SPDX-License-Identifier: MIT

package mts

import "errors"

var (
	// ErrInvalidParameter indicates n, popSize or generations below 1, or
	// conflicting population sources.
	ErrInvalidParameter = errors.New("mts: invalid parameter")

	// ErrInvalidInitialPopulation indicates a supplied or sampled population
	// with the wrong size, a wrong length or a value outside {−1,+1}.
	ErrInvalidInitialPopulation = errors.New("mts: invalid initial population")
)
