// SPDX-License-Identifier: MIT

package interactions

import "errors"

var (
	// ErrInvalidSize is returned for a sequence length N < 1.
	ErrInvalidSize = errors.New("interactions: sequence length must be ≥ 1")

	// ErrIndexOutOfRange is returned when a supplied G2/G4 tuple references a
	// position outside [0, N).
	ErrIndexOutOfRange = errors.New("interactions: index out of range")

	// ErrInvalidSchedule is returned for non-positive or non-finite schedule
	// parameters (total time, step size, step count, time point).
	ErrInvalidSchedule = errors.New("interactions: invalid schedule parameters")

	// ErrNonFiniteResult is returned when the angle schedule evaluates to NaN
	// or ±Inf. It is a computation error and is never swallowed.
	ErrNonFiniteResult = errors.New("interactions: non-finite result")
)

// Pair is a G2 tuple (i, i+k) with i < i+k.
type Pair [2]int

// Quartet is a G4 tuple (i, i+t, i+k, i+k+t) with strictly increasing entries.
type Quartet [4]int
