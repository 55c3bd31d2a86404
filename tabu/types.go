// SPDX-License-Identifier: MIT

package tabu

import (
	"errors"
	"math/bits"

	"github.com/katalvlaran/labsearch/sequence"
)

var (
	// ErrInvalidOptions indicates negative budgets or an inverted tenure range.
	ErrInvalidOptions = errors.New("tabu: invalid options")

	// ErrNilRand indicates a nil *rand.Rand.
	ErrNilRand = errors.New("tabu: rng is required")
)

// Options tunes one Search call. The zero value is usable: every zero field
// resolves to its documented default for the sequence length.
type Options struct {
	// MaxMoves is the move budget; 0 ⇒ N.
	MaxMoves int

	// MinTenure and MaxTenure bound the per-move tabu tenure (in moves).
	// 0 ⇒ 1+⌈log2 N⌉/2 and 1+⌈log2 N⌉ respectively.
	MinTenure int
	MaxTenure int

	// Patience stops the walk after this many consecutive moves without a
	// new best; 0 disables it.
	Patience int

	// TargetEnergy stops the walk once the best energy is ≤ TargetEnergy.
	// Negative disables it. Zero only triggers on a perfect sequence.
	TargetEnergy int
}

// DefaultOptions returns Options with the target disabled and every other
// field left to its length-dependent default.
func DefaultOptions() Options {
	return Options{TargetEnergy: -1}
}

// StopReason records why a walk ended.
type StopReason int

const (
	// StopBudget: MaxMoves exhausted.
	StopBudget StopReason = iota
	// StopStuck: every neighbour was tabu and none met aspiration.
	StopStuck
	// StopPatience: Patience moves without improvement.
	StopPatience
	// StopTarget: TargetEnergy reached.
	StopTarget
	// StopCanceled: the context was canceled.
	StopCanceled
)

// String names the stop reason.
func (r StopReason) String() string {
	switch r {
	case StopBudget:
		return "budget"
	case StopStuck:
		return "stuck"
	case StopPatience:
		return "patience"
	case StopTarget:
		return "target"
	case StopCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Result is the outcome of one Search.
type Result struct {
	Best        sequence.Sequence // best state visited (owned by the caller)
	Energy      int               // Energy(Best)
	Moves       int               // moves performed
	Evaluations int               // neighbour energies computed
	Improved    int               // moves that produced a new best
	Stop        StopReason
}

// resolved is Options with defaults applied for a concrete N.
type resolved struct {
	maxMoves  int
	minTenure int
	maxTenure int
	patience  int
	target    int
}

// DefaultTenure returns the default [min, max] tenure for length n.
//
// Complexity: O(1).
func DefaultTenure(n int) (int, int) {
	var l int
	if n > 1 {
		l = bits.Len(uint(n - 1)) // ⌈log2 n⌉
	}

	return 1 + l/2, 1 + l
}

// resolve validates opts and fills defaults for length n.
func (o Options) resolve(n int) (resolved, error) {
	if o.MaxMoves < 0 || o.MinTenure < 0 || o.MaxTenure < 0 || o.Patience < 0 {
		return resolved{}, ErrInvalidOptions
	}
	r := resolved{
		maxMoves:  o.MaxMoves,
		minTenure: o.MinTenure,
		maxTenure: o.MaxTenure,
		patience:  o.Patience,
		target:    o.TargetEnergy,
	}
	if r.maxMoves == 0 {
		r.maxMoves = n
	}
	lo, hi := DefaultTenure(n)
	if r.minTenure == 0 {
		r.minTenure = lo
	}
	if r.maxTenure == 0 {
		r.maxTenure = hi
		if r.maxTenure < r.minTenure {
			r.maxTenure = r.minTenure
		}
	}
	if r.minTenure > r.maxTenure {
		return resolved{}, ErrInvalidOptions
	}

	return r, nil
}
