// SPDX-License-Identifier: MIT

package sequence

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// ErrInvalidSequence is returned when a sequence has the wrong length or an
// entry outside {−1,+1}. Callers branch with errors.Is; the wrapped message
// carries the offending position or length.
var ErrInvalidSequence = errors.New("sequence: invalid sequence")

// Spin values. Using named constants keeps ±1 literals out of the hot loops.
const (
	Up   int8 = 1
	Down int8 = -1
)

// Text runes used by String and Parse.
const (
	upRune   = '+'
	downRune = '-'
)

// Sequence is an ordered ±1 sequence. The zero value (nil) is the empty
// sequence, which is never valid input for evaluation.
type Sequence []int8

// Len returns the sequence length N.
func (s Sequence) Len() int { return len(s) }

// String renders s with '+' for +1 and '-' for −1.
func (s Sequence) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, v := range s {
		if v > 0 {
			b.WriteByte(upRune)
		} else {
			b.WriteByte(downRune)
		}
	}

	return b.String()
}

// Ints returns s as a []int copy, handy for printing and JSON payloads.
func (s Sequence) Ints() []int {
	out := make([]int, len(s))
	for i, v := range s {
		out[i] = int(v)
	}

	return out
}

// Clone returns an independent copy of s.
func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	out := make(Sequence, len(s))
	copy(out, s)

	return out
}

// Equal reports whether a and b have identical entries.
func Equal(a, b Sequence) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// New builds a Sequence from integer values, rejecting anything but ±1.
//
// Complexity: O(N).
func New(values ...int) (Sequence, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSequence)
	}
	out := make(Sequence, len(values))
	for i, v := range values {
		switch v {
		case 1:
			out[i] = Up
		case -1:
			out[i] = Down
		default:
			return nil, fmt.Errorf("%w: value %d at position %d", ErrInvalidSequence, v, i)
		}
	}

	return out, nil
}

// MustNew is New for literals in tests and examples; it panics on bad input.
func MustNew(values ...int) Sequence {
	s, err := New(values...)
	if err != nil {
		panic(err)
	}

	return s
}

// Parse reads either the compact form ("++-+-") or a list of integers
// separated by commas and/or whitespace ("1,-1,1" or "1 -1 1").
//
// Complexity: O(len(text)).
func Parse(text string) (Sequence, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSequence)
	}

	if strings.Trim(text, "+-") == "" {
		out := make(Sequence, len(text))
		for i := 0; i < len(text); i++ {
			if text[i] == upRune {
				out[i] = Up
			} else {
				out[i] = Down
			}
		}

		return out, nil
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '[' || r == ']'
	})
	values := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: token %q", ErrInvalidSequence, f)
		}
		values = append(values, v)
	}

	return New(values...)
}

// Validate checks that s is a ±1 sequence of length n. A non-positive n only
// checks the alphabet and non-emptiness.
//
// Complexity: O(N).
func Validate(s Sequence, n int) error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidSequence)
	}
	if n > 0 && len(s) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidSequence, len(s), n)
	}
	for i, v := range s {
		if v != Up && v != Down {
			return fmt.Errorf("%w: value %d at position %d", ErrInvalidSequence, v, i)
		}
	}

	return nil
}

// Random draws a sequence uniformly from {−1,+1}^n using rng.
// The caller owns rng; it is not safe for concurrent use.
//
// Complexity: O(N).
func Random(n int, rng *rand.Rand) Sequence {
	out := make(Sequence, n)
	var (
		bits int64 // 63 random bits consumed one at a time
		left int   // bits remaining in the current word
	)
	for i := 0; i < n; i++ {
		if left == 0 {
			bits = rng.Int63()
			left = 63
		}
		if bits&1 == 1 {
			out[i] = Up
		} else {
			out[i] = Down
		}
		bits >>= 1
		left--
	}

	return out
}
