package interactions

import (
	"fmt"

	"github.com/katalvlaran/labsearch/sequence"
)

// Get enumerates the G2 and G4 index sets for sequence length n.
//
// Algorithm:
//
//	G2: for i in [0, N−2), k in [1, ⌊(N−i)/2⌋]          → (i, i+k)
//	G4: for i in [0, N−3), t in [1, ⌊(N−i−1)/2⌋],
//	    k in (t, N−i−t)                                  → (i, i+t, i+k, i+k+t)
//
// The order is deterministic and depends only on n. Small n yields empty
// (non-nil) slices: G2 needs N ≥ 3, G4 needs N ≥ 4.
//
// Complexity: O(|G2| + |G4|) = O(N³) time and space.
func Get(n int) (g2 []Pair, g4 []Quartet, err error) {
	if n < 1 {
		return nil, nil, fmt.Errorf("%w: N=%d", ErrInvalidSize, n)
	}

	g2 = make([]Pair, 0, G2Count(n))
	g4 = make([]Quartet, 0, G4Count(n))

	var i, k, t int
	for i = 0; i < n-2; i++ {
		for k = 1; k <= (n-i)/2; k++ {
			g2 = append(g2, Pair{i, i + k})
		}
	}
	for i = 0; i < n-3; i++ {
		for t = 1; t <= (n-i-1)/2; t++ {
			for k = t + 1; k < n-i-t; k++ {
				g4 = append(g4, Quartet{i, i + t, i + k, i + k + t})
			}
		}
	}

	return g2, g4, nil
}

// G2Count returns |G2(n)| = ⌊n²/4⌋ − 1 without enumerating, or 0 for n < 2.
//
// Complexity: O(1).
func G2Count(n int) int {
	if n < 2 {
		return 0
	}

	return n*n/4 - 1
}

// G4Count returns |G4(n)| = ⌊(n−2)·n·(2n−5)/24⌋, or 0 for n < 3.
// It equals Σ_{j=2}^{n−2} ⌊j²/4⌋, the number of four-body terms.
//
// Complexity: O(1).
func G4Count(n int) int {
	if n < 3 {
		return 0
	}

	return (n - 2) * n * (2*n - 5) / 24
}

// ReformulatedEnergy evaluates the LABS energy through the interaction
// expansion instead of autocorrelations:
//
//	N(N−1)/2 + 2·Σ_{(i,i+k)∈G2, i+2k<N} s_i·s_{i+2k} + 4·Σ_{(a,b,c,d)∈G4} s_a·s_b·s_c·s_d
//
// g2 and g4 must be the sets produced by Get(len(s)); the result then equals
// sequence.Energy(s) for every s. Tuples outside [0, N) are rejected.
//
// Complexity: O(|G2| + |G4|).
func ReformulatedEnergy(s sequence.Sequence, g2 []Pair, g4 []Quartet) (int, error) {
	n := len(s)
	if err := sequence.Validate(s, 0); err != nil {
		return 0, err
	}
	if err := checkIndices(n, g2, g4); err != nil {
		return 0, err
	}

	var (
		two  int
		four int
		far  int // i + 2k, the partner index of the two-body term
	)
	for _, p := range g2 {
		far = 2*p[1] - p[0]
		if far < n {
			two += int(s[p[0]]) * int(s[far])
		}
	}
	for _, q := range g4 {
		four += int(s[q[0]]) * int(s[q[1]]) * int(s[q[2]]) * int(s[q[3]])
	}

	return n*(n-1)/2 + 2*two + 4*four, nil
}

// checkIndices verifies that every tuple index lies in [0, n).
func checkIndices(n int, g2 []Pair, g4 []Quartet) error {
	for _, p := range g2 {
		for _, v := range p {
			if v < 0 || v >= n {
				return fmt.Errorf("%w: pair %v for N=%d", ErrIndexOutOfRange, p, n)
			}
		}
	}
	for _, q := range g4 {
		for _, v := range q {
			if v < 0 || v >= n {
				return fmt.Errorf("%w: quartet %v for N=%d", ErrIndexOutOfRange, q, n)
			}
		}
	}

	return nil
}
