package sequence

import "math"

// Autocorrelations returns the aperiodic autocorrelations C_1..C_{N−1} of s,
// stored at index k−1. A sequence of length 1 has none.
//
// Complexity: O(N²) time, O(N) space.
func Autocorrelations(s Sequence) []int {
	n := len(s)
	if n < 2 {
		return []int{}
	}
	c := make([]int, n-1)

	var (
		i, k int
		sum  int
	)
	for k = 1; k < n; k++ {
		sum = 0
		for i = 0; i < n-k; i++ {
			sum += int(s[i]) * int(s[i+k])
		}
		c[k-1] = sum
	}

	return c
}

// Energy returns the LABS energy E(s) = Σ_{k=1}^{N−1} C_k².
// The result is always a non-negative integer.
//
// Complexity: O(N²) time, O(1) extra space.
func Energy(s Sequence) int {
	n := len(s)

	var (
		i, k int
		ck   int
		e    int
	)
	for k = 1; k < n; k++ {
		ck = 0
		for i = 0; i < n-k; i++ {
			ck += int(s[i]) * int(s[i+k])
		}
		e += ck * ck
	}

	return e
}

// EnergyFromCorrelations sums the squares of a correlation vector as
// returned by Autocorrelations.
//
// Complexity: O(N).
func EnergyFromCorrelations(c []int) int {
	e := 0
	for _, ck := range c {
		e += ck * ck
	}

	return e
}

// FlipEnergy returns the energy of s with position j negated, given c, the
// correlation vector of s (Autocorrelations layout). Neither s nor c is
// modified.
//
// Flipping s[j] negates every product that touches j, so for each lag k:
//
//	C'_k = C_k − 2·s[j]·(s[j+k] + s[j−k])
//
// where out-of-range neighbours contribute zero.
//
// Complexity: O(N).
func FlipEnergy(s Sequence, c []int, j int) int {
	n := len(s)
	sj := int(s[j])

	var (
		k     int
		delta int
		ck    int
		e     int
	)
	for k = 1; k < n; k++ {
		delta = 0
		if j+k < n {
			delta += int(s[j+k])
		}
		if j-k >= 0 {
			delta += int(s[j-k])
		}
		ck = c[k-1] - 2*sj*delta
		e += ck * ck
	}

	return e
}

// ApplyFlip negates s[j] in place and updates c accordingly. It is the
// mutating counterpart of FlipEnergy for local-search owners of s and c.
//
// Complexity: O(N).
func ApplyFlip(s Sequence, c []int, j int) {
	n := len(s)
	sj := int(s[j])

	var (
		k     int
		delta int
	)
	for k = 1; k < n; k++ {
		delta = 0
		if j+k < n {
			delta += int(s[j+k])
		}
		if j-k >= 0 {
			delta += int(s[j-k])
		}
		c[k-1] -= 2 * sj * delta
	}
	s[j] = -s[j]
}

// MeritFactor returns F = N²/(2E). For E == 0 (only possible when N == 1)
// it returns +Inf.
//
// Complexity: O(N²).
func MeritFactor(s Sequence) float64 {
	e := Energy(s)
	if e == 0 {
		return math.Inf(1)
	}
	n := float64(len(s))

	return n * n / (2 * float64(e))
}

// MeritFactorOf is MeritFactor for an already known energy.
func MeritFactorOf(n, energy int) float64 {
	if energy == 0 {
		return math.Inf(1)
	}

	return float64(n) * float64(n) / (2 * float64(energy))
}
