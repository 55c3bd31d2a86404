package operators_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/labsearch/operators"
	"github.com/katalvlaran/labsearch/sequence"
)

// TestCombine_ValidChild: length and alphabet are preserved and the child
// is a prefix of one parent glued to a suffix of the other.
func TestCombine_ValidChild(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 100; trial++ {
		n := 1 + rng.Intn(30)
		s1 := sequence.Random(n, rng)
		s2 := sequence.Random(n, rng)
		keep1, keep2 := s1.Clone(), s2.Clone()

		child, err := operators.Combine(s1, s2, rng)
		require.NoError(t, err)
		require.NoError(t, sequence.Validate(child, n))
		assert.True(t, sequence.Equal(s1, keep1), "parent 1 mutated")
		assert.True(t, sequence.Equal(s2, keep2), "parent 2 mutated")
		assert.True(t, isOnePointChild(child, s1, s2), "child %s is not a crossover of %s and %s", child, s1, s2)
	}
}

// TestUniformCombine_PositionsFromParents checks every gene's origin.
func TestUniformCombine_PositionsFromParents(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	s1 := sequence.Random(40, rng)
	s2 := sequence.Negate(s1)
	child, err := operators.UniformCombine(s1, s2, rng)
	require.NoError(t, err)
	require.NoError(t, sequence.Validate(child, 40))
	from1 := 0
	for i := range child {
		require.True(t, child[i] == s1[i] || child[i] == s2[i])
		if child[i] == s1[i] {
			from1++
		}
	}
	assert.Greater(t, from1, 5)
	assert.Less(t, from1, 35)
}

// TestCrossover_Dispatch covers the selector type.
func TestCrossover_Dispatch(t *testing.T) {
	c, err := operators.ParseCrossover("uniform")
	require.NoError(t, err)
	assert.Equal(t, operators.Uniform, c)
	assert.Equal(t, "uniform", c.String())

	c, err = operators.ParseCrossover("")
	require.NoError(t, err)
	assert.Equal(t, operators.OnePoint, c)
	assert.Equal(t, "one-point", c.String())

	_, err = operators.ParseCrossover("two-point")
	assert.ErrorIs(t, err, operators.ErrUnknownCrossover)

	rng := rand.New(rand.NewSource(3))
	s := sequence.Random(9, rng)
	child, err := operators.Uniform.Apply(s, s, rng)
	require.NoError(t, err)
	assert.True(t, sequence.Equal(s, child), "crossover of identical parents is the parent")
}

// TestCombine_Errors rejects mismatched parents and a nil rng.
func TestCombine_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	a := sequence.MustNew(1, -1, 1)
	b := sequence.MustNew(1, -1)

	_, err := operators.Combine(a, b, rng)
	assert.ErrorIs(t, err, sequence.ErrInvalidSequence)
	_, err = operators.UniformCombine(a, sequence.Sequence{1, 5, 1}, rng)
	assert.ErrorIs(t, err, sequence.ErrInvalidSequence)
	_, err = operators.Combine(a, a, nil)
	assert.ErrorIs(t, err, operators.ErrNilRand)
}

// TestMutate_ZeroRateIsIdentity: p=0 never changes the sequence, even
// without a random source.
func TestMutate_ZeroRateIsIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 50; trial++ {
		s := sequence.Random(1+rng.Intn(30), rng)
		out, err := operators.Mutate(s, 0, nil)
		require.NoError(t, err)
		assert.True(t, sequence.Equal(s, out))
		out[0] = -out[0]
		assert.False(t, sequence.Equal(s, out), "result must not alias the input")
	}
}

// TestMutate_PreservesShape across the full probability range.
func TestMutate_PreservesShape(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	s := sequence.Random(20, rng)
	for _, p := range []float64{0, 0.05, 0.2, 0.5, 0.99, 1} {
		out, err := operators.Mutate(s, p, rng)
		require.NoError(t, err, "p=%v", p)
		require.NoError(t, sequence.Validate(out, 20), "p=%v", p)
	}
	all, err := operators.Mutate(s, 1, rng)
	require.NoError(t, err)
	assert.True(t, sequence.Equal(sequence.Negate(s), all))
}

// TestMutate_Rate checks the empirical flip frequency.
func TestMutate_Rate(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := sequence.Random(1000, rng)
	out, err := operators.Mutate(s, 0.2, rng)
	require.NoError(t, err)
	flips := 0
	for i := range s {
		if s[i] != out[i] {
			flips++
		}
	}
	assert.InDelta(t, 200, flips, 60)
}

// TestMutate_Errors covers invalid rates and inputs.
func TestMutate_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	s := sequence.MustNew(1, -1)
	for _, p := range []float64{-0.1, 1.1, math.NaN()} {
		_, err := operators.Mutate(s, p, rng)
		assert.ErrorIs(t, err, operators.ErrInvalidProbability, "p=%v", p)
	}
	_, err := operators.Mutate(s, 0.5, nil)
	assert.ErrorIs(t, err, operators.ErrNilRand)
	_, err = operators.Mutate(nil, 0.5, rng)
	assert.ErrorIs(t, err, sequence.ErrInvalidSequence)
}

// TestTournament_Bias: larger tournaments favour low energies, and every
// index stays reachable.
func TestTournament_Bias(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	energies := []int{50, 10, 40, 30, 20}
	counts := make([]int, len(energies))
	for i := 0; i < 5000; i++ {
		idx, err := operators.Tournament(energies, 2, rng)
		require.NoError(t, err)
		counts[idx]++
	}
	for i, c := range counts {
		assert.Greater(t, c, 0, "index %d never selected", i)
	}
	assert.Greater(t, counts[1], counts[0])

	_, err := operators.Tournament(nil, 2, rng)
	assert.ErrorIs(t, err, operators.ErrEmptyPool)
	_, err = operators.Tournament(energies, 2, nil)
	assert.ErrorIs(t, err, operators.ErrNilRand)

	idx, err := operators.Tournament([]int{7}, 0, rng)
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
}

// isOnePointChild reports whether child == a[:cut]+b[cut:] for some cut.
func isOnePointChild(child, a, b sequence.Sequence) bool {
	n := len(child)
	if n == 1 {
		return child[0] == a[0]
	}
	for cut := 1; cut < n; cut++ {
		ok := true
		for i := 0; i < n && ok; i++ {
			if i < cut {
				ok = child[i] == a[i]
			} else {
				ok = child[i] == b[i]
			}
		}
		if ok {
			return true
		}
	}

	return false
}
