package tabu_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/labsearch/sequence"
	"github.com/katalvlaran/labsearch/tabu"
)

// TestSearch_NeverWorse: the returned energy never exceeds the input energy
// and always matches the returned sequence.
func TestSearch_NeverWorse(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	ctx := context.Background()
	for trial := 0; trial < 60; trial++ {
		n := 1 + rng.Intn(40)
		s := sequence.Random(n, rng)
		keep := s.Clone()

		res, err := tabu.Search(ctx, s, rng, tabu.DefaultOptions())
		require.NoError(t, err)
		require.NoError(t, sequence.Validate(res.Best, n))
		assert.LessOrEqual(t, res.Energy, sequence.Energy(s), "n=%d", n)
		assert.Equal(t, sequence.Energy(res.Best), res.Energy, "n=%d", n)
		assert.LessOrEqual(t, res.Moves, n)
		assert.True(t, sequence.Equal(keep, s), "input modified")
	}
}

// TestSearch_FindsSmallOptimum compares against exhaustive enumeration.
func TestSearch_FindsSmallOptimum(t *testing.T) {
	const n = 8
	want := bruteForceMin(n)

	rng := rand.New(rand.NewSource(12))
	opts := tabu.DefaultOptions()
	opts.MaxMoves = 200
	best := -1
	for start := 0; start < 20; start++ {
		res, err := tabu.Search(context.Background(), sequence.Random(n, rng), rng, opts)
		require.NoError(t, err)
		if best < 0 || res.Energy < best {
			best = res.Energy
		}
	}
	assert.Equal(t, want, best)
}

// TestSearch_Deterministic: same seed ⇒ same walk.
func TestSearch_Deterministic(t *testing.T) {
	s := sequence.Random(23, rand.New(rand.NewSource(13)))
	opts := tabu.DefaultOptions()
	opts.MaxMoves = 50

	a, err := tabu.Search(context.Background(), s, rand.New(rand.NewSource(99)), opts)
	require.NoError(t, err)
	b, err := tabu.Search(context.Background(), s, rand.New(rand.NewSource(99)), opts)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// TestSearch_StopReasons exercises each termination path.
func TestSearch_StopReasons(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	s := sequence.Random(30, rng)

	t.Run("target", func(t *testing.T) {
		opts := tabu.DefaultOptions()
		opts.TargetEnergy = sequence.Energy(s)
		res, err := tabu.Search(context.Background(), s, rng, opts)
		require.NoError(t, err)
		assert.Equal(t, tabu.StopTarget, res.Stop)
		assert.Zero(t, res.Moves)
	})

	t.Run("budget", func(t *testing.T) {
		opts := tabu.DefaultOptions()
		opts.MaxMoves = 3
		res, err := tabu.Search(context.Background(), s, rng, opts)
		require.NoError(t, err)
		assert.Equal(t, tabu.StopBudget, res.Stop)
		assert.Equal(t, 3, res.Moves)
		assert.Equal(t, 3*30, res.Evaluations)
	})

	t.Run("patience", func(t *testing.T) {
		opts := tabu.DefaultOptions()
		opts.MaxMoves = 10000
		opts.Patience = 5
		res, err := tabu.Search(context.Background(), s, rng, opts)
		require.NoError(t, err)
		assert.Equal(t, tabu.StopPatience, res.Stop)
		assert.Less(t, res.Moves, 10000)
	})

	t.Run("stuck", func(t *testing.T) {
		// N=1: the only neighbour is the negation, which shares the key.
		res, err := tabu.Search(context.Background(), sequence.MustNew(1), rng, tabu.DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, tabu.StopStuck, res.Stop)
		assert.Equal(t, 0, res.Energy)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := tabu.Search(ctx, s, rng, tabu.DefaultOptions())
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, tabu.StopCanceled, res.Stop)
		assert.True(t, sequence.Equal(s, res.Best))
		assert.Equal(t, "canceled", res.Stop.String())
	})
}

// TestSearch_Errors covers input validation.
func TestSearch_Errors(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	ctx := context.Background()
	s := sequence.MustNew(1, 1, -1)

	_, err := tabu.Search(ctx, sequence.Sequence{1, 0}, rng, tabu.Options{})
	assert.ErrorIs(t, err, sequence.ErrInvalidSequence)
	_, err = tabu.Search(ctx, s, nil, tabu.Options{})
	assert.ErrorIs(t, err, tabu.ErrNilRand)

	bad := []tabu.Options{
		{MaxMoves: -1},
		{Patience: -1},
		{MinTenure: 5, MaxTenure: 2},
		{MinTenure: -1},
	}
	for _, o := range bad {
		_, err = tabu.Search(ctx, s, rng, o)
		assert.ErrorIs(t, err, tabu.ErrInvalidOptions, "%+v", o)
	}
}

// TestDefaultTenure checks the O(log N) defaults.
func TestDefaultTenure(t *testing.T) {
	cases := []struct{ n, lo, hi int }{
		{1, 1, 1},
		{2, 1, 2},
		{7, 2, 4},
		{64, 4, 7},
		{65, 4, 8},
	}
	for _, c := range cases {
		lo, hi := tabu.DefaultTenure(c.n)
		assert.Equal(t, c.lo, lo, "n=%d", c.n)
		assert.Equal(t, c.hi, hi, "n=%d", c.n)
	}
}

func bruteForceMin(n int) int {
	s := make(sequence.Sequence, n)
	best := -1
	for mask := 0; mask < 1<<n; mask++ {
		for i := 0; i < n; i++ {
			if mask>>i&1 == 1 {
				s[i] = sequence.Up
			} else {
				s[i] = sequence.Down
			}
		}
		if e := sequence.Energy(s); best < 0 || e < best {
			best = e
		}
	}

	return best
}
