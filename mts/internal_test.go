package mts

import (
	"context"
	"math/rand"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/labsearch/sequence"
)

func TestChildStreams_Deterministic(t *testing.T) {
	a := childStreams(rand.New(rand.NewSource(3)), 4)
	b := childStreams(rand.New(rand.NewSource(3)), 4)
	for i := range a {
		assert.Equal(t, a[i].Int63(), b[i].Int63(), "stream %d", i)
	}
	assert.NotEqual(t, mixSeed(1, 0), mixSeed(1, 1))
	assert.NotEqual(t, mixSeed(1, 0), mixSeed(2, 0))
	assert.Equal(t, rngFromSeed(0).Int63(), rngFromSeed(defaultSeed).Int63())
}

func TestMetrics_Recorded(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	res, err := Run(context.Background(), 9, 5, 3, nil, WithSeed(1), WithMetrics(m))
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.generations))
	assert.Equal(t, float64(res.Stats.TabuMoves), testutil.ToFloat64(m.tabuMoves))
	assert.Equal(t, float64(res.BestEnergy), testutil.ToFloat64(m.bestEnergy.WithLabelValues("9")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.generationSeconds))

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	var none *Metrics
	assert.NotPanics(t, func() { none.observeGeneration(9, 0, 1, 1, 1, 1) })
}

func TestReplace_DeduplicatesThenFills(t *testing.T) {
	eng, err := NewEngine(3, 3)
	require.NoError(t, err)

	a := sequence.MustNew(1, 1, -1)
	b := sequence.MustNew(-1, -1, 1) // negation of a
	c := sequence.MustNew(1, 1, 1)
	pool := []candidate{
		{s: a, e: 1, key: sequence.Key(a)},
		{s: b, e: 1, key: sequence.Key(b)},
		{s: c, e: 5, key: sequence.Key(c)},
	}
	next := eng.replace(pool)
	require.Len(t, next, 3)
	assert.Equal(t, []int{1, 1, 5}, []int{next[0].e, next[1].e, next[2].e})
	assert.True(t, sequence.Equal(a, next[0].s))
	assert.True(t, sequence.Equal(b, next[1].s), "duplicate used only to fill")

	eng.popSize = 2
	next = eng.replace([]candidate{
		{s: a, e: 1, key: sequence.Key(a)},
		{s: b, e: 1, key: sequence.Key(b)},
		{s: c, e: 5, key: sequence.Key(c)},
	})
	assert.True(t, sequence.Equal(c, next[1].s), "distinct candidate preferred over duplicate")
}

func TestEnergyMemo(t *testing.T) {
	eng, err := NewEngine(7, 1)
	require.NoError(t, err)
	s := sequence.MustNew(1, 1, 1, -1, -1, 1, -1)

	assert.Equal(t, 3, eng.energy(s))
	assert.Equal(t, 3, eng.energy(sequence.Reverse(s)))
	assert.Equal(t, 1, eng.stats.MemoMisses)
	assert.Equal(t, 1, eng.stats.MemoHits)
}
