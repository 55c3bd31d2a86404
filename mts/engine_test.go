package mts_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/katalvlaran/labsearch/mts"
	"github.com/katalvlaran/labsearch/sampler"
	"github.com/katalvlaran/labsearch/sequence"
)

// TestRun_EndToEnd mirrors the classical workflow: N=11, P=10, G=5.
func TestRun_EndToEnd(t *testing.T) {
	res, err := mts.Run(context.Background(), 11, 10, 5, nil, mts.WithSeed(7))
	require.NoError(t, err)

	require.NoError(t, sequence.Validate(res.Best, 11))
	assert.GreaterOrEqual(t, res.BestEnergy, 0)
	assert.Equal(t, sequence.Energy(res.Best), res.BestEnergy)
	assert.InDelta(t, sequence.MeritFactor(res.Best), res.MeritFactor, 1e-12)

	require.Len(t, res.Population, 10)
	require.Len(t, res.Energies, 10)
	for i, s := range res.Population {
		require.NoError(t, sequence.Validate(s, 11))
		assert.Equal(t, sequence.Energy(s), res.Energies[i])
		assert.GreaterOrEqual(t, res.Energies[i], res.BestEnergy)
	}

	require.Len(t, res.History, 5)
	for i := 1; i < len(res.History); i++ {
		assert.LessOrEqual(t, res.History[i], res.History[i-1], "history must not increase")
	}
	assert.Equal(t, res.BestEnergy, res.History[len(res.History)-1])
	assert.Equal(t, 5, res.Stats.Generations)
	assert.Positive(t, res.Stats.Evaluations)
	assert.NotEmpty(t, res.RunID)
}

// TestRun_WorkerCountInvariant: the same seed gives the same result for
// any degree of parallelism.
func TestRun_WorkerCountInvariant(t *testing.T) {
	run := func(workers int) mts.Result {
		res, err := mts.Run(context.Background(), 17, 12, 4, nil,
			mts.WithSeed(2024), mts.WithWorkers(workers), mts.WithRunID("fixed"))
		require.NoError(t, err)
		res.Stats.Elapsed = 0

		return res
	}
	one := run(1)
	assert.Equal(t, one, run(4))
	assert.Equal(t, one, run(16))
}

// TestRun_InitialPopulationErrors: bad seeds fail before any generation.
func TestRun_InitialPopulationErrors(t *testing.T) {
	ok := sequence.MustNew(1, 1, 1, -1, -1, 1, -1)
	cases := map[string][]sequence.Sequence{
		"wrong size":   {ok, ok},
		"wrong length": {ok, ok, sequence.MustNew(1, -1)},
		"bad value":    {ok, ok, sequence.Sequence{1, 1, 1, 0, -1, 1, -1}},
		"empty member": {ok, ok, nil},
	}
	for name, pop := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := mts.Run(context.Background(), 7, 3, 2, pop)
			require.ErrorIs(t, err, mts.ErrInvalidInitialPopulation)
			assert.Empty(t, res.History)
		})
	}
}

// TestRun_InitialPopulationKept: elitism never loses a seeded optimum.
func TestRun_InitialPopulationKept(t *testing.T) {
	barker := sequence.MustNew(1, 1, 1, 1, 1, -1, -1, 1, 1, -1, 1, -1, 1)
	pop := []sequence.Sequence{barker, sequence.Negate(barker), sequence.Reverse(barker), barker}
	keep := barker.Clone()

	res, err := mts.Run(context.Background(), 13, 4, 3, pop, mts.WithSeed(1))
	require.NoError(t, err)
	assert.Equal(t, 6, res.BestEnergy)
	assert.Equal(t, []int{6, 6, 6}, res.History)
	assert.True(t, sequence.Equal(keep, barker), "caller's sequence modified")
}

// TestRun_InvalidParameters covers the argument guards.
func TestRun_InvalidParameters(t *testing.T) {
	ctx := context.Background()
	_, err := mts.Run(ctx, 0, 10, 5, nil)
	assert.ErrorIs(t, err, mts.ErrInvalidParameter)
	_, err = mts.Run(ctx, 11, 0, 5, nil)
	assert.ErrorIs(t, err, mts.ErrInvalidParameter)
	_, err = mts.Run(ctx, 11, 10, 0, nil)
	assert.ErrorIs(t, err, mts.ErrInvalidParameter)

	_, err = mts.NewEngine(5, 2,
		mts.WithInitialPopulation([]sequence.Sequence{sequence.MustNew(1, 1, 1, 1, 1), sequence.MustNew(1, 1, 1, 1, 1)}),
		mts.WithSampler(sampler.NewUniform(1), 1, 1))
	assert.ErrorIs(t, err, mts.ErrInvalidParameter)
}

// TestRun_Sampler: the sampler is consulted exactly once and its output is
// validated.
func TestRun_Sampler(t *testing.T) {
	ctx := context.Background()

	calls := 0
	counting := sampler.Func(func(ctx context.Context, n, popSize int, total float64, steps int) ([]sequence.Sequence, error) {
		calls++
		assert.Equal(t, 2.5, total)
		assert.Equal(t, 3, steps)

		return sampler.NewUniform(5).SamplePopulation(ctx, n, popSize, total, steps)
	})
	eng, err := mts.NewEngine(9, 6, mts.WithSeed(3), mts.WithSampler(counting, 2.5, 3))
	require.NoError(t, err)
	_, err = eng.Run(ctx, 2)
	require.NoError(t, err)
	res, err := eng.Run(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, res.History, 5)

	short := sampler.Func(func(_ context.Context, n, _ int, _ float64, _ int) ([]sequence.Sequence, error) {
		return []sequence.Sequence{make(sequence.Sequence, n)}, nil
	})
	_, err = mts.Run(ctx, 9, 6, 2, nil, mts.WithSampler(short, 1, 1))
	assert.ErrorIs(t, err, mts.ErrInvalidInitialPopulation)

	boom := errors.New("backend offline")
	failing := sampler.Func(func(context.Context, int, int, float64, int) ([]sequence.Sequence, error) {
		return nil, boom
	})
	_, err = mts.Run(ctx, 9, 6, 2, nil, mts.WithSampler(failing, 1, 1))
	assert.ErrorIs(t, err, boom)
}

// TestRun_TargetEnergy stops as soon as the target is met.
func TestRun_TargetEnergy(t *testing.T) {
	res, err := mts.Run(context.Background(), 11, 6, 50, nil, mts.WithSeed(9), mts.WithTargetEnergy(1<<20))
	require.NoError(t, err)
	assert.True(t, res.ReachedTarget)
	assert.Empty(t, res.History)

	res, err = mts.Run(context.Background(), 7, 6, 200, nil, mts.WithSeed(9), mts.WithTargetEnergy(3))
	require.NoError(t, err)
	assert.True(t, res.ReachedTarget)
	assert.Equal(t, 3, res.BestEnergy)
	assert.Less(t, len(res.History), 200)
}

// TestRun_Deduplicate: with distinct seeds the population stays distinct up
// to symmetry.
func TestRun_Deduplicate(t *testing.T) {
	const n, p = 11, 10
	rng := rand.New(rand.NewSource(31))
	pop := make([]sequence.Sequence, 0, p)
	keys := map[string]bool{}
	for len(pop) < p {
		s := sequence.Random(n, rng)
		if keys[sequence.Key(s)] {
			continue
		}
		keys[sequence.Key(s)] = true
		pop = append(pop, s)
	}
	require.Len(t, keys, p, "seed population must be distinct")

	res, err := mts.Run(context.Background(), n, p, 6, pop, mts.WithSeed(4))
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, s := range res.Population {
		seen[sequence.Key(s)] = true
	}
	assert.Len(t, seen, p)
}

// TestEngine_Continue: successive Run calls extend one search.
func TestEngine_Continue(t *testing.T) {
	eng, err := mts.NewEngine(10, 5, mts.WithSeed(8))
	require.NoError(t, err)
	first, err := eng.Run(context.Background(), 2)
	require.NoError(t, err)
	second, err := eng.Run(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, first.History, second.History[:2])
	assert.Len(t, second.History, 5)
	assert.LessOrEqual(t, second.BestEnergy, first.BestEnergy)
	assert.Equal(t, eng.RunID(), second.RunID)
}

// TestRun_Canceled returns the snapshot and the context error.
func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := mts.Run(ctx, 9, 4, 10, nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.History)
	require.NoError(t, sequence.Validate(res.Best, 9))
}

// TestRun_TracingAndLogging checks the span, its events and the log lines.
func TestRun_TracingAndLogging(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := mts.Run(context.Background(), 8, 4, 3, nil,
		mts.WithSeed(5), mts.WithTracer(tp.Tracer("test")), mts.WithLogger(logger), mts.WithRunID("run-42"))
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "mts.run", spans[0].Name())
	assert.Len(t, spans[0].Events(), 3)

	out := buf.String()
	assert.Contains(t, out, `"msg":"mts run started"`)
	assert.Contains(t, out, `"msg":"generation complete"`)
	assert.Contains(t, out, `"msg":"mts run finished"`)
	assert.Contains(t, out, `"run_id":"run-42"`)
}

// TestOptions_Panics: option constructors reject meaningless values.
func TestOptions_Panics(t *testing.T) {
	assert.Panics(t, func() { mts.WithRand(nil) })
	assert.Panics(t, func() { mts.WithMutationRate(1.5) })
	assert.Panics(t, func() { mts.WithCrossoverRate(-0.1) })
	assert.Panics(t, func() { mts.WithTournamentSize(0) })
	assert.Panics(t, func() { mts.WithWorkers(0) })
	assert.Panics(t, func() { mts.WithLogger(nil) })
	assert.Panics(t, func() { mts.WithTracer(nil) })
	assert.Panics(t, func() { mts.WithSampler(nil, 1, 1) })
	assert.Panics(t, func() { mts.WithSampler(sampler.NewUniform(1), 0, 1) })
	assert.Panics(t, func() { mts.WithTargetEnergy(-1) })
	assert.Panics(t, func() { mts.WithRunID("") })
	assert.NotPanics(t, func() { mts.WithMutationRate(0) })
}
