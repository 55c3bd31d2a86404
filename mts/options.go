// SPDX-License-Identifier: MIT

package mts

import (
	"log/slog"
	"math/rand"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/labsearch/operators"
	"github.com/katalvlaran/labsearch/sampler"
	"github.com/katalvlaran/labsearch/sequence"
	"github.com/katalvlaran/labsearch/tabu"
)

// Default knobs.
const (
	DefaultCrossoverRate  = 0.9
	DefaultTournamentSize = 2
	DefaultSamplerTime    = 1.0
	DefaultSamplerSteps   = 1
)

// Option customizes an Engine. Constructors panic on meaningless values;
// the engine itself never panics on user input.
type Option func(*config)

type config struct {
	rng            *rand.Rand
	mutationRate   float64
	mutationSet    bool
	crossoverRate  float64
	crossover      operators.Crossover
	tournamentSize int
	tabu           tabu.Options
	workers        int
	logger         *slog.Logger
	metrics        *Metrics
	tracer         trace.Tracer
	initial        []sequence.Sequence
	sampler        sampler.Sampler
	samplerTime    float64
	samplerSteps   int
	target         int
	deduplicate    bool
	runID          string
}

func defaultConfig() config {
	return config{
		crossoverRate:  DefaultCrossoverRate,
		crossover:      operators.OnePoint,
		tournamentSize: DefaultTournamentSize,
		tabu:           tabu.DefaultOptions(),
		workers:        runtime.GOMAXPROCS(0),
		logger:         slog.New(slog.DiscardHandler),
		tracer:         otel.Tracer("github.com/katalvlaran/labsearch/mts"),
		target:         -1,
		deduplicate:    true,
	}
}

// WithSeed seeds the engine stream. Same seed ⇒ same run, for any worker
// count.
func WithSeed(seed int64) Option {
	return func(c *config) { c.rng = rngFromSeed(seed) }
}

// WithRand supplies the engine stream. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("mts: WithRand(nil)")
	}
	return func(c *config) { c.rng = r }
}

// WithMutationRate sets the per-position flip probability (default 1/N).
// Panics outside [0,1].
func WithMutationRate(p float64) Option {
	if !(p >= 0 && p <= 1) {
		panic("mts: WithMutationRate(p∉[0,1])")
	}
	return func(c *config) { c.mutationRate, c.mutationSet = p, true }
}

// WithCrossoverRate sets the probability of recombining two parents instead
// of cloning the first. Panics outside [0,1].
func WithCrossoverRate(p float64) Option {
	if !(p >= 0 && p <= 1) {
		panic("mts: WithCrossoverRate(p∉[0,1])")
	}
	return func(c *config) { c.crossoverRate = p }
}

// WithCrossover selects the recombination operator.
func WithCrossover(x operators.Crossover) Option {
	return func(c *config) { c.crossover = x }
}

// WithTournamentSize sets the parent tournament size. Panics on k < 1.
func WithTournamentSize(k int) Option {
	if k < 1 {
		panic("mts: WithTournamentSize(k<1)")
	}
	return func(c *config) { c.tournamentSize = k }
}

// WithTabuOptions sets the per-child local search options. The target
// energy is overridden by WithTargetEnergy when both are given.
func WithTabuOptions(o tabu.Options) Option {
	return func(c *config) { c.tabu = o }
}

// WithWorkers bounds the goroutines running child local searches.
// Panics on k < 1.
func WithWorkers(k int) Option {
	if k < 1 {
		panic("mts: WithWorkers(k<1)")
	}
	return func(c *config) { c.workers = k }
}

// WithLogger sets the structured logger. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("mts: WithLogger(nil)")
	}
	return func(c *config) { c.logger = l }
}

// WithMetrics attaches Prometheus collectors; nil disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithTracer sets the OpenTelemetry tracer. Panics on nil.
func WithTracer(t trace.Tracer) Option {
	if t == nil {
		panic("mts: WithTracer(nil)")
	}
	return func(c *config) { c.tracer = t }
}

// WithInitialPopulation seeds the population. It is validated when the
// engine is built; the slices are copied.
func WithInitialPopulation(pop []sequence.Sequence) Option {
	return func(c *config) {
		c.initial = make([]sequence.Sequence, len(pop))
		for i, s := range pop {
			c.initial[i] = s.Clone()
		}
	}
}

// WithSampler draws the initial population from s, called exactly once at
// the start of the first Run with the given schedule parameters. Panics on
// nil s, total <= 0 or steps < 1.
func WithSampler(s sampler.Sampler, total float64, steps int) Option {
	if s == nil {
		panic("mts: WithSampler(nil)")
	}
	if !(total > 0) || steps < 1 {
		panic("mts: WithSampler(total<=0 || steps<1)")
	}
	return func(c *config) { c.sampler, c.samplerTime, c.samplerSteps = s, total, steps }
}

// WithTargetEnergy stops the run once the best energy is ≤ e.
// Panics on e < 0.
func WithTargetEnergy(e int) Option {
	if e < 0 {
		panic("mts: WithTargetEnergy(e<0)")
	}
	return func(c *config) { c.target = e }
}

// WithDeduplicate toggles skipping symmetry-equivalent duplicates during
// replacement (default on).
func WithDeduplicate(on bool) Option {
	return func(c *config) { c.deduplicate = on }
}

// WithRunID overrides the generated run identifier. Panics on "".
func WithRunID(id string) Option {
	if id == "" {
		panic("mts: WithRunID(\"\")")
	}
	return func(c *config) { c.runID = id }
}
