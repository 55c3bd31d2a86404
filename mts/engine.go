package mts

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/labsearch/operators"
	"github.com/katalvlaran/labsearch/sampler"
	"github.com/katalvlaran/labsearch/sequence"
	"github.com/katalvlaran/labsearch/tabu"
)

// memoLimit caps the canonical-key energy memo; it is cleared when full.
const memoLimit = 1 << 18

// Stats counts the work done by an engine across all of its Run calls.
type Stats struct {
	Generations  int           // generations completed
	Evaluations  int           // full energy evaluations + tabu neighbour scores
	TabuMoves    int           // moves performed by child searches
	MemoHits     int           // energy lookups served by the memo
	MemoMisses   int           // energy lookups that evaluated from scratch
	Improvements int           // generations that lowered the best energy
	Elapsed      time.Duration // wall time spent inside Run
}

// Result is a snapshot of an engine. All slices are owned by the caller.
type Result struct {
	RunID         string
	N             int
	Best          sequence.Sequence
	BestEnergy    int
	MeritFactor   float64
	Population    []sequence.Sequence
	Energies      []int // Energies[i] = Energy(Population[i])
	History       []int // best-so-far energy after each generation
	ReachedTarget bool
	Stats         Stats
}

// Engine owns one memetic tabu search: its population, best-so-far state,
// history and energy memo. An Engine is not safe for concurrent use;
// separate engines share nothing.
type Engine struct {
	n       int
	popSize int
	cfg     config
	rng     *rand.Rand

	memo     map[string]int
	pop      []sequence.Sequence
	energies []int
	best     sequence.Sequence
	bestE    int
	history  []int
	stats    Stats
	ready    bool
}

// candidate is a member of the replacement pool.
type candidate struct {
	s   sequence.Sequence
	e   int
	key string
}

// NewEngine validates the parameters and options and returns an engine
// ready to Run. A supplied initial population is validated here, so a bad
// one fails before any generation runs.
//
// Errors: ErrInvalidParameter, ErrInvalidInitialPopulation (wrapping the
// cause).
func NewEngine(n, popSize int, opts ...Option) (*Engine, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: n=%d", ErrInvalidParameter, n)
	}
	if popSize < 1 {
		return nil, fmt.Errorf("%w: popSize=%d", ErrInvalidParameter, popSize)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.initial != nil && cfg.sampler != nil {
		return nil, fmt.Errorf("%w: both an initial population and a sampler were given", ErrInvalidParameter)
	}
	if cfg.initial != nil {
		if err := checkPopulation(cfg.initial, n, popSize); err != nil {
			return nil, err
		}
	}
	if cfg.rng == nil {
		cfg.rng = rngFromSeed(0)
	}
	if !cfg.mutationSet {
		cfg.mutationRate = 1 / float64(n)
	}
	if cfg.target >= 0 {
		cfg.tabu.TargetEnergy = cfg.target
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
	}

	return &Engine{
		n:       n,
		popSize: popSize,
		cfg:     cfg,
		rng:     cfg.rng,
		memo:    make(map[string]int),
	}, nil
}

// RunID returns the identifier attached to logs, spans and archive records.
func (e *Engine) RunID() string { return e.cfg.runID }

// Run advances the search by generations generations. The first call
// builds the initial population (invoking the sampler, if any, exactly
// once). Later calls continue from the current population.
//
// With WithTargetEnergy the loop stops as soon as the target is reached, so
// History may be shorter than generations. On cancellation the snapshot
// up to the last completed generation is returned with ctx.Err().
//
// Complexity: O(generations · popSize · MaxMoves · N²).
func (e *Engine) Run(ctx context.Context, generations int) (Result, error) {
	if generations < 1 {
		return Result{}, fmt.Errorf("%w: generations=%d", ErrInvalidParameter, generations)
	}

	ctx, span := e.cfg.tracer.Start(ctx, "mts.run", trace.WithAttributes(
		attribute.String("labs.run_id", e.cfg.runID),
		attribute.Int("labs.n", e.n),
		attribute.Int("labs.pop_size", e.popSize),
		attribute.Int("labs.generations", generations),
		attribute.Int("labs.workers", e.cfg.workers),
	))
	defer span.End()

	start := time.Now()
	defer func() { e.stats.Elapsed += time.Since(start) }()

	log := e.cfg.logger.With(slog.String("run_id", e.cfg.runID), slog.Int("n", e.n))
	log.Info("mts run started",
		slog.Int("pop_size", e.popSize),
		slog.Int("generations", generations),
		slog.Int("workers", e.cfg.workers),
		slog.Float64("mutation_rate", e.cfg.mutationRate),
		slog.Float64("crossover_rate", e.cfg.crossoverRate),
		slog.String("crossover", e.cfg.crossover.String()),
	)

	if !e.ready {
		if err := e.initialize(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "initialization failed")
			log.Error("mts initialization failed", slog.Any("error", err))

			return Result{}, err
		}
		log.Debug("initial population ready", slog.Int("best_energy", e.bestE))
	}

	for g := 0; g < generations && !e.reachedTarget(); g++ {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "canceled")
			log.Warn("mts run canceled", slog.Int("generation", e.stats.Generations))

			return e.Result(), err
		}
		if err := e.step(ctx, span, log); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "generation failed")
			log.Error("mts generation failed", slog.Int("generation", e.stats.Generations), slog.Any("error", err))

			return e.Result(), err
		}
	}

	span.SetAttributes(
		attribute.Int("labs.best_energy", e.bestE),
		attribute.Float64("labs.merit_factor", sequence.MeritFactorOf(e.n, e.bestE)),
	)
	log.Info("mts run finished",
		slog.Int("best_energy", e.bestE),
		slog.String("best", e.best.String()),
		slog.Float64("merit_factor", sequence.MeritFactorOf(e.n, e.bestE)),
		slog.Int("generations_total", e.stats.Generations),
		slog.Duration("elapsed", time.Since(start)),
	)

	return e.Result(), nil
}

// Result returns a snapshot of the engine state.
func (e *Engine) Result() Result {
	res := Result{
		RunID:         e.cfg.runID,
		N:             e.n,
		Best:          e.best.Clone(),
		BestEnergy:    e.bestE,
		Population:    make([]sequence.Sequence, len(e.pop)),
		Energies:      append([]int(nil), e.energies...),
		History:       append([]int(nil), e.history...),
		ReachedTarget: e.ready && e.reachedTarget(),
		Stats:         e.stats,
	}
	if e.ready {
		res.MeritFactor = sequence.MeritFactorOf(e.n, e.bestE)
	}
	for i, s := range e.pop {
		res.Population[i] = s.Clone()
	}

	return res
}

// initialize builds and scores the starting population.
func (e *Engine) initialize(ctx context.Context) error {
	var pop []sequence.Sequence
	switch {
	case e.cfg.initial != nil:
		pop = e.cfg.initial
	case e.cfg.sampler != nil:
		sampled, err := e.cfg.sampler.SamplePopulation(ctx, e.n, e.popSize, e.cfg.samplerTime, e.cfg.samplerSteps)
		if err != nil {
			return fmt.Errorf("mts: sampler: %w", err)
		}
		if err = checkPopulation(sampled, e.n, e.popSize); err != nil {
			return err
		}
		pop = make([]sequence.Sequence, len(sampled))
		for i, s := range sampled {
			pop[i] = s.Clone()
		}
	default:
		pop = make([]sequence.Sequence, e.popSize)
		for i := range pop {
			pop[i] = sequence.Random(e.n, e.rng)
		}
	}

	e.pop = pop
	e.energies = make([]int, len(pop))
	bestIdx := 0
	for i, s := range pop {
		e.energies[i] = e.energy(s)
		if e.energies[i] < e.energies[bestIdx] {
			bestIdx = i
		}
	}
	e.best = pop[bestIdx].Clone()
	e.bestE = e.energies[bestIdx]
	e.ready = true

	return nil
}

// step runs one generation: selection, variation, parallel tabu search and
// elitist replacement.
func (e *Engine) step(ctx context.Context, span trace.Span, log *slog.Logger) error {
	genStart := time.Now()
	before := e.stats

	for i, s := range e.pop {
		e.energies[i] = e.energy(s)
	}

	children := make([]sequence.Sequence, e.popSize)
	for c := range children {
		child, err := e.breed()
		if err != nil {
			return err
		}
		children[c] = child
	}

	streams := childStreams(e.rng, len(children))
	results := make([]tabu.Result, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.workers)
	for c := range children {
		g.Go(func() error {
			r, err := tabu.Search(gctx, children[c], streams[c], e.cfg.tabu)
			if err != nil {
				return fmt.Errorf("mts: child %d: %w", c, err)
			}
			results[c] = r

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	pool := make([]candidate, 0, len(e.pop)+len(results))
	for i, s := range e.pop {
		pool = append(pool, candidate{s: s, e: e.energies[i], key: sequence.Key(s)})
	}
	for _, r := range results {
		e.stats.Evaluations += r.Evaluations
		e.stats.TabuMoves += r.Moves
		key := sequence.Key(r.Best)
		e.remember(key, r.Energy)
		pool = append(pool, candidate{s: r.Best, e: r.Energy, key: key})
	}

	next := e.replace(pool)
	for i, c := range next {
		e.pop[i] = c.s
		e.energies[i] = c.e
	}
	if next[0].e < e.bestE {
		e.bestE = next[0].e
		e.best = next[0].s.Clone()
		e.stats.Improvements++
	}
	e.history = append(e.history, e.bestE)
	e.stats.Generations++

	elapsed := time.Since(genStart)
	e.cfg.metrics.observeGeneration(e.n, elapsed,
		e.stats.Evaluations-before.Evaluations,
		e.stats.TabuMoves-before.TabuMoves,
		e.stats.MemoHits-before.MemoHits,
		e.bestE,
	)
	span.AddEvent("generation", trace.WithAttributes(
		attribute.Int("labs.generation", e.stats.Generations),
		attribute.Int("labs.best_energy", e.bestE),
		attribute.Int("labs.population_best", next[0].e),
	))
	log.Debug("generation complete",
		slog.Int("generation", e.stats.Generations),
		slog.Int("best_energy", e.bestE),
		slog.Int("population_best", next[0].e),
		slog.Int("population_worst", next[len(next)-1].e),
		slog.Duration("elapsed", elapsed),
	)

	return nil
}

// breed selects two parents, recombines them with probability
// crossoverRate and mutates the result.
func (e *Engine) breed() (sequence.Sequence, error) {
	i, err := operators.Tournament(e.energies, e.cfg.tournamentSize, e.rng)
	if err != nil {
		return nil, err
	}
	j, err := operators.Tournament(e.energies, e.cfg.tournamentSize, e.rng)
	if err != nil {
		return nil, err
	}

	var child sequence.Sequence
	if e.rng.Float64() < e.cfg.crossoverRate {
		if child, err = e.cfg.crossover.Apply(e.pop[i], e.pop[j], e.rng); err != nil {
			return nil, err
		}
	} else {
		child = e.pop[i].Clone()
	}

	return operators.Mutate(child, e.cfg.mutationRate, e.rng)
}

// replace keeps the popSize lowest-energy candidates, parents before
// children on ties. With deduplication, symmetry-equivalent repeats are
// only used when there are not enough distinct candidates.
//
// Complexity: O(M log M) for M candidates.
func (e *Engine) replace(pool []candidate) []candidate {
	sort.SliceStable(pool, func(a, b int) bool { return pool[a].e < pool[b].e })
	if !e.cfg.deduplicate {
		return pool[:e.popSize]
	}

	next := make([]candidate, 0, e.popSize)
	skipped := make([]candidate, 0, len(pool))
	seen := make(map[string]struct{}, len(pool))
	for _, c := range pool {
		if _, dup := seen[c.key]; dup {
			skipped = append(skipped, c)
			continue
		}
		seen[c.key] = struct{}{}
		if len(next) < e.popSize {
			next = append(next, c)
		}
	}
	for _, c := range skipped {
		if len(next) == e.popSize {
			break
		}
		next = append(next, c)
	}
	sort.SliceStable(next, func(a, b int) bool { return next[a].e < next[b].e })

	return next
}

// energy returns Energy(s) through the canonical-key memo.
func (e *Engine) energy(s sequence.Sequence) int {
	key := sequence.Key(s)
	if v, ok := e.memo[key]; ok {
		e.stats.MemoHits++

		return v
	}
	v := sequence.Energy(s)
	e.stats.MemoMisses++
	e.stats.Evaluations++
	e.remember(key, v)

	return v
}

func (e *Engine) remember(key string, energy int) {
	if len(e.memo) >= memoLimit {
		clear(e.memo)
	}
	e.memo[key] = energy
}

func (e *Engine) reachedTarget() bool {
	return e.cfg.target >= 0 && e.bestE <= e.cfg.target
}

// checkPopulation wraps sampler.Validate failures in
// ErrInvalidInitialPopulation.
func checkPopulation(pop []sequence.Sequence, n, popSize int) error {
	if err := sampler.Validate(pop, n, popSize); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInitialPopulation, err)
	}

	return nil
}
