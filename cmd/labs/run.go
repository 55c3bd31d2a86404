package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/labsearch/config"
	"github.com/katalvlaran/labsearch/mts"
	"github.com/katalvlaran/labsearch/operators"
	"github.com/katalvlaran/labsearch/sampler"
	"github.com/katalvlaran/labsearch/sequence"
	"github.com/katalvlaran/labsearch/store"
)

// runFlags mirror the search-related configuration keys.
type runFlags struct {
	n, popSize, generations int
	seed                    int64
	workers                 int
	mutationRate            float64
	crossoverRate           float64
	crossover               string
	tournamentSize          int
	targetEnergy            int
	tabuMaxMoves            int
	tabuPatience            int
	samplerKind             string
	samplerEndpoint         string
	totalTime               float64
	steps                   int
	storePath               string
	metricsAddr             string
	trace                   bool
	jsonOut                 bool
}

// runSummary is the machine-readable output of `labs run --json`.
type runSummary struct {
	RunID       string   `json:"run_id"`
	N           int      `json:"n"`
	Best        string   `json:"best"`
	Energy      int      `json:"energy"`
	MeritFactor *float64 `json:"merit_factor,omitempty"` // nil when infinite (E = 0)
	History     []int    `json:"history"`
	Generations int      `json:"generations"`
	Evaluations int      `json:"evaluations"`
	ElapsedMS   int64    `json:"elapsed_ms"`
	Archived    *bool    `json:"archived,omitempty"`
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the memetic tabu search",
		Example: `  labs run --n 32 --pop-size 20 --generations 100 --seed 7
  labs run -c labs.yaml --sampler remote --sampler-endpoint http://localhost:8080/sample`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if err = f.apply(cmd, &cfg); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return execRun(ctx, cfg, f.jsonOut, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fl := cmd.Flags()
	fl.IntVar(&f.n, "n", 0, "sequence length N")
	fl.IntVar(&f.popSize, "pop-size", 0, "population size")
	fl.IntVar(&f.generations, "generations", 0, "generation budget")
	fl.Int64Var(&f.seed, "seed", 0, "random seed (0 picks one from the clock)")
	fl.IntVar(&f.workers, "workers", 0, "local-search goroutines (0 = GOMAXPROCS)")
	fl.Float64Var(&f.mutationRate, "mutation-rate", 0, "per-position flip probability (default 1/N)")
	fl.Float64Var(&f.crossoverRate, "crossover-rate", 0, "recombination probability")
	fl.StringVar(&f.crossover, "crossover", "", "crossover operator: one-point or uniform")
	fl.IntVar(&f.tournamentSize, "tournament-size", 0, "parent tournament size")
	fl.IntVar(&f.targetEnergy, "target-energy", 0, "stop once this energy is reached (-1 = off)")
	fl.IntVar(&f.tabuMaxMoves, "tabu-max-moves", 0, "tabu moves per child (0 = N)")
	fl.IntVar(&f.tabuPatience, "tabu-patience", 0, "tabu moves without improvement before stopping (0 = off)")
	fl.StringVar(&f.samplerKind, "sampler", "", "initial population source: none, uniform or remote")
	fl.StringVar(&f.samplerEndpoint, "sampler-endpoint", "", "remote sampler URL")
	fl.Float64Var(&f.totalTime, "total-time", 0, "schedule total time T for the sampler")
	fl.IntVar(&f.steps, "steps", 0, "schedule steps for the sampler")
	fl.StringVar(&f.storePath, "store", "", "archive directory for best sequences")
	fl.StringVar(&f.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	fl.BoolVar(&f.trace, "trace", false, "export OpenTelemetry spans to stderr")
	fl.BoolVar(&f.jsonOut, "json", false, "print the result as JSON")

	return cmd
}

// apply copies explicitly set flags over cfg and revalidates it.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	set := cmd.Flags().Changed
	if set("n") {
		cfg.Search.N = f.n
	}
	if set("pop-size") {
		cfg.Search.PopSize = f.popSize
	}
	if set("generations") {
		cfg.Search.Generations = f.generations
	}
	if set("seed") {
		cfg.Search.Seed = f.seed
	}
	if set("workers") {
		cfg.Search.Workers = f.workers
	}
	if set("mutation-rate") {
		rate := f.mutationRate
		cfg.Search.MutationRate = &rate
	}
	if set("crossover-rate") {
		cfg.Search.CrossoverRate = f.crossoverRate
	}
	if set("crossover") {
		cfg.Search.Crossover = f.crossover
	}
	if set("tournament-size") {
		cfg.Search.TournamentSize = f.tournamentSize
	}
	if set("target-energy") {
		cfg.Search.TargetEnergy = f.targetEnergy
	}
	if set("tabu-max-moves") {
		cfg.Tabu.MaxMoves = f.tabuMaxMoves
	}
	if set("tabu-patience") {
		cfg.Tabu.Patience = f.tabuPatience
	}
	if set("sampler") {
		cfg.Sampler.Kind = f.samplerKind
	}
	if set("sampler-endpoint") {
		cfg.Sampler.Endpoint = f.samplerEndpoint
	}
	if set("total-time") {
		cfg.Sampler.TotalTime = f.totalTime
	}
	if set("steps") {
		cfg.Sampler.Steps = f.steps
	}
	if set("store") {
		cfg.Store.Path = f.storePath
	}
	if set("metrics-addr") {
		cfg.Telemetry.MetricsAddr = f.metricsAddr
	}
	if set("trace") {
		cfg.Telemetry.Trace = f.trace
	}

	return cfg.Validate()
}

// execRun wires the configured collaborators around one engine run.
func execRun(ctx context.Context, cfg config.Config, jsonOut bool, out, errOut io.Writer) error {
	logger := newLogger(cfg.Log, errOut)
	runID := uuid.NewString()
	logger = logger.With(slog.String("cmd", "run"))

	seed := cfg.Search.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("seed chosen from clock", slog.Int64("seed", seed), slog.String("run_id", runID))
	}

	crossover, err := operators.ParseCrossover(cfg.Search.Crossover)
	if err != nil {
		return err
	}
	opts := []mts.Option{
		mts.WithSeed(seed),
		mts.WithRunID(runID),
		mts.WithLogger(logger),
		mts.WithCrossoverRate(cfg.Search.CrossoverRate),
		mts.WithCrossover(crossover),
		mts.WithTournamentSize(cfg.Search.TournamentSize),
		mts.WithTabuOptions(cfg.TabuOptions()),
		mts.WithDeduplicate(cfg.Search.Deduplicate),
	}
	if cfg.Search.Workers > 0 {
		opts = append(opts, mts.WithWorkers(cfg.Search.Workers))
	}
	if cfg.Search.MutationRate != nil {
		opts = append(opts, mts.WithMutationRate(*cfg.Search.MutationRate))
	}
	if cfg.Search.TargetEnergy >= 0 {
		opts = append(opts, mts.WithTargetEnergy(cfg.Search.TargetEnergy))
	}
	switch cfg.Sampler.Kind {
	case "uniform":
		opts = append(opts, mts.WithSampler(sampler.NewUniform(seed), cfg.Sampler.TotalTime, cfg.Sampler.Steps))
	case "remote":
		remote := sampler.NewRemote(cfg.Sampler.Endpoint,
			sampler.WithLogger(logger), sampler.WithTimeout(cfg.Sampler.Timeout))
		opts = append(opts, mts.WithSampler(sampler.Checked(remote), cfg.Sampler.TotalTime, cfg.Sampler.Steps))
	}

	if cfg.Telemetry.Trace {
		tracer, shutdown, err := startTracing(errOut)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = shutdown(sctx)
		}()
		opts = append(opts, mts.WithTracer(tracer))
	}
	if cfg.Telemetry.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		srv, err := startMetrics(cfg.Telemetry.MetricsAddr, reg, logger)
		if err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
		defer srv.Close()
		opts = append(opts, mts.WithMetrics(mts.NewMetrics(reg)))
	}

	var archive *store.Store
	if cfg.Store.Path != "" {
		archive, err = store.Open(store.Options{Path: cfg.Store.Path})
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	eng, err := mts.NewEngine(cfg.Search.N, cfg.Search.PopSize, opts...)
	if err != nil {
		return err
	}
	res, runErr := eng.Run(ctx, cfg.Search.Generations)
	if runErr != nil && len(res.Best) == 0 {
		return runErr
	}

	summary := runSummary{
		RunID:       res.RunID,
		N:           res.N,
		Best:        res.Best.String(),
		Energy:      res.BestEnergy,
		MeritFactor: finite(res.MeritFactor),
		History:     res.History,
		Generations: res.Stats.Generations,
		Evaluations: res.Stats.Evaluations,
		ElapsedMS:   res.Stats.Elapsed.Milliseconds(),
	}
	var kept store.Record
	if archive != nil {
		var improved bool
		kept, improved, err = archive.Put(res.Best, res.RunID)
		if err != nil {
			return err
		}
		summary.Archived = &improved
	}

	if err = printSummary(out, summary, kept, jsonOut); err != nil {
		return err
	}

	return runErr
}

func printSummary(w io.Writer, s runSummary, kept store.Record, jsonOut bool) error {
	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(s)
	}
	fmt.Fprintf(w, "run      %s\n", s.RunID)
	fmt.Fprintf(w, "best     %s\n", s.Best)
	fmt.Fprintf(w, "N=%d E=%d F=%.4f\n", s.N, s.Energy, sequence.MeritFactorOf(s.N, s.Energy))
	fmt.Fprintf(w, "history  %v\n", s.History)
	fmt.Fprintf(w, "work     %d generations, %d evaluations, %dms\n", s.Generations, s.Evaluations, s.ElapsedMS)
	if s.Archived != nil {
		if *s.Archived {
			fmt.Fprintf(w, "archive  new best for N=%d\n", s.N)
		} else {
			fmt.Fprintf(w, "archive  kept E=%d from run %s\n", kept.Energy, kept.RunID)
		}
	}

	return nil
}

// finite returns &f, or nil for ±Inf and NaN which JSON cannot carry.
func finite(f float64) *float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}

	return &f
}
