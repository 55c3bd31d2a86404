package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "LABS_"

// envBinding maps one variable onto a field.
type envBinding struct {
	name string
	set  func(c *Config, v string) error
}

var envBindings = []envBinding{
	{"N", intField(func(c *Config) *int { return &c.Search.N })},
	{"POP_SIZE", intField(func(c *Config) *int { return &c.Search.PopSize })},
	{"GENERATIONS", intField(func(c *Config) *int { return &c.Search.Generations })},
	{"WORKERS", intField(func(c *Config) *int { return &c.Search.Workers })},
	{"TOURNAMENT_SIZE", intField(func(c *Config) *int { return &c.Search.TournamentSize })},
	{"TARGET_ENERGY", intField(func(c *Config) *int { return &c.Search.TargetEnergy })},
	{"SEED", func(c *Config, v string) error {
		n, err := strconv.ParseInt(v, 10, 64)
		c.Search.Seed = n
		return err
	}},
	{"MUTATION_RATE", func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		c.Search.MutationRate = &f
		return err
	}},
	{"CROSSOVER_RATE", floatField(func(c *Config) *float64 { return &c.Search.CrossoverRate })},
	{"CROSSOVER", stringField(func(c *Config) *string { return &c.Search.Crossover })},
	{"DEDUPLICATE", boolField(func(c *Config) *bool { return &c.Search.Deduplicate })},
	{"TABU_MAX_MOVES", intField(func(c *Config) *int { return &c.Tabu.MaxMoves })},
	{"TABU_PATIENCE", intField(func(c *Config) *int { return &c.Tabu.Patience })},
	{"SAMPLER", stringField(func(c *Config) *string { return &c.Sampler.Kind })},
	{"SAMPLER_ENDPOINT", stringField(func(c *Config) *string { return &c.Sampler.Endpoint })},
	{"SAMPLER_TOTAL_TIME", floatField(func(c *Config) *float64 { return &c.Sampler.TotalTime })},
	{"SAMPLER_STEPS", intField(func(c *Config) *int { return &c.Sampler.Steps })},
	{"SAMPLER_TIMEOUT", func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		c.Sampler.Timeout = d
		return err
	}},
	{"STORE_PATH", stringField(func(c *Config) *string { return &c.Store.Path })},
	{"LOG_LEVEL", stringField(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FORMAT", stringField(func(c *Config) *string { return &c.Log.Format })},
	{"METRICS_ADDR", stringField(func(c *Config) *string { return &c.Telemetry.MetricsAddr })},
	{"TRACE", boolField(func(c *Config) *bool { return &c.Telemetry.Trace })},
}

// applyEnv overlays every LABS_* variable that lookup reports as set.
func applyEnv(c *Config, lookup func(string) (string, bool)) error {
	for _, b := range envBindings {
		v, ok := lookup(EnvPrefix + b.name)
		if !ok {
			continue
		}
		if err := b.set(c, v); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %w", ErrInvalidConfig, EnvPrefix, b.name, v, err)
		}
	}

	return nil
}

func intField(field func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func floatField(field func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*field(c) = f
		return nil
	}
}

func boolField(field func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func stringField(field func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*field(c) = v
		return nil
	}
}
