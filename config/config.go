// Package config loads the run configuration of the labs command: built-in
// defaults, overlaid by an optional YAML file, overlaid by LABS_* environment
// variables, then validated.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/labsearch/tabu"
)

// ErrInvalidConfig wraps every load, parse or validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

var validate = validator.New()

// Config is the full run configuration.
type Config struct {
	Search    SearchConfig    `yaml:"search"`
	Tabu      TabuConfig      `yaml:"tabu"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Store     StoreConfig     `yaml:"store"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SearchConfig drives the memetic search.
type SearchConfig struct {
	N           int   `yaml:"n" validate:"gte=1"`
	PopSize     int   `yaml:"pop_size" validate:"gte=1"`
	Generations int   `yaml:"generations" validate:"gte=1"`
	Seed        int64 `yaml:"seed"`                     // 0 ⇒ time-based
	Workers     int   `yaml:"workers" validate:"gte=0"` // 0 ⇒ GOMAXPROCS

	// MutationRate nil ⇒ 1/N.
	MutationRate   *float64 `yaml:"mutation_rate" validate:"omitempty,gte=0,lte=1"`
	CrossoverRate  float64  `yaml:"crossover_rate" validate:"gte=0,lte=1"`
	Crossover      string   `yaml:"crossover" validate:"oneof=one-point uniform"`
	TournamentSize int      `yaml:"tournament_size" validate:"gte=1"`
	TargetEnergy   int      `yaml:"target_energy" validate:"gte=-1"` // −1 ⇒ off
	Deduplicate    bool     `yaml:"deduplicate"`
}

// TabuConfig tunes the per-child local search; zeros select the
// length-dependent defaults.
type TabuConfig struct {
	MaxMoves  int `yaml:"max_moves" validate:"gte=0"`
	MinTenure int `yaml:"min_tenure" validate:"gte=0"`
	MaxTenure int `yaml:"max_tenure" validate:"gte=0"`
	Patience  int `yaml:"patience" validate:"gte=0"`
}

// SamplerConfig selects where the initial population comes from.
type SamplerConfig struct {
	Kind      string        `yaml:"kind" validate:"oneof=none uniform remote"`
	Endpoint  string        `yaml:"endpoint" validate:"required_if=Kind remote,omitempty,url"`
	TotalTime float64       `yaml:"total_time" validate:"gt=0"`
	Steps     int           `yaml:"steps" validate:"gte=1"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
}

// StoreConfig locates the best-sequence archive. An empty Path disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// TelemetryConfig enables the Prometheus endpoint and trace export.
type TelemetryConfig struct {
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	Trace       bool   `yaml:"trace"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Search: SearchConfig{
			N:              32,
			PopSize:        20,
			Generations:    50,
			CrossoverRate:  0.9,
			Crossover:      "one-point",
			TournamentSize: 2,
			TargetEnergy:   -1,
			Deduplicate:    true,
		},
		Sampler: SamplerConfig{
			Kind:      "none",
			TotalTime: 1.0,
			Steps:     1,
			Timeout:   2 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load returns Default() overlaid by the YAML file at path (skipped when
// path is empty) and by LABS_* environment variables, validated.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, path, err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, err)
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks struct tags and cross-field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Search.TournamentSize > c.Search.PopSize {
		return fmt.Errorf("%w: tournament_size %d exceeds pop_size %d",
			ErrInvalidConfig, c.Search.TournamentSize, c.Search.PopSize)
	}
	if c.Tabu.MaxTenure > 0 && c.Tabu.MinTenure > c.Tabu.MaxTenure {
		return fmt.Errorf("%w: min_tenure %d exceeds max_tenure %d",
			ErrInvalidConfig, c.Tabu.MinTenure, c.Tabu.MaxTenure)
	}

	return nil
}

// TabuOptions converts the tabu section, with the search target applied.
func (c Config) TabuOptions() tabu.Options {
	return tabu.Options{
		MaxMoves:     c.Tabu.MaxMoves,
		MinTenure:    c.Tabu.MinTenure,
		MaxTenure:    c.Tabu.MaxTenure,
		Patience:     c.Tabu.Patience,
		TargetEnergy: c.Search.TargetEnergy,
	}
}

// SlogLevel maps Level onto slog; unknown values fall back to Info.
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
