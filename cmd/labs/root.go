package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/labsearch/config"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "labs",
		Short: "Low Autocorrelation Binary Sequence search",
		Long: `labs runs a memetic tabu search for ±1 sequences of length N with
minimal sidelobe energy E = Σ_k C_k², optionally seeded by an external
(quantum) sampler, and archives the best sequence per N.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newRunCmd(g),
		newEnergyCmd(),
		newInteractionsCmd(),
		newScheduleCmd(),
		newBestCmd(g),
	)

	return root
}

// loadConfig reads the configuration and applies the global log flags.
func (g *globalFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFormat != "" {
		cfg.Log.Format = g.logFormat
	}

	return cfg, cfg.Validate()
}

// newLogger builds the slog logger described by cfg, writing to w.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
