package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/labsearch/interactions"
	"github.com/katalvlaran/labsearch/sequence"
	"github.com/katalvlaran/labsearch/store"
)

func newEnergyCmd() *cobra.Command {
	var showCorr bool
	cmd := &cobra.Command{
		Use:   "energy SEQUENCE...",
		Short: "Print energy, merit factor and canonical form of sequences",
		Long: `Print energy, merit factor and canonical form of sequences.

Sequences starting with '-' must follow a "--" separator so they are not
read as flags.`,
		Example: `  labs energy +++++--++-+-+
  labs energy 1,1,-1,-1,1
  labs energy -- --+ -1,1,1`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, arg := range args {
				s, err := sequence.Parse(arg)
				if err != nil {
					return fmt.Errorf("%q: %w", arg, err)
				}
				fmt.Fprintf(out, "%s N=%d E=%d F=%.4f canonical=%s\n",
					s, s.Len(), sequence.Energy(s), sequence.MeritFactor(s), sequence.Key(s))
				if showCorr {
					fmt.Fprintf(out, "  C=%v\n", sequence.Autocorrelations(s))
				}
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&showCorr, "correlations", false, "also print C_1..C_{N-1}")

	return cmd
}

func newInteractionsCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "interactions N",
		Short: "Print the G2/G4 interaction sets for length N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseN(args[0])
			if err != nil {
				return err
			}
			g2, g4, err := interactions.Get(n)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "N=%d |G2|=%d |G4|=%d\n", n, len(g2), len(g4))
			if !list {
				return nil
			}
			for _, p := range g2 {
				fmt.Fprintf(out, "G2 %d %d\n", p[0], p[1])
			}
			for _, q := range g4 {
				fmt.Fprintf(out, "G4 %d %d %d %d\n", q[0], q[1], q[2], q[3])
			}

			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list every tuple")

	return cmd
}

func newScheduleCmd() *cobra.Command {
	var (
		total float64
		steps int
	)
	cmd := &cobra.Command{
		Use:   "schedule N",
		Short: "Print the counterdiabatic angle θ for each step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseN(args[0])
			if err != nil {
				return err
			}
			sch, err := interactions.NewSchedule(n, total, steps)
			if err != nil {
				return err
			}
			angles, err := sch.Angles()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			tp := sch.Topology()
			fmt.Fprintf(out, "N=%d T=%g steps=%d Γ1=%g\n", n, total, steps, tp.Gamma1())
			dt := sch.Dt()
			for i, theta := range angles {
				fmt.Fprintf(out, "%4d t=%-10.6g θ=%.10g\n", i+1, float64(i+1)*dt, theta)
			}

			return nil
		},
	}
	cmd.Flags().Float64Var(&total, "total-time", 1.0, "total evolution time T")
	cmd.Flags().IntVar(&steps, "steps", 1, "number of Trotter steps")

	return cmd
}

func newBestCmd(g *globalFlags) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "best [N]",
		Short: "Show archived best sequences",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Path = path
			}
			if cfg.Store.Path == "" {
				return errors.New("best: no archive configured (use --store or store.path)")
			}
			st, err := store.Open(store.Options{Path: cfg.Store.Path})
			if err != nil {
				return err
			}
			defer st.Close()

			var recs []store.Record
			if len(args) == 1 {
				n, err := parseN(args[0])
				if err != nil {
					return err
				}
				rec, err := st.Best(n)
				if err != nil {
					return err
				}
				recs = []store.Record{rec}
			} else if recs, err = st.List(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range recs {
				fmt.Fprintf(out, "N=%d E=%d F=%.4f %s run=%s found=%s\n",
					r.N, r.Energy, r.MeritFactor, r.Sequence, r.RunID, r.Found.Format(time.RFC3339))
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&path, "store", "", "archive directory")

	return cmd
}

func parseN(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid N %q: %w", arg, interactions.ErrInvalidSize)
	}

	return n, nil
}
