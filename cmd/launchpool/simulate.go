package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/holiman/uint256"
	"github.com/krazyTry/launchpool-go"
	"github.com/krazyTry/launchpool-go/config"
	"github.com/krazyTry/launchpool-go/decimal_math"
	"github.com/krazyTry/launchpool-go/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newSimulateCmd() *cobra.Command {
	var (
		path     string
		verbose  bool
		decimals uint8
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay the steps of a config file against a fresh ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			log, err := newLogger(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			metrics, err := events.NewMetricsBroker(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			broker := events.Fanout{events.NewLogBroker(log), metrics}

			lp, err := launchpool.New(cfg, launchpool.WithLogger(log), launchpool.WithBroker(broker))
			if err != nil {
				return err
			}
			results := lp.Run(cmd.Context(), cfg.Steps)
			printResults(cmd.OutOrStdout(), lp, results, decimals)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "config", "launchpool.json", "simulation config file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "development logging")
	cmd.Flags().Uint8Var(&decimals, "decimals", 0, "print pool amounts in whole units of this many decimals")
	return cmd
}

func printResults(w io.Writer, lp *launchpool.Launchpool, results []launchpool.Result, decimals uint8) {
	ui := func(u *uint256.Int) string {
		if decimals == 0 {
			return u.Dec()
		}
		return decimal_math.ToUIAmount(u, decimals).String()
	}

	for i, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "%3d %-9s %s  error: %v\n", i, r.Step.Op, r.Step.Caller.Short(4), r.Err)
			continue
		}
		outputs := make([]string, 0, len(r.Outputs))
		for _, o := range r.Outputs {
			outputs = append(outputs, o.Dec())
		}
		fmt.Fprintf(w, "%3d %-9s %s  %s\n", i, r.Step.Op, r.Step.Caller.Short(4), strings.Join(outputs, " "))
	}

	ra, rb := lp.Pool.Reserves()
	fa, fb := lp.Pool.FeesCollected()
	fmt.Fprintf(w, "\npool %s\n", lp.Pool.Address())
	fmt.Fprintf(w, "  reserves      %s / %s\n", ui(ra), ui(rb))
	fmt.Fprintf(w, "  total shares  %s\n", lp.Pool.TotalShares().Dec())
	fmt.Fprintf(w, "  fees          %s / %s\n", ui(fa), ui(fb))
	fmt.Fprintf(w, "  spot price    %s\n", lp.Pool.SpotPrice().String())

	fmt.Fprintf(w, "\nsale %s\n", lp.Sale.Address())
	fmt.Fprintf(w, "  status        %s\n", lp.Sale.Status())
	fmt.Fprintf(w, "  total raised  %s\n", lp.Sale.TotalRaised().Dec())
	fmt.Fprintf(w, "  progress      %s\n", lp.Sale.MigrationProgress().StringFixed(4))
	fmt.Fprintf(w, "  price         %s\n", lp.Sale.CurrentPrice().String())
}
