package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theglitchis/mt4dash/curve"
	"github.com/theglitchis/mt4dash/trades"
)

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print the capital curve",
	Long: `Fetch the closed trades and capital baseline once and print the
capital curve, one segment per symbol run.

Example:
  mt4dash curve -f mt4dash.yaml`,
	RunE: runCurve,
}

func init() {
	rootCmd.AddCommand(curveCmd)
}

func runCurve(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	api := newAPIClient(cfg, log)
	ctx := context.Background()

	dash, err := api.GetDashboard(ctx)
	if err != nil {
		return fmt.Errorf("fetch trades: %w", err)
	}
	capital, err := api.GetCapital(ctx)
	if err != nil {
		log.Warn().Err(err).Float64("fallback", cfg.FallbackCapital).Msg("capital endpoint unavailable")
		capital = cfg.FallbackCapital
	}

	closed := dash.ClosedTrades
	trades.SortByCloseTime(closed)
	c, err := curve.Build(closed, capital, loadPalette(cfg, log))
	if err != nil {
		return fmt.Errorf("build curve: %w", err)
	}

	fmt.Printf("Capital curve: %.2f -> %.2f over %d closed trades\n",
		capital, c.FinalCapital(), len(closed))
	for _, seg := range c.Segments {
		last := seg.Points[len(seg.Points)-1]
		fmt.Printf("  %-12s %s  %d points, ends at %.2f (%s)\n",
			seg.Symbol, seg.Color, len(seg.Points), last.Capital,
			last.Time.Format(trades.Layout))
	}
	return nil
}
