package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theglitchis/mt4dash/stats"
	"github.com/theglitchis/mt4dash/trades"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize realized performance",
	Long: `Fetch the closed trades once and print the realized metrics:
average risk/reward, average gain and loss, best and worst trades, and the
maximum drawdown.

Example:
  mt4dash stats -f mt4dash.yaml`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	api := newAPIClient(cfg, log)
	dash, err := api.GetDashboard(context.Background())
	if err != nil {
		return fmt.Errorf("fetch trades: %w", err)
	}

	closed := dash.ClosedTrades
	trades.SortByCloseTime(closed)
	summary := stats.Summarize(closed)
	drawdown := stats.MaxDrawdown(closed)

	fmt.Printf("Closed trades: %d (%d gains, %d losses)\n",
		len(closed), summary.GainCount, summary.LossCount)
	fmt.Printf("  Average R/R:   %.2f\n", stats.Round2(summary.AvgRR))
	fmt.Printf("  Average gain:  %.2f\n", summary.AvgGain)
	fmt.Printf("  Average loss:  %.2f\n", summary.AvgLoss)
	fmt.Printf("  Best trade:    %.2f\n", summary.Best)
	fmt.Printf("  Worst trade:   %.2f\n", summary.Worst)
	fmt.Printf("  Max drawdown:  %.2f%%\n", drawdown)
	return nil
}
