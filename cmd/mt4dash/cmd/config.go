package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theglitchis/mt4dash/dashapi"
	"github.com/theglitchis/mt4dash/trades"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or patch the remote EA configuration",
	Long: `Manage the configuration the dashboard service pushes to the trading
terminal.

Subcommands:
  get - Print the current remote configuration
  set - Patch one section (or the root close-all flag)

Examples:
  mt4dash config get
  mt4dash config set --section auto_stop_loss --enabled --distance 30
  mt4dash config set --close-all`,
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current remote configuration",
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Patch the remote configuration",
	Long: `Send a partial configuration write. With --section, only the flags you
pass are merged into that section server-side; without one, --close-all
toggles the root close-all flag.`,
	RunE: runConfigSet,
}

var (
	configSetSection  string
	configSetEnabled  bool
	configSetDistance int
	configSetCloseAll bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configSetCmd.Flags().StringVarP(&configSetSection, "section", "s", "", "section to patch (auto_stop_loss or trailing_stop)")
	configSetCmd.Flags().BoolVar(&configSetEnabled, "enabled", false, "enable the section")
	configSetCmd.Flags().IntVarP(&configSetDistance, "distance", "d", 0, "distance in pips")
	configSetCmd.Flags().BoolVar(&configSetCloseAll, "close-all", false, "request closing all open trades")
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	api := newAPIClient(cfg, log)
	remote, err := api.GetConfig(context.Background())
	if err != nil {
		return fmt.Errorf("fetch config: %w", err)
	}

	fmt.Printf("close all trades: %t\n", remote.CloseAllTrades)
	printSection(trades.SectionAutoStopLoss, remote.AutoStopLoss)
	printSection(trades.SectionTrailingStop, remote.TrailingStop)
	return nil
}

func printSection(name string, s trades.StopSection) {
	fmt.Printf("%-14s enabled: %-5t distance: %d pips\n", name, s.Enabled, s.DistancePips)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	fields := map[string]any{}
	switch {
	case configSetSection != "":
		if cmd.Flags().Changed("enabled") {
			fields["enabled"] = configSetEnabled
		}
		if cmd.Flags().Changed("distance") {
			fields["distance_pips"] = configSetDistance
		}
		if len(fields) == 0 {
			return fmt.Errorf("nothing to patch: pass --enabled and/or --distance")
		}
	case cmd.Flags().Changed("close-all"):
		fields["closeBloc_allTrade"] = configSetCloseAll
	default:
		return fmt.Errorf("nothing to patch: pass --section or --close-all")
	}

	api := newAPIClient(cfg, log)
	update := dashapi.ConfigUpdate{Section: configSetSection, Fields: fields}
	if err := api.UpdateConfig(context.Background(), update); err != nil {
		return fmt.Errorf("patch config: %w", err)
	}
	fmt.Println("configuration updated")
	return nil
}
