package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theglitchis/mt4dash/config"
	"github.com/theglitchis/mt4dash/curve"
	"github.com/theglitchis/mt4dash/dashapi"
)

var rootCmd = &cobra.Command{
	Use:   "mt4dash",
	Short: "A terminal client for the MT4 account dashboard service",
	Long: `mt4dash is a client for the MT4 dashboard HTTP service.

It provides tools for:
  - Watching the account live: open and closed trades, balance, comments
  - Summarizing realized performance (R/R, gains, losses, drawdown)
  - Building the capital curve segmented by symbol
  - Reading and patching the remote EA configuration`,
}

var (
	cfgPath string
	verbose bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "mt4dash.yaml", "path to client config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// setup loads the .env file and the client config, and builds the logger
// every subcommand shares.
func setup() (*config.Config, zerolog.Logger, error) {
	// A missing .env is fine; any exported variables still apply.
	_ = godotenv.Load()

	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	return cfg, log, nil
}

func newAPIClient(cfg *config.Config, log zerolog.Logger) *dashapi.Client {
	return dashapi.NewClient(cfg.APIBaseURL, cfg.Timeout(), log)
}

func loadPalette(cfg *config.Config, log zerolog.Logger) curve.Palette {
	if cfg.SymbolColorsPath == "" {
		return curve.FallbackPalette()
	}
	p, err := curve.LoadPalette(cfg.SymbolColorsPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.SymbolColorsPath).Msg("symbol colors unavailable, using fallback palette")
	}
	return p
}
