package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "riskgate",
	Short: "A risk-gated execution and backtesting engine for multi-venue trading",
	Long: `Riskgate replays historical bars against trade signals, admitting each
signal through a drawdown-aware risk gate before simulating fills,
trailing stops and exits.

It provides tools for:
  - Backtesting signal streams with risk-gated admission
  - Drawdown-ladder policy inspection
  - Cross-venue hedge-rule enforcement
  - Journaling trades and equity curves to SQLite or CSV`,
}

var logLevel string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// newLogger builds the process root logger from the --log-level flag.
func newLogger() zerolog.Logger {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}
