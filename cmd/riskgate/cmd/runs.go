package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfort/riskgate/journal"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run_id]",
	Short: "List journaled backtest runs, or show one run's trades",
	Long: `Runs reads a SQLite journal and lists the recorded backtest runs. With a
run id argument it prints that run's trades instead.

Examples:
  riskgate runs --db backtests.sqlite
  riskgate runs --db backtests.sqlite 01J9Z...`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

var runsDBPath string

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.Flags().StringVarP(&runsDBPath, "db", "d", "", "path to SQLite journal DB (required)")
	runsCmd.MarkFlagRequired("db")
}

func runRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(runsDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	if len(args) == 1 {
		return printRunTrades(j, args[0])
	}

	runs, err := j.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	fmt.Printf("%-28s %-20s %-10s %7s %7s %9s %9s\n",
		"RUN", "CREATED", "INSTRUMENT", "TRADES", "WINS", "NET P/L", "RETURN")
	for _, r := range runs {
		fmt.Printf("%-28s %-20s %-10s %7d %7d %9.2f %8.2f%%\n",
			r.RunID,
			r.Created.Format(time.RFC3339),
			r.Instrument,
			r.Trades,
			r.Wins,
			r.NetPL,
			r.ReturnPct,
		)
	}
	return nil
}

func printRunTrades(j *journal.SQLiteJournal, runID string) error {
	run, err := j.GetRun(runID)
	if err != nil {
		return err
	}
	trades, err := j.ListTradesByRun(runID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s  %s  %d trades, %.2f%% return\n\n",
		run.RunID, run.Instrument, run.Trades, run.ReturnPct)

	fmt.Printf("%-10s %-4s %12s %10s %10s %10s  %s\n",
		"PLATFORM", "SIDE", "UNITS", "ENTRY", "EXIT", "P/L", "REASON")
	for _, t := range trades {
		fmt.Printf("%-10s %-4s %12.2f %10.5f %10.5f %10.2f  %s\n",
			t.Platform, t.Side, t.Units, t.EntryPrice, t.ExitPrice, t.RealizedPL, t.Reason)
	}
	return nil
}
