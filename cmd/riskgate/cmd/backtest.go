package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfort/riskgate/backtest"
	"github.com/quantfort/riskgate/config"
	"github.com/quantfort/riskgate/journal"
	"github.com/quantfort/riskgate/market"
	"github.com/quantfort/riskgate/risk"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Replay a candle series against a signal file",
	Long: `Backtest replays historical candles against a JSON signal file. Every
signal is admitted through the risk gate before it can fill; rejected
signals are counted per reason in the report.

Example:
  riskgate backtest --candles data/eurusd_h1.csv --signals signals.json --config riskgate.yaml`,
	RunE: runBacktest,
}

var (
	btCandlesPath string
	btSignalsPath string
	btConfigPath  string
	btDBPath      string
	btTradesCSV   string
	btEquityCSV   string
	btEquity      float64
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btCandlesPath, "candles", "c", "", "path to candle CSV (time,open,high,low,close[,volume]) (required)")
	backtestCmd.Flags().StringVarP(&btSignalsPath, "signals", "s", "", "path to signals JSON (required)")
	backtestCmd.Flags().StringVar(&btConfigPath, "config", "", "path to config file (YAML or JSON)")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "", "journal to a SQLite DB at this path")
	backtestCmd.Flags().StringVar(&btTradesCSV, "trades-csv", "", "journal trades to this CSV file")
	backtestCmd.Flags().StringVar(&btEquityCSV, "equity-csv", "", "journal equity curve to this CSV file")
	backtestCmd.Flags().Float64VarP(&btEquity, "balance", "b", 0, "override the configured starting equity")

	backtestCmd.MarkFlagRequired("candles")
	backtestCmd.MarkFlagRequired("signals")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg := config.Default()
	if btConfigPath != "" {
		var err error
		cfg, err = config.Load(btConfigPath)
		if err != nil {
			return err
		}
	}
	if btEquity > 0 {
		cfg.Account.InitialEquity = btEquity
	}

	candles, skipped, err := market.LoadCandlesCSV(btCandlesPath)
	if err != nil {
		return fmt.Errorf("candles: %w", err)
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("malformed candle rows dropped")
	}

	signals, err := backtest.LoadSignalsJSON(btSignalsPath)
	if err != nil {
		return fmt.Errorf("signals: %w", err)
	}

	jrnl, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("journal: %w", err)
	}
	defer jrnl.Close()

	ledger, err := risk.NewLedger(cfg.Account.InitialEquity, cfg.Ladder(), cfg.Brakes())
	if err != nil {
		return err
	}
	var ranker risk.StrategyRanker
	if len(cfg.Risk.StrategyRanks) > 0 {
		ranker = risk.RankTable(cfg.Risk.StrategyRanks)
	}
	gate := risk.NewGate(risk.GateConfig{
		Ledger:      ledger,
		Classifier:  cfg.RegimeTable(),
		Multipliers: cfg.Multipliers(),
		Coordinator: risk.NewCoordinator(cfg.CrossRuleList()),
		Ranker:      ranker,
		Logger:      log,
	})

	sim, err := backtest.NewSimulator(cfg.SimulatorConfig(), ledger, gate, jrnl, log)
	if err != nil {
		return err
	}

	res, err := sim.Run(candles, signals)
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	if err := jrnl.RecordRun(res.Summary(btCandlesPath, time.Now().UTC())); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	backtest.PrintReport(os.Stdout, res)
	return nil
}

// openJournal builds the journal sink from flags first, config second.
func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch {
	case btDBPath != "":
		return journal.NewSQLite(btDBPath)
	case btTradesCSV != "" && btEquityCSV != "":
		return journal.NewCSV(btTradesCSV, btEquityCSV)
	}

	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	}
	return journal.Discard{}, nil
}
