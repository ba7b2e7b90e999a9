package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quantfort/riskgate/config"
	"github.com/quantfort/riskgate/risk"
)

var policyCmd = &cobra.Command{
	Use:   "policy [equity ...]",
	Short: "Walk an equity path down the drawdown ladder",
	Long: `Policy feeds a sequence of equity marks to a fresh ledger and prints the
band, risk scale and policy in force after each mark. Useful for checking
which ladder rung a drawdown path lands on before trusting it with money.

Example:
  riskgate policy 10000 9600 9200 8500 7000`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPolicy,
}

var policyConfigPath string

func init() {
	rootCmd.AddCommand(policyCmd)
	policyCmd.Flags().StringVar(&policyConfigPath, "config", "", "path to config file (YAML or JSON)")
}

func runPolicy(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if policyConfigPath != "" {
		var err error
		cfg, err = config.Load(policyConfigPath)
		if err != nil {
			return err
		}
	}

	marks := make([]float64, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil || v <= 0 {
			return fmt.Errorf("equity mark %q must be a positive number", a)
		}
		marks = append(marks, v)
	}

	ledger, err := risk.NewLedger(marks[0], cfg.Ladder(), cfg.Brakes())
	if err != nil {
		return err
	}

	fmt.Printf("%-12s %-10s %-12s %-6s %-8s %s\n",
		"EQUITY", "DRAWDOWN", "BAND", "SCALE", "TRIAGE", "NEW TRADES")
	for _, m := range marks {
		ledger.UpdateEquity(m)
		st := ledger.Snapshot()
		fmt.Printf("%-12.2f %-10s %-12s %-6.2f %-8v %v\n",
			st.Equity,
			fmt.Sprintf("%.2f%%", st.Drawdown*100),
			st.Policy.Name,
			st.RiskScale,
			st.Policy.TriageMode,
			st.Policy.AllowNewTrades,
		)
	}
	return nil
}
