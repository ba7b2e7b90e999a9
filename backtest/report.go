package backtest

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/quantfort/riskgate/journal"
	"github.com/quantfort/riskgate/risk"
)

// PrintReport renders a run result as a plain-text summary.
func PrintReport(w io.Writer, r *Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Instrument:    %s\n", r.Instrument)
	fmt.Fprintf(w, "Bars:          %d", r.Bars)
	if r.Skipped > 0 {
		fmt.Fprintf(w, " (%d skipped)", r.Skipped)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))

	m := r.Metrics
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", m.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", m.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", m.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", m.WinRate)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Equity:  %.2f\n", m.StartEquity)
	fmt.Fprintf(w, "End Equity:    %.2f\n", m.EndEquity)
	fmt.Fprintf(w, "Net P/L:       %s\n", m.NetPL.StringFixed(2))
	fmt.Fprintf(w, "Return:        %.2f%%\n", m.ReturnPct)
	fmt.Fprintf(w, "Annualized:    %.2f%%\n", m.AnnualizedPct)

	if m.ProfitFactor > 0 {
		fmt.Fprintf(w, "Profit Factor: %.2f\n", m.ProfitFactor)
	}
	if m.MaxDDPct > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", m.MaxDDPct)
	}
	if m.SharpeLike != 0 {
		fmt.Fprintf(w, "Sharpe-like:   %.2f\n", m.SharpeLike)
	}

	if len(r.Rejections) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Gate Rejections")
		fmt.Fprintln(w, "--------------------------------------------------")

		reasons := make([]string, 0, len(r.Rejections))
		for reason := range r.Rejections {
			reasons = append(reasons, string(reason))
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			fmt.Fprintf(w, "%-36s %d\n", reason, r.Rejections[risk.Reason(reason)])
		}
	}

	fmt.Fprintln(w)
}

// Summary converts a result into the journal's run-summary row.
func (r *Result) Summary(dataset string, created time.Time) journal.RunSummary {
	m := r.Metrics
	netPL, _ := m.NetPL.Float64()
	return journal.RunSummary{
		RunID:        r.RunID,
		Created:      created,
		Instrument:   r.Instrument,
		Dataset:      dataset,
		Bars:         r.Bars,
		Trades:       m.Trades,
		Wins:         m.Wins,
		Losses:       m.Losses,
		WinRate:      m.WinRate,
		StartEquity:  m.StartEquity,
		EndEquity:    m.EndEquity,
		NetPL:        netPL,
		ReturnPct:    m.ReturnPct,
		MaxDDPct:     m.MaxDDPct,
		SharpeLike:   m.SharpeLike,
		ProfitFactor: m.ProfitFactor,
	}
}
