package backtest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfort/riskgate/risk"
)

func curveFrom(equities ...float64) []EquityPoint {
	peak := equities[0]
	out := make([]EquityPoint, 0, len(equities))
	for i, e := range equities {
		if e > peak {
			peak = e
		}
		out = append(out, EquityPoint{
			Time:     t0.Add(time.Duration(i) * 24 * time.Hour),
			Equity:   e,
			Drawdown: (peak - e) / peak,
		})
	}
	return out
}

func TestComputeMetricsEmptyRun(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(nil, nil, 10_000)
	assert.Equal(t, 0, m.Trades)
	assert.Equal(t, 0.0, m.WinRate)
	assert.Equal(t, 0.0, m.ReturnPct)
	assert.Equal(t, 0.0, m.SharpeLike)
	assert.True(t, m.NetPL.IsZero())
}

func TestComputeMetricsTradeTotals(t *testing.T) {
	t.Parallel()

	trades := []Trade{
		{RealizedPL: 120},
		{RealizedPL: -40},
		{RealizedPL: 60},
		{RealizedPL: -20},
	}
	m := ComputeMetrics(trades, curveFrom(10_000, 10_120, 10_080, 10_140, 10_120), 10_000)

	assert.Equal(t, 4, m.Trades)
	assert.Equal(t, 2, m.Wins)
	assert.Equal(t, 2, m.Losses)
	assert.Equal(t, 50.0, m.WinRate)
	assert.Equal(t, "120.00", m.NetPL.StringFixed(2))
	assert.Equal(t, "180.00", m.GrossProfit.StringFixed(2))
	assert.Equal(t, "60.00", m.GrossLoss.StringFixed(2))
	assert.InDelta(t, 3.0, m.ProfitFactor, 1e-9)
	assert.InDelta(t, 1.2, m.ReturnPct, 1e-9)
}

func TestComputeMetricsMaxDrawdown(t *testing.T) {
	t.Parallel()

	m := ComputeMetrics(nil, curveFrom(10_000, 11_000, 8_800, 10_500), 10_000)
	assert.InDelta(t, 20.0, m.MaxDDPct, 1e-9)
}

func TestComputeMetricsAnnualizedShortRun(t *testing.T) {
	t.Parallel()

	// A two-point intraday curve reports the plain return, not an
	// extrapolated explosion.
	curve := []EquityPoint{
		{Time: t0, Equity: 10_000},
		{Time: t0.Add(2 * time.Hour), Equity: 10_100},
	}
	m := ComputeMetrics(nil, curve, 10_000)
	assert.InDelta(t, 1.0, m.AnnualizedPct, 1e-9)
}

func TestPrintReport(t *testing.T) {
	t.Parallel()

	trades := []Trade{{RealizedPL: 120}, {RealizedPL: -40}}
	curve := curveFrom(10_000, 10_120, 10_080)
	res := &Result{
		RunID:       "01TESTRUN",
		Instrument:  "EUR_USD",
		Bars:        3,
		Start:       curve[0].Time,
		End:         curve[len(curve)-1].Time,
		Trades:      trades,
		EquityCurve: curve,
		Rejections:  map[risk.Reason]int{risk.ReasonOpenRiskCap: 2},
	}
	res.Metrics = ComputeMetrics(trades, curve, 10_000)

	var sb strings.Builder
	PrintReport(&sb, res)
	out := sb.String()

	assert.Contains(t, out, "01TESTRUN")
	assert.Contains(t, out, "EUR_USD")
	assert.Contains(t, out, "Trades:        2")
	assert.Contains(t, out, "Net P/L:       80.00")
	assert.Contains(t, out, "open_risk_cap")
}

func TestResultSummary(t *testing.T) {
	t.Parallel()

	curve := curveFrom(10_000, 10_080)
	res := &Result{
		RunID:       "01TESTRUN",
		Instrument:  "EUR_USD",
		Bars:        2,
		EquityCurve: curve,
	}
	res.Metrics = ComputeMetrics([]Trade{{RealizedPL: 80}}, curve, 10_000)

	created := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	sum := res.Summary("data/eurusd.csv", created)

	require.Equal(t, "01TESTRUN", sum.RunID)
	assert.Equal(t, created, sum.Created)
	assert.Equal(t, "data/eurusd.csv", sum.Dataset)
	assert.Equal(t, 1, sum.Trades)
	assert.InDelta(t, 80.0, sum.NetPL, 1e-9)
	assert.InDelta(t, 0.8, sum.ReturnPct, 1e-9)
}
