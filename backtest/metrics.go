package backtest

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Metrics summarizes a run. Money totals are accumulated with decimal
// arithmetic so hundreds of small fills do not drift the headline numbers.
type Metrics struct {
	Trades int
	Wins   int
	Losses int

	WinRate      float64
	NetPL        decimal.Decimal
	GrossProfit  decimal.Decimal
	GrossLoss    decimal.Decimal
	ProfitFactor float64

	StartEquity   float64
	EndEquity     float64
	ReturnPct     float64
	AnnualizedPct float64
	SharpeLike    float64
	MaxDDPct      float64
}

// ComputeMetrics derives the run summary from the realized trades and the
// equity curve. A flat run (no trades, no curve movement) yields zeros
// rather than NaNs.
func ComputeMetrics(trades []Trade, curve []EquityPoint, startEquity float64) Metrics {
	m := Metrics{
		StartEquity: startEquity,
		EndEquity:   startEquity,
	}

	for _, t := range trades {
		m.Trades++
		pl := decimal.NewFromFloat(t.RealizedPL)
		m.NetPL = m.NetPL.Add(pl)
		if t.RealizedPL > 0 {
			m.Wins++
			m.GrossProfit = m.GrossProfit.Add(pl)
		} else {
			m.Losses++
			m.GrossLoss = m.GrossLoss.Add(pl.Neg())
		}
	}
	if m.Trades > 0 {
		m.WinRate = 100 * float64(m.Wins) / float64(m.Trades)
	}
	if m.GrossLoss.IsPositive() {
		m.ProfitFactor, _ = m.GrossProfit.Div(m.GrossLoss).Float64()
	}

	if len(curve) > 0 {
		m.EndEquity = curve[len(curve)-1].Equity
	}
	if startEquity > 0 {
		m.ReturnPct = 100 * (m.EndEquity - startEquity) / startEquity
	}

	for _, pt := range curve {
		if dd := 100 * pt.Drawdown; dd > m.MaxDDPct {
			m.MaxDDPct = dd
		}
	}

	m.AnnualizedPct = annualized(curve, startEquity, m.EndEquity)
	m.SharpeLike = sharpeLike(curve)
	return m
}

// annualized compounds the total return over the curve's calendar span.
// Runs shorter than a day report the plain return instead of an explosive
// extrapolation.
func annualized(curve []EquityPoint, start, end float64) float64 {
	if len(curve) < 2 || !(start > 0) || !(end > 0) {
		return 0
	}
	span := curve[len(curve)-1].Time.Sub(curve[0].Time)
	years := span.Hours() / (24 * 365)
	total := end/start - 1
	if years < 1.0/365 {
		return 100 * total
	}
	return 100 * (math.Pow(end/start, 1/years) - 1)
}

// sharpeLike is mean over stddev of per-bar returns, scaled to the curve's
// bar frequency. It is a comparison number across runs of the same
// timeframe, not a textbook Sharpe ratio.
func sharpeLike(curve []EquityPoint) float64 {
	if len(curve) < 3 {
		return 0
	}

	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if !(prev > 0) {
			continue
		}
		returns = append(returns, curve[i].Equity/prev-1)
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)
	if !(variance > 0) {
		return 0
	}

	span := curve[len(curve)-1].Time.Sub(curve[0].Time)
	perYear := 252.0
	if span > 0 {
		barSpacing := span / time.Duration(len(curve)-1)
		if barSpacing > 0 {
			perYear = float64(365*24*time.Hour) / float64(barSpacing)
		}
	}
	return mean / math.Sqrt(variance) * math.Sqrt(perYear)
}
