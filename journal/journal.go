// Package journal persists backtest output: executed trades, the equity
// curve and per-run summaries. It is strictly a caller-side sink -- the risk
// core never imports it.
package journal

import "time"

// TradeRecord is one executed (or partially executed) trade.
type TradeRecord struct {
	RunID      string
	TradeID    string
	StrategyID string
	Instrument string
	Platform   string
	Side       string // BUY / SELL
	Units      float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	Reason     string // STOP, TAKE, PARTIAL_TAKE, END_OF_DATA
}

// EquitySnapshot is one point on a run's equity curve.
type EquitySnapshot struct {
	RunID    string
	Time     time.Time
	Equity   float64
	Drawdown float64
}

// RunSummary is the headline result of one backtest run.
type RunSummary struct {
	RunID        string
	Created      time.Time
	Instrument   string
	Dataset      string
	Bars         int
	Trades       int
	Wins         int
	Losses       int
	WinRate      float64
	StartEquity  float64
	EndEquity    float64
	NetPL        float64
	ReturnPct    float64
	MaxDDPct     float64
	SharpeLike   float64
	ProfitFactor float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	RecordRun(RunSummary) error
	Close() error
}

// Discard is a Journal that drops everything; handy for tests and for runs
// where only the printed report matters.
type Discard struct{}

func (Discard) RecordTrade(TradeRecord) error     { return nil }
func (Discard) RecordEquity(EquitySnapshot) error { return nil }
func (Discard) RecordRun(RunSummary) error        { return nil }
func (Discard) Close() error                      { return nil }
