package risk

import (
	"fmt"
	"math"
	"sync"

	"github.com/quantfort/riskgate/market"
)

// OpenPosition is the ledger's view of one open trade: where it lives and
// which way it points. Everything else about the position is the caller's
// business.
type OpenPosition struct {
	Platform  string
	Direction market.Direction
}

// Brakes are the daily/weekly PnL circuit breakers, expressed as loss
// fractions (0.02 = stop trading after a 2% down day). They apply
// independently of the drawdown ladder. Zero disables a brake.
type Brakes struct {
	MaxDailyLossPct  float64
	MaxWeeklyLossPct float64
}

// Ledger owns equity history, drawdown, position bookkeeping and the active
// policy. One instance is shared by every trade attempt in a process (or one
// backtest run); all mutation goes through UpdateEquity, RegisterOpen,
// RegisterClose and SetPeriodPnL.
//
// The internal mutex serializes concurrent venue loops. The drawdown->policy
// transition and open-risk accounting are not safe without it.
type Ledger struct {
	mu sync.Mutex

	equityNow  float64
	equityPeak float64
	drawdown   float64
	maxDD      float64

	dailyPnLPct  float64
	weeklyPnLPct float64

	openRiskPct    float64
	openByPlatform map[string]int
	openBySymbol   map[string][]OpenPosition

	ladder Ladder
	band   Band
	brakes Brakes
}

// State is a point-in-time copy of the ledger's numbers, safe to hand to
// reports and log sinks.
type State struct {
	Equity       float64
	EquityPeak   float64
	Drawdown     float64
	MaxDrawdown  float64
	DailyPnLPct  float64
	WeeklyPnLPct float64
	OpenRiskPct  float64
	OpenTrades   int
	Policy       Policy
	RiskScale    float64
	Halted       bool
}

func NewLedger(initialEquity float64, ladder Ladder, brakes Brakes) (*Ledger, error) {
	if initialEquity <= 0 || math.IsNaN(initialEquity) {
		return nil, fmt.Errorf("initial equity must be positive, got %v", initialEquity)
	}
	if len(ladder) == 0 {
		ladder = DefaultLadder()
	}
	l := &Ledger{
		equityNow:      initialEquity,
		equityPeak:     initialEquity,
		openByPlatform: make(map[string]int),
		openBySymbol:   make(map[string][]OpenPosition),
		ladder:         ladder,
		brakes:         brakes,
	}
	l.band = ladder.Select(0)
	return l, nil
}

// UpdateEquity records a new equity mark, recomputes drawdown against the
// running peak and re-derives the active policy from the ladder.
//
// There is deliberately no hysteresis: equity oscillating across a band
// boundary flips the policy on every call. Callers that dislike policy
// flapping must smooth their equity marks, not this method.
func (l *Ledger) UpdateEquity(equity float64) {
	if math.IsNaN(equity) || math.IsInf(equity, 0) {
		return // a poisoned mark must not corrupt peak/drawdown tracking
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.equityNow = equity
	if equity > l.equityPeak {
		l.equityPeak = equity
	}

	dd := 0.0
	if l.equityPeak > 0 {
		dd = (l.equityPeak - equity) / l.equityPeak
	}
	if dd < 0 {
		dd = 0
	}
	if dd > 1 {
		dd = 1
	}
	l.drawdown = dd
	if dd > l.maxDD {
		l.maxDD = dd
	}

	l.band = l.ladder.Select(dd)
}

// SetPeriodPnL feeds the daily/weekly circuit breakers. Values are signed
// fractions (-0.02 = down 2% on the period). Period accounting is the
// caller's concern: live loops reset at their own day/week boundaries, the
// simulator derives both from its equity curve.
func (l *Ledger) SetPeriodPnL(dailyPct, weeklyPct float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dailyPnLPct = dailyPct
	l.weeklyPnLPct = weeklyPct
}

// RegisterOpen records that a trade was actually placed. The gate never
// calls this itself: "may I trade" and "I did trade" are separate steps so
// decisions stay side-effect free for dry runs and simulation.
func (l *Ledger) RegisterOpen(symbol, platform string, dir market.Direction, riskPct float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.openByPlatform[platform]++
	l.openBySymbol[symbol] = append(l.openBySymbol[symbol], OpenPosition{
		Platform:  platform,
		Direction: dir,
	})
	if riskPct > 0 {
		l.openRiskPct += riskPct
	}
}

// RegisterClose reverses the bookkeeping of a RegisterOpen with matching
// arguments. A close that was never opened is ignored rather than driving
// the counters negative.
func (l *Ledger) RegisterClose(symbol, platform string, dir market.Direction, riskPct float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n := l.openByPlatform[platform]; n > 0 {
		l.openByPlatform[platform] = n - 1
	}

	open := l.openBySymbol[symbol]
	for i, p := range open {
		if p.Platform == platform && p.Direction == dir {
			l.openBySymbol[symbol] = append(open[:i], open[i+1:]...)
			break
		}
	}
	if len(l.openBySymbol[symbol]) == 0 {
		delete(l.openBySymbol, symbol)
	}

	if riskPct > 0 {
		l.openRiskPct -= riskPct
		if l.openRiskPct < 0 {
			l.openRiskPct = 0
		}
	}
}

// TradingAllowed applies the hard halt plus the PnL brakes. The brakes can
// block trading even when drawdown alone would not.
func (l *Ledger) TradingAllowed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tradingAllowedLocked()
}

func (l *Ledger) tradingAllowedLocked() bool {
	if !l.band.Policy.AllowNewTrades {
		return false
	}
	if l.brakes.MaxDailyLossPct > 0 && l.dailyPnLPct <= -l.brakes.MaxDailyLossPct {
		return false
	}
	if l.brakes.MaxWeeklyLossPct > 0 && l.weeklyPnLPct <= -l.brakes.MaxWeeklyLossPct {
		return false
	}
	return true
}

// ActivePolicy returns the policy currently in force.
func (l *Ledger) ActivePolicy() Policy {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.band.Policy
}

// RiskScale returns the per-trade risk multiplier of the active band
// (1.0 -> 0.75 -> 0.5 -> 0.25 -> 0 down the ladder).
func (l *Ledger) RiskScale() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.band.RiskScale
}

func (l *Ledger) Drawdown() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawdown
}

func (l *Ledger) OpenRiskPct() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.openRiskPct
}

// OpenTradesOn returns the number of open trades on the given platform.
func (l *Ledger) OpenTradesOn(platform string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.openByPlatform[platform]
}

// PositionsFor returns a copy of the open positions for a symbol across all
// platforms.
func (l *Ledger) PositionsFor(symbol string) []OpenPosition {
	l.mu.Lock()
	defer l.mu.Unlock()
	open := l.openBySymbol[symbol]
	out := make([]OpenPosition, len(open))
	copy(out, open)
	return out
}

// Snapshot returns a copy of the ledger state for reporting.
func (l *Ledger) Snapshot() State {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := 0
	for _, n := range l.openByPlatform {
		total += n
	}
	return State{
		Equity:       l.equityNow,
		EquityPeak:   l.equityPeak,
		Drawdown:     l.drawdown,
		MaxDrawdown:  l.maxDD,
		DailyPnLPct:  l.dailyPnLPct,
		WeeklyPnLPct: l.weeklyPnLPct,
		OpenRiskPct:  l.openRiskPct,
		OpenTrades:   total,
		Policy:       l.band.Policy,
		RiskScale:    l.band.RiskScale,
		Halted:       !l.band.Policy.AllowNewTrades,
	}
}
