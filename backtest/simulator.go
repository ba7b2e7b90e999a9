package backtest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/quantfort/riskgate/id"
	"github.com/quantfort/riskgate/indicators"
	"github.com/quantfort/riskgate/journal"
	"github.com/quantfort/riskgate/market"
	"github.com/quantfort/riskgate/risk"
	"github.com/quantfort/riskgate/stops"
)

// TradeState is the lifecycle of one simulated trade.
type TradeState int8

const (
	StateWaitingFill TradeState = iota
	StateOpen
	StatePartiallyClosed
	StateClosed
)

func (s TradeState) String() string {
	switch s {
	case StateWaitingFill:
		return "WAITING_FILL"
	case StateOpen:
		return "OPEN"
	case StatePartiallyClosed:
		return "PARTIALLY_CLOSED"
	case StateClosed:
		return "CLOSED"
	}
	return "UNKNOWN"
}

// Exit reasons recorded on trades.
const (
	ExitStop      = "STOP"
	ExitTake      = "TAKE"
	ExitPartial   = "PARTIAL_TAKE"
	ExitEndOfData = "END_OF_DATA"
)

// PartialTP realizes Fraction of the original size once the position reaches
// RMultiple times its initial risk.
type PartialTP struct {
	RMultiple float64
	Fraction  float64
}

// Config drives one simulator run over a single instrument's bar series.
type Config struct {
	Instrument    string
	InitialEquity float64

	// SlippagePct scales the intrabar move that produced a fill; the scaled
	// amount is applied against the trader. CommissionPct is charged on the
	// notional of every leg.
	SlippagePct   float64
	CommissionPct float64

	PartialTPs    []PartialTP
	ATRPeriod     int
	SwingStrength int
	Trail         stops.Params

	// Momentum reports whether the symbol's move is still running; a nil
	// func means no momentum bonus is ever applied.
	Momentum func(symbol string) bool
}

// Trade is one realized (possibly partial) close.
type Trade struct {
	ID         string
	StrategyID string
	Symbol     string
	Platform   string
	Direction  market.Direction
	Units      float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	Reason     string
}

// EquityPoint is one bar-close mark on the equity curve.
type EquityPoint struct {
	Time     time.Time
	Equity   float64
	Drawdown float64
}

// Result is everything one run produced.
type Result struct {
	RunID       string
	Instrument  string
	Bars        int
	Skipped     int
	Start       time.Time
	End         time.Time
	Trades      []Trade
	EquityCurve []EquityPoint
	Rejections  map[risk.Reason]int
	Metrics     Metrics
}

// position is the simulator's per-trade state.
type position struct {
	id    string
	sig   Signal
	state TradeState

	units       float64 // remaining units
	totalUnits  float64 // units at fill, partial fractions are of this
	entryPrice  float64
	initialStop float64
	currentStop float64
	riskPct     float64
	openTime    time.Time
	partialsHit int // next PartialTPs index to check
}

// Simulator replays a bar series, admits signals through the gate and
// resolves fills, trailing stops and exits bar by bar.
type Simulator struct {
	cfg    Config
	ledger *risk.Ledger
	gate   *risk.Gate
	jrnl   journal.Journal
	log    zerolog.Logger

	pipSize float64
	atr     *indicators.ATR
	swing   *indicators.Swing

	cash      float64 // realized equity
	positions []*position
	pending   []*position
}

// NewSimulator wires a simulator. Gate and ledger are required; a nil
// journal records nothing.
func NewSimulator(cfg Config, ledger *risk.Ledger, gate *risk.Gate, jrnl journal.Journal, log zerolog.Logger) (*Simulator, error) {
	if ledger == nil || gate == nil {
		return nil, fmt.Errorf("simulator needs a ledger and a gate")
	}
	if !(cfg.InitialEquity > 0) {
		return nil, fmt.Errorf("initial equity must be positive, got %v", cfg.InitialEquity)
	}
	if jrnl == nil {
		jrnl = journal.Discard{}
	}
	if cfg.ATRPeriod <= 0 {
		cfg.ATRPeriod = 14
	}
	if cfg.SwingStrength <= 0 {
		cfg.SwingStrength = 2
	}
	if len(cfg.Trail.RLadder) == 0 {
		cfg.Trail = stops.DefaultParams()
	}

	// Partial levels must trigger nearest-first.
	sort.Slice(cfg.PartialTPs, func(i, j int) bool {
		return cfg.PartialTPs[i].RMultiple < cfg.PartialTPs[j].RMultiple
	})

	return &Simulator{
		cfg:     cfg,
		ledger:  ledger,
		gate:    gate,
		jrnl:    jrnl,
		log:     log.With().Str("component", "simulator").Logger(),
		pipSize: market.InstrumentPipSize(cfg.Instrument),
		atr:     indicators.NewATR(cfg.ATRPeriod),
		swing:   indicators.NewSwing(cfg.SwingStrength),
		cash:    cfg.InitialEquity,
	}, nil
}

// Run replays the candle series against the signal list and returns the run
// result. Signals are grouped by bar index; a signal whose bar never occurs
// is ignored. Run is deterministic for fixed inputs.
func (s *Simulator) Run(candles []market.Candle, signals []Signal) (*Result, error) {
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles to simulate")
	}

	res := &Result{
		RunID:      id.NewRunID(),
		Instrument: s.cfg.Instrument,
		Rejections: make(map[risk.Reason]int),
	}

	byBar := make(map[int][]Signal, len(signals))
	for _, sig := range signals {
		if sig.Symbol == "" {
			sig.Symbol = s.cfg.Instrument
		}
		byBar[sig.BarIndex] = append(byBar[sig.BarIndex], sig)
	}

	var prev market.Candle
	havePrev := false
	dayAnchor, weekAnchor := s.cfg.InitialEquity, s.cfg.InitialEquity
	var curDay time.Time
	var curWeekYear, curWeekNum int

	for i, c := range candles {
		if !c.Valid() {
			res.Skipped++
			continue
		}
		res.Bars++
		if res.Start.IsZero() {
			res.Start = c.Time
		}
		res.End = c.Time

		// Period brake anchors roll at day and ISO-week boundaries.
		day := c.Time.Truncate(24 * time.Hour)
		if day != curDay {
			curDay = day
			dayAnchor = s.markEquity(prev, havePrev)
		}
		if year, week := c.Time.ISOWeek(); year != curWeekYear || week != curWeekNum {
			curWeekYear, curWeekNum = year, week
			weekAnchor = s.markEquity(prev, havePrev)
		}

		// (a) fills for orders admitted on earlier bars.
		s.attemptFills(c, prev, havePrev)

		// (b) trailing-stop recompute against the bar open; the bar's own
		// range has not printed yet when the stop moves.
		s.updateStops(c)

		// (c)+(d) exits, stop-first on conflicts, partials before the full
		// take-profit.
		s.resolveExits(c, res)

		// Admission for this bar's signals. Decisions use marked equity and
		// the ledger state after this bar's exits.
		for _, sig := range byBar[i] {
			s.admit(sig, c, res)
		}

		// (e) mark to market, feed the ledger, record the curve point.
		equity := s.markToMarket(c.Close)
		s.ledger.UpdateEquity(equity)
		if dayAnchor > 0 && weekAnchor > 0 {
			s.ledger.SetPeriodPnL((equity-dayAnchor)/dayAnchor, (equity-weekAnchor)/weekAnchor)
		}
		pt := EquityPoint{Time: c.Time, Equity: equity, Drawdown: s.ledger.Drawdown()}
		res.EquityCurve = append(res.EquityCurve, pt)
		if err := s.jrnl.RecordEquity(journal.EquitySnapshot{
			RunID: res.RunID, Time: pt.Time, Equity: pt.Equity, Drawdown: pt.Drawdown,
		}); err != nil {
			return nil, fmt.Errorf("recording equity: %w", err)
		}

		// (f) indicators consume the completed bar.
		s.atr.Update(c)
		s.swing.Update(c)
		prev = c
		havePrev = true
	}

	// End of data: open positions force-exit at the final close, unfilled
	// orders are discarded.
	if havePrev {
		forced := false
		for _, p := range s.positions {
			if p.state == StateOpen || p.state == StatePartiallyClosed {
				s.closeUnits(p, p.units, prev.Close, prev.Time, ExitEndOfData, res)
				forced = true
			}
		}
		if forced {
			equity := s.cash
			s.ledger.UpdateEquity(equity)
			res.EquityCurve[len(res.EquityCurve)-1] = EquityPoint{
				Time: prev.Time, Equity: equity, Drawdown: s.ledger.Drawdown(),
			}
		}
	}
	s.pending = nil

	res.Metrics = ComputeMetrics(res.Trades, res.EquityCurve, s.cfg.InitialEquity)
	s.log.Info().
		Str("run", res.RunID).
		Int("bars", res.Bars).
		Int("trades", len(res.Trades)).
		Float64("end_equity", res.Metrics.EndEquity).
		Msg("run complete")
	return res, nil
}

// admit runs a signal through the gate and queues a pending order on
// success. Rejections are counted, never traded.
func (s *Simulator) admit(sig Signal, c market.Candle, res *Result) {
	entryRef := c.Close
	if sig.OrderType == OrderLimit {
		entryRef = sig.LimitPrice
	}

	d := s.gate.CanOpenTrade(risk.Candidate{
		StrategyID:    sig.StrategyID,
		Symbol:        sig.Symbol,
		Platform:      sig.Platform,
		Direction:     sig.Direction,
		EntryPrice:    entryRef,
		StopLossPrice: sig.StopLoss,
	}, s.markToMarket(c.Close))
	if !d.Allowed {
		res.Rejections[d.Reason]++
		return
	}

	s.pending = append(s.pending, &position{
		id:      id.NewTradeID(),
		sig:     sig,
		state:   StateWaitingFill,
		units:   d.Size,
		riskPct: d.RiskPct,
	})
}

// attemptFills fills pending orders against the bar: market at the open plus
// adverse slippage, limit only when the bar trades through the price.
func (s *Simulator) attemptFills(c, prev market.Candle, havePrev bool) {
	remaining := s.pending[:0]
	for _, p := range s.pending {
		var fill float64
		switch p.sig.OrderType {
		case OrderMarket:
			if !havePrev {
				remaining = append(remaining, p)
				continue
			}
			fill = c.Open + p.sig.Direction.Sign()*s.slip(math.Abs(c.Open-prev.Close))
		case OrderLimit:
			if !c.Contains(p.sig.LimitPrice) {
				remaining = append(remaining, p)
				continue
			}
			fill = p.sig.LimitPrice + p.sig.Direction.Sign()*s.slip(math.Abs(p.sig.LimitPrice-c.Open))
		}

		p.state = StateOpen
		p.entryPrice = fill
		p.initialStop = p.sig.StopLoss
		p.currentStop = p.sig.StopLoss
		p.totalUnits = p.units
		p.openTime = c.Time
		s.cash -= s.commission(p.units, fill)
		s.ledger.RegisterOpen(p.sig.Symbol, p.sig.Platform, p.sig.Direction, p.riskPct)
		s.positions = append(s.positions, p)

		s.log.Debug().
			Str("trade", p.id).
			Str("symbol", p.sig.Symbol).
			Str("side", p.sig.Direction.Side()).
			Float64("fill", fill).
			Float64("units", p.units).
			Msg("filled")
	}
	s.pending = remaining
}

// updateStops recomputes the trailing stop for every open position.
func (s *Simulator) updateStops(c market.Candle) {
	for _, p := range s.positions {
		if p.state != StateOpen && p.state != StatePartiallyClosed {
			continue
		}

		snap := stops.Snapshot{
			Symbol:       p.sig.Symbol,
			Direction:    p.sig.Direction,
			EntryPrice:   p.entryPrice,
			CurrentPrice: c.Open,
			InitialStop:  p.initialStop,
			CurrentStop:  p.currentStop,
			OpenTime:     p.openTime,
			Now:          c.Time,
		}
		if s.atr.Ready() {
			v := s.atr.Value()
			snap.ATR = &v
		}
		if p.sig.Direction == market.Long {
			if low, ok := s.swing.LastLow(); ok {
				snap.Swing = &low
			}
		} else {
			if high, ok := s.swing.LastHigh(); ok {
				snap.Swing = &high
			}
		}
		if s.cfg.Momentum != nil {
			snap.Momentum = s.cfg.Momentum(p.sig.Symbol)
		}

		if next, ok := stops.Compute(snap, s.pipSize, s.cfg.Trail); ok {
			p.currentStop = next
		}
	}
}

// resolveExits walks open positions against the bar's range. A stop and a
// take-profit touched in the same bar resolve to the stop; partial levels
// only realize when the stop did not fire.
func (s *Simulator) resolveExits(c market.Candle, res *Result) {
	live := s.positions[:0]
	for _, p := range s.positions {
		if p.state != StateOpen && p.state != StatePartiallyClosed {
			continue
		}

		dir := p.sig.Direction
		r := math.Abs(p.entryPrice - p.initialStop)

		stopHit := p.currentStop != 0 && stopTouched(dir, p.currentStop, c)
		takeHit := p.sig.TakeProfit != 0 && takeTouched(dir, p.sig.TakeProfit, c)

		if stopHit {
			exit := p.currentStop
			if dir.Favorable(p.currentStop, c.Open) < 0 {
				exit = c.Open // gapped through the stop
			}
			exit -= dir.Sign() * s.slip(math.Abs(exit-c.Open))
			s.closeUnits(p, p.units, exit, c.Time, ExitStop, res)
			continue
		}

		// Partial levels nearest-first, then the full take-profit.
		for p.partialsHit < len(s.cfg.PartialTPs) && r > 0 {
			lvl := s.cfg.PartialTPs[p.partialsHit]
			price := p.entryPrice + dir.Sign()*lvl.RMultiple*r
			if !takeTouched(dir, price, c) {
				break
			}
			units := lvl.Fraction * p.totalUnits
			if units > p.units {
				units = p.units
			}
			exit := price - dir.Sign()*s.slip(math.Abs(price-c.Open))
			s.closeUnits(p, units, exit, c.Time, ExitPartial, res)
			p.partialsHit++
			if p.units <= 0 {
				break
			}
			p.state = StatePartiallyClosed
		}

		if p.units > 0 && takeHit {
			exit := p.sig.TakeProfit
			exit -= dir.Sign() * s.slip(math.Abs(exit-c.Open))
			s.closeUnits(p, p.units, exit, c.Time, ExitTake, res)
			continue
		}

		if p.units > 0 {
			live = append(live, p)
		}
	}
	s.positions = live
}

// closeUnits realizes PnL for part or all of a position, applying commission
// and recording a trade row.
func (s *Simulator) closeUnits(p *position, units, exit float64, t time.Time, reason string, res *Result) {
	if units <= 0 {
		return
	}

	pnl := p.sig.Direction.Sign() * (exit - p.entryPrice) * units
	pnl -= s.commission(units, exit)
	s.cash += pnl
	p.units -= units

	final := p.units <= 0
	if final {
		p.units = 0
		p.state = StateClosed
		s.ledger.RegisterClose(p.sig.Symbol, p.sig.Platform, p.sig.Direction, p.riskPct)
	}

	tr := Trade{
		ID:         p.id,
		StrategyID: p.sig.StrategyID,
		Symbol:     p.sig.Symbol,
		Platform:   p.sig.Platform,
		Direction:  p.sig.Direction,
		Units:      units,
		EntryPrice: p.entryPrice,
		ExitPrice:  exit,
		OpenTime:   p.openTime,
		CloseTime:  t,
		RealizedPL: pnl,
		Reason:     reason,
	}
	res.Trades = append(res.Trades, tr)

	if err := s.jrnl.RecordTrade(journal.TradeRecord{
		RunID:      res.RunID,
		TradeID:    id.NewTradeID(),
		StrategyID: tr.StrategyID,
		Instrument: tr.Symbol,
		Platform:   tr.Platform,
		Side:       tr.Direction.Side(),
		Units:      tr.Units,
		EntryPrice: tr.EntryPrice,
		ExitPrice:  tr.ExitPrice,
		OpenTime:   tr.OpenTime,
		CloseTime:  tr.CloseTime,
		RealizedPL: tr.RealizedPL,
		Reason:     tr.Reason,
	}); err != nil {
		s.log.Error().Err(err).Str("trade", tr.ID).Msg("journal write failed")
	}
}

// markToMarket values open positions at the given price on top of realized
// cash. Commission on the eventual exit is not anticipated.
func (s *Simulator) markToMarket(price float64) float64 {
	equity := s.cash
	for _, p := range s.positions {
		if p.state == StateOpen || p.state == StatePartiallyClosed {
			equity += p.sig.Direction.Sign() * (price - p.entryPrice) * p.units
		}
	}
	return equity
}

func (s *Simulator) markEquity(prev market.Candle, havePrev bool) float64 {
	if !havePrev {
		return s.cfg.InitialEquity
	}
	return s.markToMarket(prev.Close)
}

func (s *Simulator) slip(move float64) float64 {
	if !(move > 0) || !(s.cfg.SlippagePct > 0) {
		return 0
	}
	return s.cfg.SlippagePct * move
}

func (s *Simulator) commission(units, price float64) float64 {
	if !(s.cfg.CommissionPct > 0) {
		return 0
	}
	return s.cfg.CommissionPct * math.Abs(units*price)
}

func stopTouched(dir market.Direction, stop float64, c market.Candle) bool {
	if dir == market.Long {
		return c.Low <= stop
	}
	return c.High >= stop
}

func takeTouched(dir market.Direction, take float64, c market.Candle) bool {
	if dir == market.Long {
		return c.High >= take
	}
	return c.Low <= take
}
