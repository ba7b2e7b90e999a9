// Package stops computes trailing stop-loss tightening. Compute is a pure
// function of a position snapshot: the caller owns persisting the returned
// stop as the position's new current stop.
package stops

import (
	"math"
	"time"

	"github.com/quantfort/riskgate/market"
)

// Snapshot is a position's state at one evaluation instant, rebuilt from
// live or backtest state each cycle. CurrentStop is the one field the caller
// must carry forward between cycles.
//
// Swing, Liquidity and ATR are optional collaborator outputs: a nil pointer
// drops the corresponding candidate rather than failing the calculation.
type Snapshot struct {
	Symbol       string
	Direction    market.Direction
	EntryPrice   float64
	CurrentPrice float64
	InitialStop  float64
	CurrentStop  float64
	OpenTime     time.Time
	Now          time.Time

	Swing     *float64 // last confirmed swing low (long) / high (short)
	Liquidity *float64 // last liquidity level below (long) / above (short)
	ATR       *float64 // current average true range, price units

	Momentum bool // momentum capability says the move is still running
}

// RLevel locks LockR of profit once the position has reached ThresholdR.
type RLevel struct {
	ThresholdR float64
	LockR      float64
}

// Params are the trailing-stop constants. Pip-valued fields are interpreted
// through the pip size passed to Compute.
type Params struct {
	RLadder             []RLevel
	MomentumBonusR      float64       // extra lock-in when Snapshot.Momentum is set
	ATRMultiplier       float64       // structure candidate: swing -/+ ATR*mult
	LiquidityBufferPips float64       // liquidity candidate: level -/+ buffer
	SoftTightenAge      time.Duration // stale-position tightening kicks in after this
	SoftTightenR        float64       // how far the soft tighten moves toward entry
	MinTighteningPips   float64       // ignore improvements smaller than this
	MarketBufferPips    float64       // never place the stop closer to market than this
}

func DefaultParams() Params {
	return Params{
		RLadder: []RLevel{
			{ThresholdR: 1, LockR: 0},
			{ThresholdR: 2, LockR: 1},
			{ThresholdR: 3, LockR: 2},
		},
		MomentumBonusR:      0.2,
		ATRMultiplier:       1.5,
		LiquidityBufferPips: 2,
		SoftTightenAge:      4 * time.Hour,
		SoftTightenR:        0.2,
		MinTighteningPips:   1,
		MarketBufferPips:    1,
	}
}

// Compute returns the tightened stop for the snapshot, or (CurrentStop,
// false) when no update should be made. It never widens risk: the result is
// clamped to the initial stop on the risk side, and an update is skipped
// when the improvement over the current stop is below MinTighteningPips or
// the new stop would sit within MarketBufferPips of the market price.
//
// The function is idempotent and never errors; any ambiguity (missing
// optional inputs, NaN arithmetic) simply omits that candidate.
func Compute(s Snapshot, pipSize float64, p Params) (float64, bool) {
	sign := s.Direction.Sign()
	if sign == 0 || !(pipSize > 0) {
		return s.CurrentStop, false
	}

	r := math.Abs(s.EntryPrice - s.InitialStop)
	if !(r > 0) { // zero, negative or NaN initial risk: nothing to trail
		return s.CurrentStop, false
	}
	openR := s.Direction.Favorable(s.EntryPrice, s.CurrentPrice) / r

	var candidates []float64

	// R-ladder: lock in profit at fixed multiples of initial risk.
	lock, hit := ladderLock(p.RLadder, openR)
	if hit {
		if s.Momentum {
			lock += p.MomentumBonusR
		}
		candidates = append(candidates, s.EntryPrice+sign*lock*r)
	}

	// Structure: behind the last swing, padded by ATR.
	if s.Swing != nil && s.ATR != nil && *s.ATR > 0 && p.ATRMultiplier > 0 {
		candidates = append(candidates, *s.Swing-sign*(*s.ATR*p.ATRMultiplier))
	}

	// Liquidity: just beyond the last liquidity level.
	if s.Liquidity != nil {
		candidates = append(candidates, *s.Liquidity-sign*p.LiquidityBufferPips*pipSize)
	}

	// Time-soft: stale and unconfirmed positions get nudged toward entry.
	if p.SoftTightenAge > 0 && !s.OpenTime.IsZero() && !s.Now.IsZero() &&
		s.Now.Sub(s.OpenTime) >= p.SoftTightenAge && openR < 1 {
		candidates = append(candidates, s.InitialStop+sign*p.SoftTightenR*r)
	}

	if len(candidates) == 0 {
		return s.CurrentStop, false
	}

	next := s.Direction.Tightest(candidates...)

	// Never loosen past the initial stop.
	if s.Direction.Tighter(s.InitialStop, next) {
		next = s.InitialStop
	}

	// Skip micro-adjustments; written NaN-safe (a NaN comparison is false).
	improvement := sign * (next - s.CurrentStop)
	if !(improvement >= p.MinTighteningPips*pipSize) {
		return s.CurrentStop, false
	}

	// Keep the stop out of the spread/slippage zone around the market.
	distanceToMarket := sign * (s.CurrentPrice - next)
	if !(distanceToMarket >= p.MarketBufferPips*pipSize) {
		return s.CurrentStop, false
	}

	return next, true
}

// ladderLock returns the lock-in for the highest ladder threshold reached.
func ladderLock(ladder []RLevel, openR float64) (lockR float64, hit bool) {
	for _, lvl := range ladder {
		if openR >= lvl.ThresholdR {
			lockR = lvl.LockR
			hit = true
		}
	}
	return lockR, hit
}
