package risk

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/quantfort/riskgate/market"
	"github.com/quantfort/riskgate/regime"
)

// Candidate is a proposed trade. Candidates are created per opportunity and
// consumed immediately by the gate; they are not retained.
type Candidate struct {
	StrategyID    string
	Symbol        string
	Platform      string
	Direction     market.Direction
	EntryPrice    float64
	StopLossPrice float64
}

// Decision is the gate's verdict. RiskPct and Size are only meaningful when
// Allowed is true.
type Decision struct {
	Allowed bool
	Reason  Reason
	RiskPct float64
	Size    float64
}

func reject(r Reason) Decision {
	return Decision{Reason: r}
}

// StrategyRanker is the external priority metadata consulted in triage mode.
// known=false means the strategy id has never been ranked at all.
type StrategyRanker interface {
	TopTier(strategyID string) (top bool, known bool)
}

// RankTable is a static StrategyRanker: presence means known, the value
// marks top-tier.
type RankTable map[string]bool

func (t RankTable) TopTier(strategyID string) (top bool, known bool) {
	top, known = t[strategyID]
	return top, known
}

// Gate decides whether a candidate trade may be opened and at what size. It
// composes the ledger, the regime classifier and the cross-venue rules, and
// has no side effects of its own: after actually placing an order the caller
// must RegisterOpen on the ledger.
type Gate struct {
	ledger      *Ledger
	classifier  regime.Classifier
	multipliers regime.Multipliers
	coord       *Coordinator
	ranks       StrategyRanker
	log         zerolog.Logger
}

// GateConfig wires a Gate. Classifier is required; Coordinator and Ranker
// are optional collaborators (a nil Coordinator passes everything, a nil
// Ranker blocks everything under triage -- degrading conservatively, not
// permissively).
type GateConfig struct {
	Ledger      *Ledger
	Classifier  regime.Classifier
	Multipliers regime.Multipliers
	Coordinator *Coordinator
	Ranker      StrategyRanker
	Logger      zerolog.Logger
}

func NewGate(cfg GateConfig) *Gate {
	m := cfg.Multipliers
	if m == nil {
		m = regime.DefaultMultipliers()
	}
	return &Gate{
		ledger:      cfg.Ledger,
		classifier:  cfg.Classifier,
		multipliers: m,
		coord:       cfg.Coordinator,
		ranks:       cfg.Ranker,
		log:         cfg.Logger.With().Str("component", "gate").Logger(),
	}
}

// CanOpenTrade evaluates the candidate against the current ledger state.
// Checks run in a fixed order and the first failure wins. Malformed inputs
// (NaN prices, inverted stops) surface as rejections, never panics, so the
// gate is safe to call speculatively.
//
// Admission is idempotent for a frozen ledger: the same candidate against
// unchanged state always yields the same decision.
func (g *Gate) CanOpenTrade(c Candidate, accountEquity float64) Decision {
	d := g.evaluate(c, accountEquity)
	if !d.Allowed {
		g.log.Debug().
			Str("strategy", c.StrategyID).
			Str("symbol", c.Symbol).
			Str("platform", c.Platform).
			Str("side", c.Direction.Side()).
			Str("reason", string(d.Reason)).
			Msg("candidate rejected")
	}
	return d
}

func (g *Gate) evaluate(c Candidate, accountEquity float64) Decision {
	// 1. Hard halt / PnL brakes.
	if !g.ledger.TradingAllowed() {
		return reject(ReasonRiskHaltOrBrake)
	}

	policy := g.ledger.ActivePolicy()

	// 2. Per-platform open-trade cap.
	if g.ledger.OpenTradesOn(c.Platform) >= policy.MaxTradesPerPlatform {
		return reject(ReasonPlatformTradeCap)
	}

	// 3. Regime lookup. No classification means no trade.
	reg, ok := g.classifier.Classify(c.Symbol)
	if !ok {
		return reject(ReasonMissingRegime)
	}
	mult := g.multipliers.Multiplier(reg)
	if mult == 0 {
		return reject(ReasonRegimeDisabled)
	}

	// 4. Proposed risk against the open-risk cap. The running total may
	// drift above the cap after admission as markets move; that drift is
	// tolerated, only new admissions are bounded.
	proposed := policy.BaseRiskPerTradePct * mult * g.ledger.RiskScale()
	if g.ledger.OpenRiskPct()+proposed > policy.MaxOpenRiskPct {
		return reject(ReasonOpenRiskCap)
	}

	// 5. Duplicate-direction check across all platforms: no pyramiding into
	// the same market view from two venues.
	for _, p := range g.ledger.PositionsFor(c.Symbol) {
		if p.Direction == c.Direction {
			return reject(ReasonDuplicateSameDirection)
		}
	}

	// 6. Triage filter.
	if policy.TriageMode {
		if g.ranks == nil {
			return reject(ReasonTriageBlocked)
		}
		top, known := g.ranks.TopTier(c.StrategyID)
		if !known {
			return reject(ReasonUnknownStrategy)
		}
		if !top {
			return reject(ReasonTriageBlocked)
		}
	}

	// 7. Cross-venue rules; their reason propagates verbatim.
	if reason, ok := g.coord.Check(g.ledger, c); !ok {
		return reject(reason)
	}

	// 8. Position sizing.
	stopDistance := math.Abs(c.EntryPrice - c.StopLossPrice)
	if !(stopDistance > 0) { // also catches NaN
		return reject(ReasonInvalidStopDistance)
	}
	size := accountEquity * proposed / stopDistance
	if !(size > 0) {
		return reject(ReasonSizeBelowMinimum)
	}

	return Decision{Allowed: true, Reason: ReasonOK, RiskPct: proposed, Size: size}
}
