// Package risk is the execution gatekeeper: it tracks account equity and
// drawdown, derives the active risk policy from a drawdown ladder, and
// decides whether a proposed trade may be opened at all and at what size.
package risk

// Policy is the set of limits in force at a given drawdown depth. Policies
// are immutable values selected from the ladder; they are replaced wholesale
// on equity updates, never mutated.
type Policy struct {
	Name                 string
	BaseRiskPerTradePct  float64 // fraction of equity risked per trade before scaling
	MaxOpenRiskPct       float64 // cap on summed open risk, fraction of equity
	MaxTradesPerPlatform int
	AllowNewTrades       bool
	TriageMode           bool // only top-tier strategies may open trades
}

// Band is one rung of the drawdown ladder: drawdown in [MinDrawdown,
// MaxDrawdown) selects Policy with per-trade risk scaled by RiskScale.
// MaxDrawdown <= 0 marks an open-ended terminal band.
type Band struct {
	MinDrawdown float64
	MaxDrawdown float64
	RiskScale   float64
	Policy      Policy
}

type Ladder []Band

// Ladder band names. HALTED is special-cased in a few places (reporting,
// the CLI) but the gate only ever looks at AllowNewTrades.
const (
	BandNormal     = "NORMAL"
	BandCaution    = "CAUTION"
	BandTriage     = "TRIAGE"
	BandDeepTriage = "DEEP_TRIAGE"
	BandHalted     = "HALTED"
)

// DefaultLadder returns the stock drawdown ladder:
//
//	0-5%    NORMAL       full risk
//	5-10%   CAUTION      0.75x risk
//	10-20%  TRIAGE       0.5x risk, triage mode
//	20-30%  DEEP_TRIAGE  0.25x risk, triage mode
//	>=30%   HALTED       no new trades
func DefaultLadder() Ladder {
	return Ladder{
		{
			MinDrawdown: 0, MaxDrawdown: 0.05, RiskScale: 1.0,
			Policy: Policy{
				Name:                 BandNormal,
				BaseRiskPerTradePct:  0.01,
				MaxOpenRiskPct:       0.05,
				MaxTradesPerPlatform: 3,
				AllowNewTrades:       true,
			},
		},
		{
			MinDrawdown: 0.05, MaxDrawdown: 0.10, RiskScale: 0.75,
			Policy: Policy{
				Name:                 BandCaution,
				BaseRiskPerTradePct:  0.01,
				MaxOpenRiskPct:       0.04,
				MaxTradesPerPlatform: 2,
				AllowNewTrades:       true,
			},
		},
		{
			MinDrawdown: 0.10, MaxDrawdown: 0.20, RiskScale: 0.5,
			Policy: Policy{
				Name:                 BandTriage,
				BaseRiskPerTradePct:  0.01,
				MaxOpenRiskPct:       0.03,
				MaxTradesPerPlatform: 1,
				AllowNewTrades:       true,
				TriageMode:           true,
			},
		},
		{
			MinDrawdown: 0.20, MaxDrawdown: 0.30, RiskScale: 0.25,
			Policy: Policy{
				Name:                 BandDeepTriage,
				BaseRiskPerTradePct:  0.01,
				MaxOpenRiskPct:       0.02,
				MaxTradesPerPlatform: 1,
				AllowNewTrades:       true,
				TriageMode:           true,
			},
		},
		{
			MinDrawdown: 0.30, MaxDrawdown: 0, RiskScale: 0,
			Policy: Policy{
				Name:                 BandHalted,
				BaseRiskPerTradePct:  0,
				MaxOpenRiskPct:       0,
				MaxTradesPerPlatform: 0,
				AllowNewTrades:       false,
			},
		},
	}
}

// Select returns the band matching the given drawdown fraction. Exactly one
// band matches any drawdown in [0,1] for a well-formed ladder; if the ladder
// has gaps the last band acts as the fallback.
func (l Ladder) Select(drawdown float64) Band {
	for _, b := range l {
		if drawdown >= b.MinDrawdown && (b.MaxDrawdown <= 0 || drawdown < b.MaxDrawdown) {
			return b
		}
	}
	return l[len(l)-1]
}
