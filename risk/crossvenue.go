package risk

import "github.com/quantfort/riskgate/market"

// CrossRule encodes a cross-asset hedge constraint: while a position
// matching If is open anywhere, candidates for Then.Symbol are only allowed
// in Then.AllowDirection.
//
// Example: "if long EUR_USD, only allow BTC_USD short" keeps the book from
// stacking the same macro view across venues.
type CrossRule struct {
	IfSymbol       string
	IfDirection    market.Direction
	ThenSymbol     string
	AllowDirection market.Direction
}

// Coordinator evaluates the cross-venue rule set against the ledger's open
// positions. It is consulted by the gate; it holds no position state itself.
type Coordinator struct {
	rules []CrossRule
}

func NewCoordinator(rules []CrossRule) *Coordinator {
	return &Coordinator{rules: rules}
}

// Check returns (ReasonOK, true) when no rule blocks the candidate.
// Absence of a matching rule, or no conflicting open position, is a
// pass-through.
func (c *Coordinator) Check(ledger *Ledger, cand Candidate) (Reason, bool) {
	if c == nil || len(c.rules) == 0 {
		return ReasonOK, true
	}

	for _, r := range c.rules {
		if r.ThenSymbol != cand.Symbol {
			continue
		}
		if !hasOpen(ledger.PositionsFor(r.IfSymbol), r.IfDirection) {
			continue
		}
		if cand.Direction != r.AllowDirection {
			return CrossRuleReason(r.IfSymbol, r.ThenSymbol), false
		}
	}
	return ReasonOK, true
}

func hasOpen(positions []OpenPosition, dir market.Direction) bool {
	for _, p := range positions {
		if p.Direction == dir {
			return true
		}
	}
	return false
}
