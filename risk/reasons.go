package risk

import "strings"

// Reason identifies why the gate rejected (or passed) a candidate. Reasons
// are advisory values returned to the caller, never errors: the gate must be
// safe to call speculatively without crashing a trading loop.
type Reason string

const (
	ReasonOK                     Reason = "ok"
	ReasonRiskHaltOrBrake        Reason = "risk_halt_or_brake"
	ReasonPlatformTradeCap       Reason = "platform_trade_cap"
	ReasonMissingRegime          Reason = "missing_regime"
	ReasonRegimeDisabled         Reason = "regime_disabled"
	ReasonOpenRiskCap            Reason = "open_risk_cap"
	ReasonDuplicateSameDirection Reason = "duplicate_same_direction"
	ReasonTriageBlocked          Reason = "triage_blocked"
	ReasonUnknownStrategy        Reason = "unknown_strategy"
	ReasonInvalidStopDistance    Reason = "invalid_stop_distance"
	ReasonSizeBelowMinimum       Reason = "size_below_minimum"
)

const crossRulePrefix = "cross_rule_blocked_"

// CrossRuleReason builds the parameterized rejection for a cross-venue rule,
// e.g. cross_rule_blocked_EUR_USD_to_BTC_USD.
func CrossRuleReason(ifSymbol, thenSymbol string) Reason {
	return Reason(crossRulePrefix + ifSymbol + "_to_" + thenSymbol)
}

// IsCrossRule reports whether r is one of the parameterized cross-venue
// rejections.
func (r Reason) IsCrossRule() bool {
	return strings.HasPrefix(string(r), crossRulePrefix)
}

// Class collapses parameterized reasons to a stable bucket for counting:
// every cross-rule rejection maps to "cross_rule_blocked", everything else
// maps to itself.
func (r Reason) Class() string {
	if r.IsCrossRule() {
		return "cross_rule_blocked"
	}
	return string(r)
}
