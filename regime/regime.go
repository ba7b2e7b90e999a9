// Package regime defines the trend/volatility market classification the
// admission gate consults before sizing a trade. Classification itself is an
// external capability: the engine only consumes labels, it never derives
// them from price data.
package regime

import (
	"fmt"
	"strings"
)

type Trend string

const (
	Bull  Trend = "BULL"
	Bear  Trend = "BEAR"
	Range Trend = "RANGE"
)

type Volatility string

const (
	VolLow     Volatility = "LOW"
	VolNormal  Volatility = "NORMAL"
	VolHigh    Volatility = "HIGH"
	VolExtreme Volatility = "EXTREME"
)

// Regime is a symbol's current market classification.
type Regime struct {
	Trend Trend
	Vol   Volatility
}

func (r Regime) String() string {
	return string(r.Trend) + "/" + string(r.Vol)
}

func ParseTrend(s string) (Trend, error) {
	switch Trend(strings.ToUpper(strings.TrimSpace(s))) {
	case Bull, Bear, Range:
		return Trend(strings.ToUpper(strings.TrimSpace(s))), nil
	}
	return "", fmt.Errorf("unknown trend %q", s)
}

func ParseVolatility(s string) (Volatility, error) {
	switch Volatility(strings.ToUpper(strings.TrimSpace(s))) {
	case VolLow, VolNormal, VolHigh, VolExtreme:
		return Volatility(strings.ToUpper(strings.TrimSpace(s))), nil
	}
	return "", fmt.Errorf("unknown volatility %q", s)
}

// Classifier supplies the current regime for a symbol. The second return is
// false when the symbol has no classification; the gate treats that as a
// conservative rejection (never trade blind).
type Classifier interface {
	Classify(symbol string) (Regime, bool)
}

// Table is a static symbol -> regime map, the Classifier used by backtests
// and tests. Live deployments plug in a real classifier.
type Table map[string]Regime

func (t Table) Classify(symbol string) (Regime, bool) {
	r, ok := t[symbol]
	return r, ok
}
