package market

import (
	"fmt"
	"strings"
)

// Direction: +1 long, -1 short.
//
// All price-delta arithmetic in the engine goes through the helpers below so
// the long/short sign handling lives in exactly one place.
type Direction int8

const (
	Long  Direction = +1
	Short Direction = -1
)

// ParseDirection accepts the order-side spellings used by broker payloads
// ("BUY"/"SELL") as well as the position spellings ("LONG"/"SHORT").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "LONG":
		return Long, nil
	case "SELL", "SHORT":
		return Short, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "UNKNOWN"
	}
}

// Side returns the order-side spelling ("BUY"/"SELL").
func (d Direction) Side() string {
	if d == Long {
		return "BUY"
	}
	return "SELL"
}

func (d Direction) Opposite() Direction {
	return -d
}

// Sign returns +1.0 for longs, -1.0 for shorts.
func (d Direction) Sign() float64 {
	return float64(d)
}

// Favorable returns the signed price move from entry in the direction's
// favor: positive means the position is in profit.
func (d Direction) Favorable(entry, current float64) float64 {
	return d.Sign() * (current - entry)
}

// Tighter reports whether candidate is a tighter stop than reference for
// this direction (closer to, or past, the market from the risk side).
func (d Direction) Tighter(candidate, reference float64) bool {
	return d.Sign()*(candidate-reference) > 0
}

// Tightest returns the most protective of the given stop candidates:
// the maximum for longs, the minimum for shorts.
func (d Direction) Tightest(candidates ...float64) float64 {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if d.Tighter(c, best) {
			best = c
		}
	}
	return best
}
