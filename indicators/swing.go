package indicators

import "github.com/quantfort/riskgate/market"

// Swing tracks confirmed swing highs and lows from a bar stream. A bar is a
// swing low when its low is the lowest of itself and `strength` bars on each
// side (symmetrically for highs), so pivots confirm with a `strength`-bar
// delay. That delay is what makes the output safe to feed a trailing stop:
// only structure the market has already rejected from is used.
type Swing struct {
	strength int
	window   []market.Candle

	lastLow  float64
	lastHigh float64
	haveLow  bool
	haveHigh bool
}

// NewSwing creates a swing tracker with the given pivot strength (bars on
// each side of the pivot). Strength 2 is the conventional default.
func NewSwing(strength int) *Swing {
	if strength <= 0 {
		strength = 2
	}
	return &Swing{strength: strength}
}

func (s *Swing) Reset() {
	s.window = s.window[:0]
	s.haveLow = false
	s.haveHigh = false
}

func (s *Swing) Update(c market.Candle) {
	s.window = append(s.window, c)
	span := 2*s.strength + 1
	if len(s.window) > span {
		s.window = s.window[len(s.window)-span:]
	}
	if len(s.window) < span {
		return
	}

	pivot := s.window[s.strength]

	isLow, isHigh := true, true
	for i, b := range s.window {
		if i == s.strength {
			continue
		}
		if b.Low <= pivot.Low {
			isLow = false
		}
		if b.High >= pivot.High {
			isHigh = false
		}
	}

	if isLow {
		s.lastLow = pivot.Low
		s.haveLow = true
	}
	if isHigh {
		s.lastHigh = pivot.High
		s.haveHigh = true
	}
}

// LastLow returns the most recent confirmed swing low.
func (s *Swing) LastLow() (float64, bool) {
	return s.lastLow, s.haveLow
}

// LastHigh returns the most recent confirmed swing high.
func (s *Swing) LastHigh() (float64, bool) {
	return s.lastHigh, s.haveHigh
}
