package regime

// Multipliers maps a regime to a risk multiplier in [0,1]. A multiplier of 0
// marks the regime untradeable. Regimes missing from the table resolve to 0,
// which keeps an incomplete config conservative rather than permissive.
type Multipliers map[Regime]float64

// Multiplier returns the risk multiplier for r, clamped to [0,1].
func (m Multipliers) Multiplier(r Regime) float64 {
	v, ok := m[r]
	if !ok || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// DefaultMultipliers is the stock trend x volatility table: full risk in
// calm trending markets, shaved risk in ranges and high volatility, nothing
// in extreme volatility.
func DefaultMultipliers() Multipliers {
	m := Multipliers{}
	for _, tr := range []Trend{Bull, Bear} {
		m[Regime{tr, VolLow}] = 1.0
		m[Regime{tr, VolNormal}] = 1.0
		m[Regime{tr, VolHigh}] = 0.5
		m[Regime{tr, VolExtreme}] = 0
	}
	m[Regime{Range, VolLow}] = 0.5
	m[Regime{Range, VolNormal}] = 0.5
	m[Regime{Range, VolHigh}] = 0.25
	m[Regime{Range, VolExtreme}] = 0
	return m
}
