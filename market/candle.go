package market

import (
	"math"
	"time"
)

// Candle represents OHLC (Open, High, Low, Close) candlestick data.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Valid reports whether the candle can be used for fills and exit checks.
// Feeds occasionally contain half-written bars (zero or NaN fields, inverted
// ranges); the simulator skips those rather than aborting a run.
func (c Candle) Valid() bool {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return c.High >= c.Low
}

// Contains reports whether price falls within the candle's [low, high] range.
func (c Candle) Contains(price float64) bool {
	return price >= c.Low && price <= c.High
}
