package indicators

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/quantfort/riskgate/market"
)

func bar(o, h, l, c float64) market.Candle {
	return market.Candle{Time: time.Now(), Open: o, High: h, Low: l, Close: c}
}

func TestATRWarmup(t *testing.T) {
	t.Parallel()

	a := NewATR(3)
	assert.Equal(t, 4, a.Warmup())
	assert.False(t, a.Ready())
	assert.Equal(t, 0.0, a.Value())

	// Constant 10-point range bars.
	for i := 0; i < 4; i++ {
		a.Update(bar(100, 105, 95, 100))
	}
	assert.True(t, a.Ready())
	assert.InDelta(t, 10.0, a.Value(), 1e-9)
}

func TestATRWilderSmoothing(t *testing.T) {
	t.Parallel()

	a := NewATR(3)
	for i := 0; i < 4; i++ {
		a.Update(bar(100, 105, 95, 100))
	}

	// One 20-point bar: atr = (10*2 + 20) / 3.
	a.Update(bar(100, 110, 90, 100))
	assert.InDelta(t, 40.0/3, a.Value(), 1e-9)
}

func TestATRGapsUseTrueRange(t *testing.T) {
	t.Parallel()

	a := NewATR(2)
	a.Update(bar(100, 101, 99, 100))
	// Gap up: TR is high - prevClose = 15, not high - low = 5.
	a.Update(bar(110, 115, 110, 112))
	a.Update(bar(112, 113, 111, 112))

	assert.True(t, a.Ready())
	assert.InDelta(t, (15.0+2.0)/2, a.Value(), 1e-9)
}

func TestATRReset(t *testing.T) {
	t.Parallel()

	a := NewATR(2)
	for i := 0; i < 5; i++ {
		a.Update(bar(100, 105, 95, 100))
	}
	assert.True(t, a.Ready())

	a.Reset()
	assert.False(t, a.Ready())
	assert.Equal(t, 0.0, a.Value())
}

func TestATRDefaultPeriod(t *testing.T) {
	t.Parallel()

	a := NewATR(0)
	assert.Equal(t, "ATR(14)", a.Name())
}
