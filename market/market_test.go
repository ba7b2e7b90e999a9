package market

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want Direction
	}{
		{"BUY", Long},
		{"buy", Long},
		{"LONG", Long},
		{"SELL", Short},
		{"short", Short},
	}
	for _, tc := range cases {
		got, err := ParseDirection(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseDirection("sideways")
	assert.Error(t, err)
}

func TestDirectionHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BUY", Long.Side())
	assert.Equal(t, "SELL", Short.Side())
	assert.Equal(t, Short, Long.Opposite())
	assert.Equal(t, 1.0, Long.Sign())
	assert.Equal(t, -1.0, Short.Sign())

	// Favorable is signed profit distance.
	assert.InDelta(t, 0.0050, Long.Favorable(1.1000, 1.1050), 1e-12)
	assert.InDelta(t, 0.0050, Short.Favorable(1.1000, 1.0950), 1e-12)
	assert.InDelta(t, -0.0050, Short.Favorable(1.1000, 1.1050), 1e-12)
}

func TestDirectionTightest(t *testing.T) {
	t.Parallel()

	// Tighter means closer to market on the profit side.
	assert.True(t, Long.Tighter(1.1000, 1.0950))
	assert.False(t, Long.Tighter(1.0950, 1.1000))
	assert.True(t, Short.Tighter(1.0950, 1.1000))

	assert.Equal(t, 1.1000, Long.Tightest(1.0900, 1.1000, 1.0950))
	assert.Equal(t, 1.0900, Short.Tightest(1.0900, 1.1000, 1.0950))
}

func TestCandleValid(t *testing.T) {
	t.Parallel()

	good := Candle{Open: 1.1, High: 1.2, Low: 1.0, Close: 1.15}
	assert.True(t, good.Valid())

	bad := []Candle{
		{Open: 0, High: 1.2, Low: 1.0, Close: 1.1},
		{Open: 1.1, High: math.NaN(), Low: 1.0, Close: 1.1},
		{Open: 1.1, High: 1.0, Low: 1.2, Close: 1.1}, // inverted range
		{Open: -1, High: 1.2, Low: 1.0, Close: 1.1},
	}
	for i, c := range bad {
		assert.False(t, c.Valid(), "case %d", i)
	}
}

func TestCandleContains(t *testing.T) {
	t.Parallel()

	c := Candle{Open: 1.1, High: 1.2, Low: 1.0, Close: 1.15}
	assert.True(t, c.Contains(1.0))
	assert.True(t, c.Contains(1.2))
	assert.True(t, c.Contains(1.05))
	assert.False(t, c.Contains(0.99))
	assert.False(t, c.Contains(1.21))
}

func TestPipSize(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0001, PipSize(-4), 1e-12)
	assert.InDelta(t, 0.01, PipSize(-2), 1e-12)
	assert.InDelta(t, 1.0, PipSize(0), 1e-12)

	assert.InDelta(t, 0.0001, InstrumentPipSize("EUR_USD"), 1e-12)
	assert.InDelta(t, 0.01, InstrumentPipSize("USD_JPY"), 1e-12)
	// Unknown instruments default to the FX-major pip.
	assert.InDelta(t, 0.0001, InstrumentPipSize("ZZZ_ZZZ"), 1e-12)
}

func TestLoadCandlesCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bars.csv")
	data := `time,open,high,low,close,volume
2025-03-03T09:00:00Z,1.1000,1.1010,1.0990,1.1005,1200
2025-03-03T10:00:00Z,1.1005,1.1015,1.1000,1.1010,900
not-a-time,1.1,1.2,1.0,1.1
2025-03-03T11:00:00Z,1.1010,bogus,1.1000,1.1005
2025-03-03T12:00:00Z,1.1005,1.1010,1.0995,1.1000,700
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	candles, skipped, err := LoadCandlesCSV(path)
	require.NoError(t, err)

	assert.Len(t, candles, 3)
	assert.Equal(t, 2, skipped)
	assert.Equal(t, time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC), candles[0].Time)
	assert.Equal(t, 1.1005, candles[0].Close)
	assert.Equal(t, 1200.0, candles[0].Volume)
}

func TestLoadCandlesCSVAllBadRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("time,open,high,low,close\njunk,1,2,3\n"), 0o644))

	_, _, err := LoadCandlesCSV(path)
	assert.Error(t, err)
}

func TestLoadCandlesCSVMissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := LoadCandlesCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
