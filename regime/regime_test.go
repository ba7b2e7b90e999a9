package regime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrend(t *testing.T) {
	t.Parallel()

	got, err := ParseTrend(" bull ")
	require.NoError(t, err)
	assert.Equal(t, Bull, got)

	_, err = ParseTrend("sideways")
	assert.Error(t, err)
}

func TestParseVolatility(t *testing.T) {
	t.Parallel()

	got, err := ParseVolatility("extreme")
	require.NoError(t, err)
	assert.Equal(t, VolExtreme, got)

	_, err = ParseVolatility("calm")
	assert.Error(t, err)
}

func TestTableClassify(t *testing.T) {
	t.Parallel()

	tbl := Table{"EUR_USD": {Trend: Bull, Vol: VolNormal}}

	r, ok := tbl.Classify("EUR_USD")
	assert.True(t, ok)
	assert.Equal(t, "BULL/NORMAL", r.String())

	_, ok = tbl.Classify("GBP_USD")
	assert.False(t, ok)
}

func TestDefaultMultipliers(t *testing.T) {
	t.Parallel()

	m := DefaultMultipliers()

	cases := []struct {
		regime Regime
		want   float64
	}{
		{Regime{Bull, VolNormal}, 1.0},
		{Regime{Bear, VolNormal}, 1.0},
		{Regime{Bull, VolHigh}, 0.5},
		{Regime{Range, VolNormal}, 0.5},
		{Regime{Range, VolHigh}, 0.25},
		{Regime{Bull, VolExtreme}, 0},
		{Regime{Range, VolExtreme}, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, m.Multiplier(tc.regime), tc.regime.String())
	}
}

func TestMultiplierMissingRegimeIsZero(t *testing.T) {
	t.Parallel()

	m := Multipliers{}
	assert.Equal(t, 0.0, m.Multiplier(Regime{Bull, VolNormal}))
}

func TestMultiplierClamped(t *testing.T) {
	t.Parallel()

	m := Multipliers{
		{Bull, VolNormal}: 1.5,
		{Bear, VolNormal}: -0.2,
	}
	assert.Equal(t, 1.0, m.Multiplier(Regime{Bull, VolNormal}))
	assert.Equal(t, 0.0, m.Multiplier(Regime{Bear, VolNormal}))
}
