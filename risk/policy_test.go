package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLadderShape(t *testing.T) {
	t.Parallel()

	ladder := DefaultLadder()
	require.Len(t, ladder, 5)

	names := make([]string, 0, len(ladder))
	for _, b := range ladder {
		names = append(names, b.Policy.Name)
	}
	assert.Equal(t, []string{BandNormal, BandCaution, BandTriage, BandDeepTriage, BandHalted}, names)

	// Bands tile [0, 1] without gaps.
	for i := 1; i < len(ladder); i++ {
		assert.Equal(t, ladder[i-1].MaxDrawdown, ladder[i].MinDrawdown)
	}
	assert.LessOrEqual(t, ladder[len(ladder)-1].MaxDrawdown, 0.0, "terminal band is open-ended")
}

func TestLadderSelect(t *testing.T) {
	t.Parallel()

	ladder := DefaultLadder()

	cases := []struct {
		drawdown float64
		want     string
	}{
		{0, BandNormal},
		{0.049, BandNormal},
		{0.05, BandCaution},
		{0.10, BandTriage},
		{0.1999, BandTriage},
		{0.20, BandDeepTriage},
		{0.30, BandHalted},
		{1.0, BandHalted},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ladder.Select(tc.drawdown).Policy.Name, "drawdown %v", tc.drawdown)
	}
}

func TestLadderSelectTriageFlags(t *testing.T) {
	t.Parallel()

	ladder := DefaultLadder()

	assert.False(t, ladder.Select(0.07).Policy.TriageMode)
	assert.True(t, ladder.Select(0.15).Policy.TriageMode)
	assert.True(t, ladder.Select(0.25).Policy.TriageMode)
	assert.False(t, ladder.Select(0.40).Policy.AllowNewTrades)
}
