package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwingNeedsFullWindow(t *testing.T) {
	t.Parallel()

	s := NewSwing(2)
	for i := 0; i < 4; i++ {
		s.Update(bar(100, 105, 95, 100))
	}

	_, ok := s.LastLow()
	assert.False(t, ok)
	_, ok = s.LastHigh()
	assert.False(t, ok)
}

func TestSwingConfirmsPivotLow(t *testing.T) {
	t.Parallel()

	s := NewSwing(2)
	lows := []float64{100, 99, 95, 98, 101}
	for _, l := range lows {
		s.Update(bar(l+2, l+4, l, l+2))
	}

	low, ok := s.LastLow()
	assert.True(t, ok)
	assert.Equal(t, 95.0, low)
}

func TestSwingConfirmsPivotHigh(t *testing.T) {
	t.Parallel()

	s := NewSwing(2)
	highs := []float64{100, 102, 108, 103, 101}
	for _, h := range highs {
		s.Update(bar(h-2, h, h-4, h-2))
	}

	high, ok := s.LastHigh()
	assert.True(t, ok)
	assert.Equal(t, 108.0, high)
}

func TestSwingRequiresStrictPivot(t *testing.T) {
	t.Parallel()

	s := NewSwing(2)
	// The middle bar ties a neighbor: no pivot.
	for _, l := range []float64{100, 95, 95, 98, 101} {
		s.Update(bar(l+2, l+4, l, l+2))
	}

	_, ok := s.LastLow()
	assert.False(t, ok)
}

func TestSwingTracksLatestPivot(t *testing.T) {
	t.Parallel()

	s := NewSwing(1)
	for _, l := range []float64{100, 95, 100, 97, 100} {
		s.Update(bar(l+2, l+4, l, l+2))
	}

	low, ok := s.LastLow()
	assert.True(t, ok)
	assert.Equal(t, 97.0, low)
}

func TestSwingDefaultStrength(t *testing.T) {
	t.Parallel()

	s := NewSwing(0)
	assert.Equal(t, 2, s.strength)
}
