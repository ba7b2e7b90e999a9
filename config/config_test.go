package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfort/riskgate/market"
	"github.com/quantfort/riskgate/regime"
	"github.com/quantfort/riskgate/risk"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "riskgate.yaml", `
account:
  initial_equity: 25000
risk:
  max_daily_loss_pct: 0.03
  strategy_ranks:
    trend-follow: true
    scalper: false
regimes:
  table:
    EUR_USD: {trend: BULL, volatility: NORMAL}
cross_rules:
  - if_symbol: EUR_USD
    if_direction: BUY
    then_symbol: BTC_USD
    allow_direction: SELL
trailing:
  soft_tighten_after: 6h
simulation:
  instrument: EUR_USD
  atr_period: 21
journal:
  type: sqlite
  db_path: ./runs.sqlite
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 25_000.0, cfg.Account.InitialEquity)
	assert.Equal(t, 0.03, cfg.Risk.MaxDailyLossPct)
	assert.Equal(t, 21, cfg.Simulation.ATRPeriod)
	assert.Equal(t, "sqlite", cfg.Journal.Type)

	tbl := cfg.RegimeTable()
	r, ok := tbl.Classify("EUR_USD")
	require.True(t, ok)
	assert.Equal(t, regime.Bull, r.Trend)

	rules := cfg.CrossRuleList()
	require.Len(t, rules, 1)
	assert.Equal(t, market.Long, rules[0].IfDirection)
	assert.Equal(t, market.Short, rules[0].AllowDirection)

	assert.Equal(t, 6*time.Hour, cfg.TrailParams().SoftTightenAge)
}

func TestTrailingExplicitZeros(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "riskgate.yaml", `
account:
  initial_equity: 1000
simulation:
  instrument: EUR_USD
trailing:
  market_buffer_pips: 0
  min_tightening_pips: 0
  soft_tighten_r: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	p := cfg.TrailParams()
	assert.Equal(t, 0.0, p.MarketBufferPips)
	assert.Equal(t, 0.0, p.MinTighteningPips)
	assert.Equal(t, 0.0, p.SoftTightenR)
	// Untouched constants keep the stock values.
	assert.Equal(t, 1.5, p.ATRMultiplier)
	assert.Equal(t, 2.0, p.LiquidityBufferPips)
}

func TestLoadJSONFallback(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "riskgate.json",
		`{"account":{"initial_equity":5000},"simulation":{"instrument":"GBP_USD"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5_000.0, cfg.Account.InitialEquity)
	assert.Equal(t, "GBP_USD", cfg.Simulation.Instrument)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"negative equity", "account:\n  initial_equity: -5\nsimulation:\n  instrument: EUR_USD\n"},
		{"unknown instrument", "account:\n  initial_equity: 1000\nsimulation:\n  instrument: FOO_BAR\n"},
		{"bad trend", "account:\n  initial_equity: 1000\nsimulation:\n  instrument: EUR_USD\nregimes:\n  table:\n    EUR_USD: {trend: SIDEWAYS, volatility: NORMAL}\n"},
		{"bad cross direction", "account:\n  initial_equity: 1000\nsimulation:\n  instrument: EUR_USD\ncross_rules:\n  - {if_symbol: A, if_direction: UP, then_symbol: B, allow_direction: SELL}\n"},
		{"csv journal missing paths", "account:\n  initial_equity: 1000\nsimulation:\n  instrument: EUR_USD\njournal:\n  type: csv\n"},
		{"bad duration", "account:\n  initial_equity: 1000\nsimulation:\n  instrument: EUR_USD\ntrailing:\n  soft_tighten_after: sometime\n"},
		{"negative trailing buffer", "account:\n  initial_equity: 1000\nsimulation:\n  instrument: EUR_USD\ntrailing:\n  market_buffer_pips: -1\n"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeConfig(t, "bad.yaml", tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLadderFallsBackToStock(t *testing.T) {
	t.Parallel()

	cfg := Default()
	ladder := cfg.Ladder()
	require.Len(t, ladder, 5)
	assert.Equal(t, risk.BandNormal, ladder[0].Policy.Name)
	assert.Equal(t, risk.BandHalted, ladder[4].Policy.Name)
}

func TestLadderConversion(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Risk.Ladder = []BandRow{
		{Name: "OPEN", MaxDrawdown: 0.1, RiskScale: 1, BaseRiskPerTradePct: 0.02, MaxOpenRiskPct: 0.06, MaxTradesPerPlatform: 4, AllowNewTrades: true},
		{Name: "SHUT", MinDrawdown: 0.1, RiskScale: 0},
	}

	ladder := cfg.Ladder()
	require.Len(t, ladder, 2)

	band := ladder.Select(0.05)
	assert.Equal(t, "OPEN", band.Policy.Name)
	assert.Equal(t, 0.02, band.Policy.BaseRiskPerTradePct)

	band = ladder.Select(0.5)
	assert.Equal(t, "SHUT", band.Policy.Name)
	assert.False(t, band.Policy.AllowNewTrades)
}

func TestMultipliersFallBackToStock(t *testing.T) {
	t.Parallel()

	m := Default().Multipliers()
	assert.Equal(t, 1.0, m.Multiplier(regime.Regime{Trend: regime.Bull, Vol: regime.VolNormal}))
}

func TestSimulatorConfigAssembly(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Simulation.PartialTPs = []PartialTPRow{{RMultiple: 1, Fraction: 0.5}}

	sc := cfg.SimulatorConfig()
	assert.Equal(t, "EUR_USD", sc.Instrument)
	assert.Equal(t, cfg.Account.InitialEquity, sc.InitialEquity)
	require.Len(t, sc.PartialTPs, 1)
	assert.Equal(t, 0.5, sc.PartialTPs[0].Fraction)
	assert.NotEmpty(t, sc.Trail.RLadder)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Account.InitialEquity = 42_000

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42_000.0, loaded.Account.InitialEquity)
}
