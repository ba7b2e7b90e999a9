// Package config loads and validates the engine configuration from YAML
// (JSON fallback) and converts it into the typed structures the risk,
// regime, stops and backtest packages consume.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quantfort/riskgate/backtest"
	"github.com/quantfort/riskgate/market"
	"github.com/quantfort/riskgate/regime"
	"github.com/quantfort/riskgate/risk"
	"github.com/quantfort/riskgate/stops"
)

// Config is the complete engine configuration.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Risk       RiskConfig       `json:"risk" yaml:"risk"`
	Regimes    RegimeConfig     `json:"regimes" yaml:"regimes"`
	CrossRules []CrossRuleRow   `json:"cross_rules,omitempty" yaml:"cross_rules,omitempty"`
	Trailing   TrailingConfig   `json:"trailing" yaml:"trailing"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	InitialEquity float64 `json:"initial_equity" yaml:"initial_equity"`
}

// RiskConfig drives the ledger: the drawdown ladder, the PnL circuit
// breakers and the strategy rank table consulted under triage.
type RiskConfig struct {
	Ladder           []BandRow       `json:"ladder,omitempty" yaml:"ladder,omitempty"`
	MaxDailyLossPct  float64         `json:"max_daily_loss_pct" yaml:"max_daily_loss_pct"`
	MaxWeeklyLossPct float64         `json:"max_weekly_loss_pct" yaml:"max_weekly_loss_pct"`
	StrategyRanks    map[string]bool `json:"strategy_ranks,omitempty" yaml:"strategy_ranks,omitempty"`
}

// BandRow is one drawdown band. An empty ladder falls back to the stock
// five-band ladder.
type BandRow struct {
	Name                 string  `json:"name" yaml:"name"`
	MinDrawdown          float64 `json:"min_drawdown" yaml:"min_drawdown"`
	MaxDrawdown          float64 `json:"max_drawdown" yaml:"max_drawdown"` // <= 0 marks the terminal band
	RiskScale            float64 `json:"risk_scale" yaml:"risk_scale"`
	BaseRiskPerTradePct  float64 `json:"base_risk_per_trade_pct" yaml:"base_risk_per_trade_pct"`
	MaxOpenRiskPct       float64 `json:"max_open_risk_pct" yaml:"max_open_risk_pct"`
	MaxTradesPerPlatform int     `json:"max_trades_per_platform" yaml:"max_trades_per_platform"`
	AllowNewTrades       bool    `json:"allow_new_trades" yaml:"allow_new_trades"`
	TriageMode           bool    `json:"triage_mode" yaml:"triage_mode"`
}

// RegimeConfig is the static regime table plus the multiplier overrides.
type RegimeConfig struct {
	Table       map[string]RegimeRow `json:"table,omitempty" yaml:"table,omitempty"`
	Multipliers []MultiplierRow      `json:"multipliers,omitempty" yaml:"multipliers,omitempty"`
}

type RegimeRow struct {
	Trend      string `json:"trend" yaml:"trend"`
	Volatility string `json:"volatility" yaml:"volatility"`
}

type MultiplierRow struct {
	Trend      string  `json:"trend" yaml:"trend"`
	Volatility string  `json:"volatility" yaml:"volatility"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// CrossRuleRow is one hedge rule between venues.
type CrossRuleRow struct {
	IfSymbol       string `json:"if_symbol" yaml:"if_symbol"`
	IfDirection    string `json:"if_direction" yaml:"if_direction"`
	ThenSymbol     string `json:"then_symbol" yaml:"then_symbol"`
	AllowDirection string `json:"allow_direction" yaml:"allow_direction"`
}

// TrailingConfig holds the trailing-stop constants. Absent fields take the
// stock defaults; the numeric fields are pointers so an explicit zero (for
// instance market_buffer_pips: 0) survives the round trip.
type TrailingConfig struct {
	RLadder             []RLevelRow `json:"r_ladder,omitempty" yaml:"r_ladder,omitempty"`
	MomentumBonusR      *float64    `json:"momentum_bonus_r,omitempty" yaml:"momentum_bonus_r,omitempty"`
	ATRMultiplier       *float64    `json:"atr_multiplier,omitempty" yaml:"atr_multiplier,omitempty"`
	LiquidityBufferPips *float64    `json:"liquidity_buffer_pips,omitempty" yaml:"liquidity_buffer_pips,omitempty"`
	SoftTightenAfter    string      `json:"soft_tighten_after,omitempty" yaml:"soft_tighten_after,omitempty"` // e.g. "4h"
	SoftTightenR        *float64    `json:"soft_tighten_r,omitempty" yaml:"soft_tighten_r,omitempty"`
	MinTighteningPips   *float64    `json:"min_tightening_pips,omitempty" yaml:"min_tightening_pips,omitempty"`
	MarketBufferPips    *float64    `json:"market_buffer_pips,omitempty" yaml:"market_buffer_pips,omitempty"`
}

type RLevelRow struct {
	ThresholdR float64 `json:"threshold_r" yaml:"threshold_r"`
	LockR      float64 `json:"lock_r" yaml:"lock_r"`
}

// SimulationConfig contains the backtest cost model and indicator settings.
type SimulationConfig struct {
	Instrument    string         `json:"instrument" yaml:"instrument"`
	SlippagePct   float64        `json:"slippage_pct" yaml:"slippage_pct"`
	CommissionPct float64        `json:"commission_pct" yaml:"commission_pct"`
	PartialTPs    []PartialTPRow `json:"partial_take_profits,omitempty" yaml:"partial_take_profits,omitempty"`
	ATRPeriod     int            `json:"atr_period" yaml:"atr_period"`
	SwingStrength int            `json:"swing_strength" yaml:"swing_strength"`
}

type PartialTPRow struct {
	RMultiple float64 `json:"r_multiple" yaml:"r_multiple"`
	Fraction  float64 `json:"fraction" yaml:"fraction"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoggingConfig sets the zerolog level for the process.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"` // debug, info, warn, error
}

// Load reads configuration from a file, trying YAML first and falling back
// to JSON, then validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to a file, YAML or JSON by extension.
func (c *Config) Save(path string) error {
	var data []byte
	var err error

	if hasYAMLExt(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func fptr(v float64) *float64 { return &v }

func hasYAMLExt(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Account.InitialEquity <= 0 {
		return fmt.Errorf("account.initial_equity must be positive")
	}
	if c.Simulation.Instrument == "" {
		return fmt.Errorf("simulation.instrument is required")
	}
	if _, ok := market.Instruments[c.Simulation.Instrument]; !ok {
		return fmt.Errorf("unknown instrument: %s", c.Simulation.Instrument)
	}
	if c.Simulation.SlippagePct < 0 || c.Simulation.CommissionPct < 0 {
		return fmt.Errorf("simulation costs must not be negative")
	}
	for i, tp := range c.Simulation.PartialTPs {
		if tp.RMultiple <= 0 {
			return fmt.Errorf("partial_take_profits[%d].r_multiple must be positive", i)
		}
		if tp.Fraction <= 0 || tp.Fraction > 1 {
			return fmt.Errorf("partial_take_profits[%d].fraction must be in (0, 1]", i)
		}
	}

	for i, b := range c.Risk.Ladder {
		if b.Name == "" {
			return fmt.Errorf("risk.ladder[%d].name is required", i)
		}
		if b.RiskScale < 0 || b.RiskScale > 1 {
			return fmt.Errorf("risk.ladder[%d].risk_scale must be in [0, 1]", i)
		}
		if b.MaxDrawdown > 0 && b.MaxDrawdown <= b.MinDrawdown {
			return fmt.Errorf("risk.ladder[%d]: max_drawdown must exceed min_drawdown", i)
		}
	}

	for sym, r := range c.Regimes.Table {
		if _, err := regime.ParseTrend(r.Trend); err != nil {
			return fmt.Errorf("regimes.table[%s]: %w", sym, err)
		}
		if _, err := regime.ParseVolatility(r.Volatility); err != nil {
			return fmt.Errorf("regimes.table[%s]: %w", sym, err)
		}
	}
	for i, m := range c.Regimes.Multipliers {
		if _, err := regime.ParseTrend(m.Trend); err != nil {
			return fmt.Errorf("regimes.multipliers[%d]: %w", i, err)
		}
		if _, err := regime.ParseVolatility(m.Volatility); err != nil {
			return fmt.Errorf("regimes.multipliers[%d]: %w", i, err)
		}
		if m.Multiplier < 0 || m.Multiplier > 1 {
			return fmt.Errorf("regimes.multipliers[%d].multiplier must be in [0, 1]", i)
		}
	}

	for i, r := range c.CrossRules {
		if r.IfSymbol == "" || r.ThenSymbol == "" {
			return fmt.Errorf("cross_rules[%d]: if_symbol and then_symbol are required", i)
		}
		if _, err := market.ParseDirection(r.IfDirection); err != nil {
			return fmt.Errorf("cross_rules[%d]: %w", i, err)
		}
		if _, err := market.ParseDirection(r.AllowDirection); err != nil {
			return fmt.Errorf("cross_rules[%d]: %w", i, err)
		}
	}

	if c.Trailing.SoftTightenAfter != "" {
		if _, err := time.ParseDuration(c.Trailing.SoftTightenAfter); err != nil {
			return fmt.Errorf("trailing.soft_tighten_after: %w", err)
		}
	}
	for name, v := range map[string]*float64{
		"trailing.momentum_bonus_r":      c.Trailing.MomentumBonusR,
		"trailing.atr_multiplier":        c.Trailing.ATRMultiplier,
		"trailing.liquidity_buffer_pips": c.Trailing.LiquidityBufferPips,
		"trailing.soft_tighten_r":        c.Trailing.SoftTightenR,
		"trailing.min_tightening_pips":   c.Trailing.MinTighteningPips,
		"trailing.market_buffer_pips":    c.Trailing.MarketBufferPips,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error")
	}
	return nil
}

// Default returns a configuration with the stock ladder, the conventional
// regime multipliers and a conservative cost model.
func Default() *Config {
	return &Config{
		Account: AccountConfig{InitialEquity: 10000},
		Risk: RiskConfig{
			MaxDailyLossPct:  0.05,
			MaxWeeklyLossPct: 0.08,
		},
		Trailing: TrailingConfig{
			MomentumBonusR:      fptr(0.2),
			ATRMultiplier:       fptr(1.5),
			LiquidityBufferPips: fptr(2),
			SoftTightenAfter:    "4h",
			SoftTightenR:        fptr(0.2),
			MinTighteningPips:   fptr(1),
			MarketBufferPips:    fptr(1),
		},
		Simulation: SimulationConfig{
			Instrument:    "EUR_USD",
			SlippagePct:   0.1,
			CommissionPct: 0.0001,
			ATRPeriod:     14,
			SwingStrength: 2,
		},
		Journal: JournalConfig{Type: "none"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Ladder converts the configured band rows, or the stock ladder when none
// are configured.
func (c *Config) Ladder() risk.Ladder {
	if len(c.Risk.Ladder) == 0 {
		return risk.DefaultLadder()
	}
	out := make(risk.Ladder, 0, len(c.Risk.Ladder))
	for _, b := range c.Risk.Ladder {
		out = append(out, risk.Band{
			MinDrawdown: b.MinDrawdown,
			MaxDrawdown: b.MaxDrawdown,
			RiskScale:   b.RiskScale,
			Policy: risk.Policy{
				Name:                 b.Name,
				BaseRiskPerTradePct:  b.BaseRiskPerTradePct,
				MaxOpenRiskPct:       b.MaxOpenRiskPct,
				MaxTradesPerPlatform: b.MaxTradesPerPlatform,
				AllowNewTrades:       b.AllowNewTrades,
				TriageMode:           b.TriageMode,
			},
		})
	}
	return out
}

// Brakes returns the daily/weekly circuit breakers.
func (c *Config) Brakes() risk.Brakes {
	return risk.Brakes{
		MaxDailyLossPct:  c.Risk.MaxDailyLossPct,
		MaxWeeklyLossPct: c.Risk.MaxWeeklyLossPct,
	}
}

// RegimeTable converts the configured per-symbol regimes. Parse errors were
// caught by Validate, so conversion ignores them.
func (c *Config) RegimeTable() regime.Table {
	out := make(regime.Table, len(c.Regimes.Table))
	for sym, r := range c.Regimes.Table {
		t, _ := regime.ParseTrend(r.Trend)
		v, _ := regime.ParseVolatility(r.Volatility)
		out[sym] = regime.Regime{Trend: t, Vol: v}
	}
	return out
}

// Multipliers converts the configured regime multipliers, or the stock table
// when none are configured.
func (c *Config) Multipliers() regime.Multipliers {
	if len(c.Regimes.Multipliers) == 0 {
		return regime.DefaultMultipliers()
	}
	out := make(regime.Multipliers, len(c.Regimes.Multipliers))
	for _, m := range c.Regimes.Multipliers {
		t, _ := regime.ParseTrend(m.Trend)
		v, _ := regime.ParseVolatility(m.Volatility)
		out[regime.Regime{Trend: t, Vol: v}] = m.Multiplier
	}
	return out
}

// CrossRuleList converts the configured hedge rules.
func (c *Config) CrossRuleList() []risk.CrossRule {
	out := make([]risk.CrossRule, 0, len(c.CrossRules))
	for _, r := range c.CrossRules {
		ifDir, _ := market.ParseDirection(r.IfDirection)
		allowDir, _ := market.ParseDirection(r.AllowDirection)
		out = append(out, risk.CrossRule{
			IfSymbol:       r.IfSymbol,
			IfDirection:    ifDir,
			ThenSymbol:     r.ThenSymbol,
			AllowDirection: allowDir,
		})
	}
	return out
}

// TrailParams converts the trailing constants; absent fields keep the stock
// defaults.
func (c *Config) TrailParams() stops.Params {
	p := stops.DefaultParams()
	t := c.Trailing

	if len(t.RLadder) > 0 {
		p.RLadder = p.RLadder[:0]
		for _, lvl := range t.RLadder {
			p.RLadder = append(p.RLadder, stops.RLevel{ThresholdR: lvl.ThresholdR, LockR: lvl.LockR})
		}
	}
	if t.MomentumBonusR != nil {
		p.MomentumBonusR = *t.MomentumBonusR
	}
	if t.ATRMultiplier != nil {
		p.ATRMultiplier = *t.ATRMultiplier
	}
	if t.LiquidityBufferPips != nil {
		p.LiquidityBufferPips = *t.LiquidityBufferPips
	}
	if t.SoftTightenAfter != "" {
		if d, err := time.ParseDuration(t.SoftTightenAfter); err == nil {
			p.SoftTightenAge = d
		}
	}
	if t.SoftTightenR != nil {
		p.SoftTightenR = *t.SoftTightenR
	}
	if t.MinTighteningPips != nil {
		p.MinTighteningPips = *t.MinTighteningPips
	}
	if t.MarketBufferPips != nil {
		p.MarketBufferPips = *t.MarketBufferPips
	}
	return p
}

// SimulatorConfig assembles the backtest configuration.
func (c *Config) SimulatorConfig() backtest.Config {
	tps := make([]backtest.PartialTP, 0, len(c.Simulation.PartialTPs))
	for _, tp := range c.Simulation.PartialTPs {
		tps = append(tps, backtest.PartialTP{RMultiple: tp.RMultiple, Fraction: tp.Fraction})
	}
	return backtest.Config{
		Instrument:    c.Simulation.Instrument,
		InitialEquity: c.Account.InitialEquity,
		SlippagePct:   c.Simulation.SlippagePct,
		CommissionPct: c.Simulation.CommissionPct,
		PartialTPs:    tps,
		ATRPeriod:     c.Simulation.ATRPeriod,
		SwingStrength: c.Simulation.SwingStrength,
		Trail:         c.TrailParams(),
	}
}
