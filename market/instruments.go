package market

import "math"

type InstrumentMeta struct {
	Name                string
	BaseCurrency        string
	QuoteCurrency       string
	PipLocation         int
	TradeUnitsPrecision int
	MinimumTradeSize    float64
}

var Instruments = map[string]InstrumentMeta{
	"EUR_USD": {
		Name:                "EUR_USD",
		BaseCurrency:        "EUR",
		QuoteCurrency:       "USD",
		PipLocation:         -4,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
	},
	"GBP_USD": {
		Name:                "GBP_USD",
		BaseCurrency:        "GBP",
		QuoteCurrency:       "USD",
		PipLocation:         -4,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
	},
	"USD_JPY": {
		Name:                "USD_JPY",
		BaseCurrency:        "USD",
		QuoteCurrency:       "JPY",
		PipLocation:         -2,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
	},
	"BTC_USD": {
		Name:                "BTC_USD",
		BaseCurrency:        "BTC",
		QuoteCurrency:       "USD",
		PipLocation:         0,
		TradeUnitsPrecision: 4,
		MinimumTradeSize:    0.0001,
	},
	"XAU_USD": {
		Name:                "XAU_USD",
		BaseCurrency:        "XAU",
		QuoteCurrency:       "USD",
		PipLocation:         -1,
		TradeUnitsPrecision: 0,
		MinimumTradeSize:    1,
	},
}

// PipSize returns the price value of one pip for the given pip location,
// e.g. -4 -> 0.0001 (EUR_USD), -2 -> 0.01 (USD_JPY).
func PipSize(pipLocation int) float64 {
	return math.Pow(10, float64(pipLocation))
}

// InstrumentPipSize looks up the pip size for a known instrument, defaulting
// to the FX-major location (-4) for unknown symbols.
func InstrumentPipSize(instrument string) float64 {
	if meta, ok := Instruments[instrument]; ok {
		return PipSize(meta.PipLocation)
	}
	return PipSize(-4)
}
