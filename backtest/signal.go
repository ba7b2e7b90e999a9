package backtest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/quantfort/riskgate/market"
)

type OrderType int8

const (
	OrderMarket OrderType = iota
	OrderLimit
)

func (o OrderType) String() string {
	if o == OrderLimit {
		return "LIMIT"
	}
	return "MARKET"
}

func ParseOrderType(s string) (OrderType, error) {
	switch s {
	case "", "MARKET", "market":
		return OrderMarket, nil
	case "LIMIT", "limit":
		return OrderLimit, nil
	}
	return OrderMarket, fmt.Errorf("unknown order type %q", s)
}

// Signal is one trade intent emitted against a bar of the replayed series.
// Admission runs when the signal's bar is reached; market orders then fill at
// the next bar's open, limit orders whenever a later bar trades through
// LimitPrice.
type Signal struct {
	BarIndex   int
	StrategyID string
	Symbol     string
	Platform   string
	Direction  market.Direction
	OrderType  OrderType
	LimitPrice float64
	StopLoss   float64
	TakeProfit float64 // 0 disables the full take-profit
}

type signalJSON struct {
	BarIndex   int     `json:"bar_index"`
	StrategyID string  `json:"strategy_id"`
	Symbol     string  `json:"symbol"`
	Platform   string  `json:"platform"`
	Direction  string  `json:"direction"`
	OrderType  string  `json:"order_type"`
	LimitPrice float64 `json:"limit_price"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
}

// LoadSignalsJSON reads a JSON array of signals from path.
func LoadSignalsJSON(path string) ([]Signal, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading signals: %w", err)
	}

	var rows []signalJSON
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parsing signals: %w", err)
	}

	out := make([]Signal, 0, len(rows))
	for i, r := range rows {
		dir, err := market.ParseDirection(r.Direction)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", i, err)
		}
		ot, err := ParseOrderType(r.OrderType)
		if err != nil {
			return nil, fmt.Errorf("signal %d: %w", i, err)
		}
		out = append(out, Signal{
			BarIndex:   r.BarIndex,
			StrategyID: r.StrategyID,
			Symbol:     r.Symbol,
			Platform:   r.Platform,
			Direction:  dir,
			OrderType:  ot,
			LimitPrice: r.LimitPrice,
			StopLoss:   r.StopLoss,
			TakeProfit: r.TakeProfit,
		})
	}
	return out, nil
}
