package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run summary by ID.
func (j *SQLiteJournal) GetRun(runID string) (RunSummary, error) {
	var r RunSummary

	row := j.db.QueryRow(`
		SELECT run_id, created, instrument, dataset, bars, trades, wins,
		       losses, win_rate, start_equity, end_equity, net_pl,
		       return_pct, max_dd_pct, sharpe_like, profit_factor
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&r.RunID,
		&r.Created,
		&r.Instrument,
		&r.Dataset,
		&r.Bars,
		&r.Trades,
		&r.Wins,
		&r.Losses,
		&r.WinRate,
		&r.StartEquity,
		&r.EndEquity,
		&r.NetPL,
		&r.ReturnPct,
		&r.MaxDDPct,
		&r.SharpeLike,
		&r.ProfitFactor,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunSummary{}, fmt.Errorf("run %q not found", runID)
		}
		return RunSummary{}, err
	}
	return r, nil
}

// ListRuns returns all run summaries, newest first.
func (j *SQLiteJournal) ListRuns() ([]RunSummary, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, instrument, dataset, bars, trades, wins,
		       losses, win_rate, start_equity, end_equity, net_pl,
		       return_pct, max_dd_pct, sharpe_like, profit_factor
		FROM runs
		ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(
			&r.RunID,
			&r.Created,
			&r.Instrument,
			&r.Dataset,
			&r.Bars,
			&r.Trades,
			&r.Wins,
			&r.Losses,
			&r.WinRate,
			&r.StartEquity,
			&r.EndEquity,
			&r.NetPL,
			&r.ReturnPct,
			&r.MaxDDPct,
			&r.SharpeLike,
			&r.ProfitFactor,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTradesByRun returns the trades of a run ordered by close time.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, strategy_id, instrument, platform, side,
		       units, entry_price, exit_price, open_time, close_time,
		       realized_pl, reason
		FROM trades
		WHERE run_id = ?
		ORDER BY close_time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(
			&t.TradeID,
			&t.RunID,
			&t.StrategyID,
			&t.Instrument,
			&t.Platform,
			&t.Side,
			&t.Units,
			&t.EntryPrice,
			&t.ExitPrice,
			&t.OpenTime,
			&t.CloseTime,
			&t.RealizedPL,
			&t.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityByRun returns a run's equity curve in time order.
func (j *SQLiteJournal) ListEquityByRun(runID string) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, equity, drawdown
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.RunID, &e.Time, &e.Equity, &e.Drawdown); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
