package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, strategy_id, instrument, platform, side, units,
		 entry_price, exit_price, open_time, close_time, realized_pl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.StrategyID, t.Instrument, t.Platform, t.Side,
		t.Units, t.EntryPrice, t.ExitPrice, t.OpenTime, t.CloseTime,
		t.RealizedPL, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, time, equity, drawdown)
		VALUES (?, ?, ?, ?)`,
		e.RunID, e.Time, e.Equity, e.Drawdown,
	)
	return err
}

func (j *SQLiteJournal) RecordRun(r RunSummary) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, instrument, dataset, bars, trades, wins, losses,
		 win_rate, start_equity, end_equity, net_pl, return_pct, max_dd_pct,
		 sharpe_like, profit_factor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Instrument, r.Dataset, r.Bars, r.Trades,
		r.Wins, r.Losses, r.WinRate, r.StartEquity, r.EndEquity, r.NetPL,
		r.ReturnPct, r.MaxDDPct, r.SharpeLike, r.ProfitFactor,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
