package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournalWritesHeaderAndRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordTrade(sampleTrade("R1", "T1")))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		RunID:    "R1",
		Time:     time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC),
		Equity:   10_000,
		Drawdown: 0.01,
	}))
	require.NoError(t, j.RecordRun(RunSummary{RunID: "R1"}))
	require.NoError(t, j.Close())

	trades := readCSV(t, tradesPath)
	require.Len(t, trades, 2)
	assert.Equal(t, "trade_id", trades[0][0])
	assert.Equal(t, "T1", trades[1][0])
	assert.Equal(t, "R1", trades[1][1])
	assert.Equal(t, "STOP", trades[1][12])

	equity := readCSV(t, equityPath)
	require.Len(t, equity, 2)
	assert.Equal(t, []string{"run_id", "time", "equity", "drawdown"}, equity[0])
	assert.Equal(t, "2025-03-03T09:00:00Z", equity[1][1])
	assert.Equal(t, "10000.000000", equity[1][2])
}

func TestCSVJournalCreateFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := NewCSV(filepath.Join(dir, "missing", "trades.csv"), filepath.Join(dir, "equity.csv"))
	assert.Error(t, err)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
