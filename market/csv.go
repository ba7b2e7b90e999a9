package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCandlesCSV reads an OHLCV bar file with rows of
// time,open,high,low,close[,volume] and RFC3339 timestamps.
// A leading header row is detected and skipped. Rows that fail to parse are
// counted and skipped, matching the simulator's skip-don't-abort policy for
// bad bars; the count is returned so callers can decide whether the dataset
// is trustworthy.
func LoadCandlesCSV(path string) (candles []Candle, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if first {
			first = false
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		c, ok := parseCandleRow(row)
		if !ok {
			skipped++
			continue
		}
		candles = append(candles, c)
	}

	if len(candles) == 0 {
		return nil, skipped, fmt.Errorf("no usable bars in %s (%d rows skipped)", path, skipped)
	}
	return candles, skipped, nil
}

func parseCandleRow(row []string) (Candle, bool) {
	if len(row) < 5 {
		return Candle{}, false
	}

	ts := strings.TrimSpace(row[0])
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return Candle{}, false
		}
	}

	vals := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Candle{}, false
		}
		vals[i] = v
	}

	c := Candle{Time: t, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}
	if len(row) > 5 {
		// volume is optional and informational only
		c.Volume, _ = strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	}
	return c, true
}
