package moex

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

const issTimeLayout = "2006-01-02 15:04:05"

// candlesPayload mirrors the ISS block format: a column-name array plus
// row arrays of mixed types. Field positions are not fixed across ISS
// versions, so rows are addressed through the columns index.
type candlesPayload struct {
	Candles struct {
		Columns []string        `json:"columns"`
		Data    [][]interface{} `json:"data"`
	} `json:"candles"`
}

func parseCandles(body []byte, ticker string, loc *time.Location) ([]contracts.IntradayBar, error) {
	var payload candlesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("iss candles decode: %w", err)
	}

	cols := make(map[string]int, len(payload.Candles.Columns))
	for i, name := range payload.Candles.Columns {
		cols[name] = i
	}
	for _, required := range []string{"open", "close", "high", "low", "volume", "begin"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("iss candles: missing column %q", required)
		}
	}

	bars := make([]contracts.IntradayBar, 0, len(payload.Candles.Data))
	for _, row := range payload.Candles.Data {
		bar, err := parseCandleRow(row, cols, ticker, loc)
		if err != nil {
			return nil, err
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseCandleRow(row []interface{}, cols map[string]int, ticker string, loc *time.Location) (contracts.IntradayBar, error) {
	open, err := floatAt(row, cols["open"])
	if err != nil {
		return contracts.IntradayBar{}, fmt.Errorf("iss candles open: %w", err)
	}
	closePrice, err := floatAt(row, cols["close"])
	if err != nil {
		return contracts.IntradayBar{}, fmt.Errorf("iss candles close: %w", err)
	}
	high, err := floatAt(row, cols["high"])
	if err != nil {
		return contracts.IntradayBar{}, fmt.Errorf("iss candles high: %w", err)
	}
	low, err := floatAt(row, cols["low"])
	if err != nil {
		return contracts.IntradayBar{}, fmt.Errorf("iss candles low: %w", err)
	}
	volume, err := floatAt(row, cols["volume"])
	if err != nil {
		return contracts.IntradayBar{}, fmt.Errorf("iss candles volume: %w", err)
	}

	beginRaw, ok := at(row, cols["begin"]).(string)
	if !ok {
		return contracts.IntradayBar{}, fmt.Errorf("iss candles: begin is not a string")
	}
	begin, err := time.ParseInLocation(issTimeLayout, beginRaw, loc)
	if err != nil {
		return contracts.IntradayBar{}, fmt.Errorf("iss candles begin %q: %w", beginRaw, err)
	}

	return contracts.IntradayBar{
		Ticker: ticker,
		Begin:  begin,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}, nil
}

func at(row []interface{}, i int) interface{} {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}

func floatAt(row []interface{}, i int) (float64, error) {
	switch v := at(row, i).(type) {
	case float64:
		return v, nil
	case nil:
		return 0, fmt.Errorf("column %d is null", i)
	default:
		return 0, fmt.Errorf("column %d has type %T", i, v)
	}
}
