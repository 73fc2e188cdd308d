package moex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Columns ordered as ISS actually serves them.
const sampleCandles = `{
	"candles": {
		"columns": ["open", "close", "high", "low", "value", "volume", "begin", "end"],
		"data": [
			[250.5, 251.0, 251.2, 250.1, 1000000.0, 4000.0, "2024-03-01 10:00:00", "2024-03-01 10:00:59"],
			[251.0, 250.8, 251.3, 250.7, 500000.0, 2000.0, "2024-03-01 10:01:00", "2024-03-01 10:01:59"]
		]
	}
}`

func TestParseCandles(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	bars, err := parseCandles([]byte(sampleCandles), "SBER", loc)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	first := bars[0]
	assert.Equal(t, "SBER", first.Ticker)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, loc), first.Begin)
	assert.Equal(t, 250.5, first.Open)
	assert.Equal(t, 251.0, first.Close)
	assert.Equal(t, 251.2, first.High)
	assert.Equal(t, 250.1, first.Low)
	assert.Equal(t, 4000.0, first.Volume)

	assert.True(t, bars[1].Begin.After(first.Begin))
}

func TestParseCandles_ColumnOrderIndependent(t *testing.T) {
	// Same rows with columns shuffled: positions must come from the
	// columns array, never be assumed.
	shuffled := `{
		"candles": {
			"columns": ["begin", "volume", "close", "open", "low", "high"],
			"data": [
				["2024-03-01 10:00:00", 4000.0, 251.0, 250.5, 250.1, 251.2]
			]
		}
	}`

	bars, err := parseCandles([]byte(shuffled), "SBER", time.UTC)
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 250.5, bars[0].Open)
	assert.Equal(t, 251.0, bars[0].Close)
}

func TestParseCandles_MissingColumn(t *testing.T) {
	broken := `{"candles": {"columns": ["open", "close"], "data": []}}`

	_, err := parseCandles([]byte(broken), "SBER", time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestParseCandles_NullPrice(t *testing.T) {
	withNull := `{
		"candles": {
			"columns": ["open", "close", "high", "low", "volume", "begin"],
			"data": [[null, 251.0, 251.2, 250.1, 4000.0, "2024-03-01 10:00:00"]]
		}
	}`

	_, err := parseCandles([]byte(withNull), "SBER", time.UTC)
	require.Error(t, err)
}

func TestParseCandles_BadTimestamp(t *testing.T) {
	bad := `{
		"candles": {
			"columns": ["open", "close", "high", "low", "volume", "begin"],
			"data": [[250.5, 251.0, 251.2, 250.1, 4000.0, "01.03.2024"]]
		}
	}`

	_, err := parseCandles([]byte(bad), "SBER", time.UTC)
	require.Error(t, err)
}

func TestMarketPath(t *testing.T) {
	tests := []struct {
		ticker string
		market string
		board  string
	}{
		{"IMOEX", "index", "SNDX"},
		{"RTSI", "index", "SNDX"},
		{"SBER", "shares", "TQBR"},
		{"GAZP", "shares", "TQBR"},
	}

	for _, tt := range tests {
		market, board := marketPath(tt.ticker)
		assert.Equal(t, tt.market, market, tt.ticker)
		assert.Equal(t, tt.board, board, tt.ticker)
	}
}
