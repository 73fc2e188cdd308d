package marketdata

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

// testPool connects to the database named by TEST_DATABASE_URL, skipping
// the test when it is unset or -short is given.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func minuteBar(ticker string, begin time.Time, open, close float64) contracts.IntradayBar {
	return contracts.IntradayBar{
		Ticker: ticker,
		Begin:  begin,
		Open:   open,
		High:   open + 1,
		Low:    open - 1,
		Close:  close,
		Volume: 100,
	}
}

func TestRepositories_DailyAggregation(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	ticker := "ZZTEST"
	t.Cleanup(func() {
		pool.Exec(ctx, `DELETE FROM market.minute_bars WHERE ticker = $1`, ticker)
	})

	bars := NewBarRepository(pool)
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	err := bars.SaveBatch(ctx, []contracts.IntradayBar{
		minuteBar(ticker, day1.Add(10*time.Hour+1*time.Minute), 100, 101),
		minuteBar(ticker, day1.Add(12*time.Hour), 101, 102),
		minuteBar(ticker, day1.Add(18*time.Hour+39*time.Minute), 102, 110),
	})
	require.NoError(t, err)

	// Re-inserting the same bars must be a no-op, not an error.
	err = bars.SaveBatch(ctx, []contracts.IntradayBar{
		minuteBar(ticker, day1.Add(12*time.Hour), 999, 999),
	})
	require.NoError(t, err)

	prices := NewPriceRepository(pool)
	daily, err := prices.FetchDaily(ctx, ticker, day1, day1.Add(24*time.Hour-time.Second))
	require.NoError(t, err)
	require.Len(t, daily, 1)

	// First open, last close of the window; the conflicting re-insert was
	// ignored.
	assert.Equal(t, 100.0, daily[0].Open)
	assert.Equal(t, 110.0, daily[0].Close)

	calendars := NewCalendarRepository(pool, ticker)
	dates, err := calendars.TradingDates(ctx, day1, day1.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, dates, 1)

	latest, err := bars.LatestBarTime(ctx, ticker)
	require.NoError(t, err)
	assert.Equal(t, day1.Add(18*time.Hour+39*time.Minute), latest.UTC())
}
