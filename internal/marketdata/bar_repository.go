package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

// BarRepository writes collected minute bars. Collection re-fetches
// overlapping windows, so inserts ignore duplicates instead of updating.
type BarRepository struct {
	pool *pgxpool.Pool
}

// NewBarRepository creates a new minute-bar repository.
func NewBarRepository(pool *pgxpool.Pool) *BarRepository {
	return &BarRepository{pool: pool}
}

// SaveBatch inserts minute bars, skipping (ticker, begin_time) pairs that
// already exist.
func (r *BarRepository) SaveBatch(ctx context.Context, bars []contracts.IntradayBar) error {
	if len(bars) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO market.minute_bars
			(ticker, begin_time, open_price, high_price, low_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, begin_time) DO NOTHING`

	for _, b := range bars {
		batch.Queue(query, b.Ticker, b.Begin, b.Open, b.High, b.Low, b.Close, b.Volume)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range bars {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}

	return nil
}

// LatestBarTime returns the begin time of the newest stored bar for a
// ticker, or the zero time when none exist. Collection uses it to resume
// incrementally.
func (r *BarRepository) LatestBarTime(ctx context.Context, ticker string) (time.Time, error) {
	query := `
		SELECT COALESCE(MAX(begin_time), 'epoch'::timestamptz)
		FROM market.minute_bars
		WHERE ticker = $1
	`

	var latest time.Time
	if err := r.pool.QueryRow(ctx, query, ticker).Scan(&latest); err != nil {
		return time.Time{}, err
	}
	if latest.Unix() == 0 {
		return time.Time{}, nil
	}
	return latest, nil
}

// Tickers returns every ticker present in the bar store.
func (r *BarRepository) Tickers(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT ticker FROM market.minute_bars ORDER BY ticker`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}
