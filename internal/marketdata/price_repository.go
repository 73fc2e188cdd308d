package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

// PriceRepository reads execution prices out of the minute-bar store.
// Daily aggregation happens in SQL: the first open and last close of the
// bars inside the requested window form one synthetic daily bar per date.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository.
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// FetchDaily returns one bar per trading date between start and end,
// inclusive, built from the minute bars inside the window. Dates are
// sorted ascending. An empty result is not an error.
func (r *PriceRepository) FetchDaily(ctx context.Context, ticker string, start, end time.Time) ([]contracts.PriceBar, error) {
	query := `
		SELECT ticker,
		       date_trunc('day', begin_time)::date AS trade_date,
		       (array_agg(open_price ORDER BY begin_time ASC))[1]   AS open_price,
		       (array_agg(close_price ORDER BY begin_time DESC))[1] AS close_price
		FROM market.minute_bars
		WHERE ticker = $1 AND begin_time BETWEEN $2 AND $3
		GROUP BY ticker, trade_date
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []contracts.PriceBar
	for rows.Next() {
		var b contracts.PriceBar
		if err := rows.Scan(&b.Ticker, &b.Date, &b.Open, &b.Close); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}
