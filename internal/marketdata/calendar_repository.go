package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CalendarRepository derives the trading calendar from stored index bars:
// a date counts as a trading day when the benchmark index has at least one
// minute bar on it.
type CalendarRepository struct {
	pool        *pgxpool.Pool
	indexTicker string
}

// NewCalendarRepository creates a calendar repository keyed to the
// benchmark index ticker.
func NewCalendarRepository(pool *pgxpool.Pool, indexTicker string) *CalendarRepository {
	return &CalendarRepository{pool: pool, indexTicker: indexTicker}
}

// TradingDates returns the distinct trading dates between from and to,
// inclusive, sorted ascending.
func (r *CalendarRepository) TradingDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	query := `
		SELECT DISTINCT date_trunc('day', begin_time)::date AS trade_date
		FROM market.minute_bars
		WHERE ticker = $1 AND begin_time BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, r.indexTicker, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
