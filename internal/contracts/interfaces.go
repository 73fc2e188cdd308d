package contracts

import (
	"context"
	"time"
)

// PriceSource supplies daily open/close bars for the return engine.
// Implementations must return at most one bar per calendar date inside
// [start, end], sorted ascending; an empty slice means no data (expected
// for illiquid days, not an error).
type PriceSource interface {
	FetchDaily(ctx context.Context, ticker string, start, end time.Time) ([]PriceBar, error)
}

// CalendarSource yields the set of trading dates for the reference index
// inside [from, to]. Used once per run to build the trading calendar.
type CalendarSource interface {
	TradingDates(ctx context.Context, from, to time.Time) ([]time.Time, error)
}

// EventSource yields labeled news events ordered by event time.
type EventSource interface {
	Events(ctx context.Context, from, to time.Time) ([]Event, error)
}

// Reporter receives finished series for rendering. The core never performs
// output I/O itself.
type Reporter interface {
	Report(ctx context.Context, label string, series *CumulativeSeries) error
}
