package calendar

import (
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

// ResolvedSlot is the outcome of aligning an event to the calendar. An
// event that fired during live trading carries no trade time and is
// excluded from close-to-close strategies.
type ResolvedSlot struct {
	InsideSession bool
	TradeTime     time.Time
}

// Tradable reports whether the slot carries a concrete trade time.
func (s ResolvedSlot) Tradable() bool {
	return !s.InsideSession && !s.TradeTime.IsZero()
}

// Resolver maps event timestamps to tradable slots.
type Resolver struct {
	cal     *Calendar
	session contracts.SessionWindow
	entry   contracts.TimeOfDay
}

// NewResolver creates a resolver. session holds the intraday cutoffs that
// classify an event as live-market noise; entry is the execution time of
// day stamped on resolved slots and is configured independently.
func NewResolver(cal *Calendar, session contracts.SessionWindow, entry contracts.TimeOfDay) *Resolver {
	return &Resolver{cal: cal, session: session, entry: entry}
}

// Resolve aligns one event timestamp.
//
// Inside [session open, session close] on the event's own date the event is
// flagged inside-session. Before the open the candidate trade date is the
// same date; after the close it is the next date. A candidate that is not a
// trading day advances to the earliest trading day on or after it, never
// backward. A candidate past the calendar's end yields a non-tradable slot
// and the event is dropped by the engine.
func (r *Resolver) Resolve(eventTime time.Time) ResolvedSlot {
	open := r.session.Open.On(eventTime)
	close := r.session.Close.On(eventTime)

	var candidate time.Time
	switch {
	case eventTime.Before(open):
		candidate = DateOf(eventTime)
	case eventTime.After(close):
		candidate = DateOf(eventTime).AddDate(0, 0, 1)
	default:
		return ResolvedSlot{InsideSession: true}
	}

	day, ok := r.cal.NextOnOrAfter(candidate)
	if !ok {
		return ResolvedSlot{}
	}

	return ResolvedSlot{TradeTime: r.entry.On(day)}
}
