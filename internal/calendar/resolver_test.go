package calendar

import (
	"testing"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

// MOEX-style defaults: session 09:51-18:49, entries execute at 10:01.
func testResolver(t *testing.T) *Resolver {
	t.Helper()
	// Fri 2024-03-01, Mon 2024-03-04 .. Wed 2024-03-06
	cal, err := New([]time.Time{
		day(2024, 3, 1), day(2024, 3, 4), day(2024, 3, 5), day(2024, 3, 6),
	})
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	session := contracts.SessionWindow{
		Open:  contracts.TimeOfDay{Hour: 9, Minute: 51},
		Close: contracts.TimeOfDay{Hour: 18, Minute: 49},
	}
	return NewResolver(cal, session, contracts.TimeOfDay{Hour: 10, Minute: 1})
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestResolver_InsideSession(t *testing.T) {
	r := testResolver(t)

	for _, evt := range []time.Time{
		at(2024, 3, 1, 9, 51),  // exactly at open
		at(2024, 3, 1, 12, 30), // mid-session
		at(2024, 3, 1, 18, 49), // exactly at close
	} {
		slot := r.Resolve(evt)
		if !slot.InsideSession {
			t.Errorf("Resolve(%v): expected inside-session sentinel", evt)
		}
		if slot.Tradable() {
			t.Errorf("Resolve(%v): inside-session slot must not be tradable", evt)
		}
	}
}

func TestResolver_BeforeOpen(t *testing.T) {
	r := testResolver(t)

	slot := r.Resolve(at(2024, 3, 1, 7, 15))
	if slot.InsideSession {
		t.Fatal("pre-open event flagged inside session")
	}
	want := at(2024, 3, 1, 10, 1)
	if !slot.TradeTime.Equal(want) {
		t.Errorf("TradeTime = %v, want %v (same date, entry time)", slot.TradeTime, want)
	}
}

func TestResolver_AfterClose_NextTradingDay(t *testing.T) {
	r := testResolver(t)

	// Friday evening: next calendar date is Saturday, snaps to Monday.
	slot := r.Resolve(at(2024, 3, 1, 21, 0))
	want := at(2024, 3, 4, 10, 1)
	if !slot.TradeTime.Equal(want) {
		t.Errorf("TradeTime = %v, want %v (Monday open)", slot.TradeTime, want)
	}

	// Tuesday evening: Wednesday is a trading day, resolves to it directly.
	slot = r.Resolve(at(2024, 3, 5, 19, 30))
	want = at(2024, 3, 6, 10, 1)
	if !slot.TradeTime.Equal(want) {
		t.Errorf("TradeTime = %v, want %v", slot.TradeTime, want)
	}
}

func TestResolver_WeekendEvent(t *testing.T) {
	r := testResolver(t)

	// Saturday morning is before that date's open cutoff; candidate is the
	// Saturday itself, which snaps forward to Monday.
	slot := r.Resolve(at(2024, 3, 2, 8, 0))
	want := at(2024, 3, 4, 10, 1)
	if !slot.TradeTime.Equal(want) {
		t.Errorf("TradeTime = %v, want %v", slot.TradeTime, want)
	}
}

func TestResolver_PastCalendarEnd(t *testing.T) {
	r := testResolver(t)

	slot := r.Resolve(at(2024, 3, 6, 20, 0))
	if slot.Tradable() || slot.InsideSession {
		t.Errorf("event past calendar end should yield a non-tradable slot, got %+v", slot)
	}
}

func TestResolver_EntryTimeIndependentOfSessionOpen(t *testing.T) {
	cal, _ := New([]time.Time{day(2024, 3, 1)})
	session := contracts.SessionWindow{
		Open:  contracts.TimeOfDay{Hour: 9, Minute: 51},
		Close: contracts.TimeOfDay{Hour: 18, Minute: 49},
	}
	r := NewResolver(cal, session, contracts.TimeOfDay{Hour: 11, Minute: 30})

	slot := r.Resolve(at(2024, 3, 1, 8, 0))
	want := at(2024, 3, 1, 11, 30)
	if !slot.TradeTime.Equal(want) {
		t.Errorf("TradeTime = %v, want %v (configured entry time, not session open)", slot.TradeTime, want)
	}
}
