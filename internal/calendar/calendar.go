package calendar

import (
	"errors"
	"sort"
	"time"
)

// ErrEmptyCalendar is returned when a calendar would have no trading dates.
// An empty calendar makes event alignment impossible, so this is fatal.
var ErrEmptyCalendar = errors.New("trading calendar is empty")

// Calendar is an immutable sorted set of trading dates for the reference
// index. Built once per backtest run and never mutated afterward.
type Calendar struct {
	dates []time.Time
}

// New builds a calendar from an unordered list of timestamps. Times of day
// are discarded; duplicate dates collapse to one entry.
func New(dates []time.Time) (*Calendar, error) {
	if len(dates) == 0 {
		return nil, ErrEmptyCalendar
	}

	seen := make(map[time.Time]struct{}, len(dates))
	normalized := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := DateOf(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		normalized = append(normalized, day)
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i].Before(normalized[j]) })

	return &Calendar{dates: normalized}, nil
}

// DateOf strips the time of day, keeping the location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Contains reports whether the date part of d is a trading day.
func (c *Calendar) Contains(d time.Time) bool {
	day := DateOf(d)
	i := sort.Search(len(c.dates), func(i int) bool { return !c.dates[i].Before(day) })
	return i < len(c.dates) && c.dates[i].Equal(day)
}

// NextOnOrAfter returns the earliest trading date >= the date part of d.
// ok is false when d falls beyond the end of the calendar.
func (c *Calendar) NextOnOrAfter(d time.Time) (time.Time, bool) {
	day := DateOf(d)
	i := sort.Search(len(c.dates), func(i int) bool { return !c.dates[i].Before(day) })
	if i == len(c.dates) {
		return time.Time{}, false
	}
	return c.dates[i], true
}

// First returns the earliest trading date.
func (c *Calendar) First() time.Time {
	return c.dates[0]
}

// Last returns the latest trading date.
func (c *Calendar) Last() time.Time {
	return c.dates[len(c.dates)-1]
}

// Len returns the number of trading dates.
func (c *Calendar) Len() int {
	return len(c.dates)
}
