package contracts

import (
	"fmt"
	"time"
)

// TimeOfDay is a fixed wall-clock time applied to arbitrary dates.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return t, nil
}

// On combines the time of day with the date part of d, keeping d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, d.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// SessionWindow holds the fixed daily trading session cutoffs. Events inside
// [Open, Close] on a trading day happened during live trading; everything
// else gets snapped to the next tradable slot.
//
// The session cutoffs are independent from the entry/exit execution times:
// the session may open at 09:51 while entries execute at 10:01.
type SessionWindow struct {
	Open  TimeOfDay `json:"open"`
	Close TimeOfDay `json:"close"`
}
