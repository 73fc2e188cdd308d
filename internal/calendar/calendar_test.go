package calendar

import (
	"errors"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNew_Empty(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, ErrEmptyCalendar) {
		t.Fatalf("New(nil) error = %v, want ErrEmptyCalendar", err)
	}
}

func TestNew_SortsAndDeduplicates(t *testing.T) {
	cal, err := New([]time.Time{
		time.Date(2024, 3, 5, 18, 45, 0, 0, time.UTC),
		day(2024, 3, 1),
		day(2024, 3, 5), // duplicate date, different time of day above
		day(2024, 3, 4),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if cal.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cal.Len())
	}
	if !cal.First().Equal(day(2024, 3, 1)) {
		t.Errorf("First() = %v, want 2024-03-01", cal.First())
	}
	if !cal.Last().Equal(day(2024, 3, 5)) {
		t.Errorf("Last() = %v, want 2024-03-05", cal.Last())
	}
}

func TestCalendar_Contains(t *testing.T) {
	cal, _ := New([]time.Time{day(2024, 3, 1), day(2024, 3, 4), day(2024, 3, 5)})

	tests := []struct {
		date time.Time
		want bool
	}{
		{day(2024, 3, 1), true},
		{day(2024, 3, 2), false}, // Saturday
		{day(2024, 3, 4), true},
		{time.Date(2024, 3, 4, 15, 30, 0, 0, time.UTC), true}, // time of day ignored
		{day(2024, 3, 6), false},
	}

	for _, tt := range tests {
		if got := cal.Contains(tt.date); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestCalendar_NextOnOrAfter(t *testing.T) {
	cal, _ := New([]time.Time{day(2024, 3, 1), day(2024, 3, 4), day(2024, 3, 5)})

	tests := []struct {
		name   string
		date   time.Time
		want   time.Time
		wantOK bool
	}{
		{"exact trading day resolves to itself", day(2024, 3, 4), day(2024, 3, 4), true},
		{"weekend advances to Monday", day(2024, 3, 2), day(2024, 3, 4), true},
		{"before range snaps to first", day(2024, 2, 20), day(2024, 3, 1), true},
		{"past range yields no date", day(2024, 3, 6), time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cal.NextOnOrAfter(tt.date)
			if ok != tt.wantOK {
				t.Fatalf("NextOnOrAfter(%v) ok = %v, want %v", tt.date, ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("NextOnOrAfter(%v) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}
