package contracts

import (
	"math/rand"
	"testing"
	"time"
)

func testEvents() []Event {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Event{
		{Ticker: "SBER", EventTime: base, Signal: SignalLong},
		{Ticker: "GAZP", EventTime: base.Add(time.Hour), Signal: SignalShort},
		{Ticker: "LKOH", EventTime: base.Add(2 * time.Hour), Signal: SignalNeutral},
	}
}

func TestParseStrategyMode(t *testing.T) {
	tests := []struct {
		input   string
		want    StrategyMode
		wantErr bool
	}{
		{"default", StrategyDefault, false},
		{"all_long", StrategyAllLong, false},
		{"all_short", StrategyAllShort, false},
		{"random", StrategyRandom, false},
		{"gpt_long", StrategyGPTLong, false},
		{"gpt_short", StrategyGPTShort, false},
		{"buy_and_hold", StrategyDefault, true},
		{"", StrategyDefault, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrategyMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStrategyMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseStrategyMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStrategyMode_Apply(t *testing.T) {
	events := testEvents()

	t.Run("default passes through", func(t *testing.T) {
		out := StrategyDefault.Apply(events, nil)
		if len(out) != 3 {
			t.Fatalf("got %d events, want 3", len(out))
		}
		for i, ev := range out {
			if ev.Signal != events[i].Signal {
				t.Errorf("event %d signal changed: got %d, want %d", i, ev.Signal, events[i].Signal)
			}
		}
	})

	t.Run("all_long forces +1", func(t *testing.T) {
		for _, ev := range StrategyAllLong.Apply(events, nil) {
			if ev.Signal != SignalLong {
				t.Errorf("got signal %d, want %d", ev.Signal, SignalLong)
			}
		}
	})

	t.Run("all_short forces -1", func(t *testing.T) {
		for _, ev := range StrategyAllShort.Apply(events, nil) {
			if ev.Signal != SignalShort {
				t.Errorf("got signal %d, want %d", ev.Signal, SignalShort)
			}
		}
	})

	t.Run("gpt_long drops shorts", func(t *testing.T) {
		out := StrategyGPTLong.Apply(events, nil)
		if len(out) != 2 {
			t.Fatalf("got %d events, want 2", len(out))
		}
		for _, ev := range out {
			if ev.Signal == SignalShort {
				t.Errorf("short event %s survived gpt_long", ev.Ticker)
			}
		}
	})

	t.Run("gpt_short drops longs", func(t *testing.T) {
		out := StrategyGPTShort.Apply(events, nil)
		if len(out) != 2 {
			t.Fatalf("got %d events, want 2", len(out))
		}
		for _, ev := range out {
			if ev.Signal == SignalLong {
				t.Errorf("long event %s survived gpt_short", ev.Ticker)
			}
		}
	})

	t.Run("input is not mutated", func(t *testing.T) {
		StrategyAllShort.Apply(events, nil)
		if events[0].Signal != SignalLong {
			t.Error("Apply mutated the input slice")
		}
	})
}

func TestStrategyRandom_Deterministic(t *testing.T) {
	events := testEvents()

	a := StrategyRandom.Apply(events, rand.New(rand.NewSource(42)))
	b := StrategyRandom.Apply(events, rand.New(rand.NewSource(42)))

	for i := range a {
		if a[i].Signal != b[i].Signal {
			t.Fatalf("event %d: signals differ across identically seeded draws: %d vs %d", i, a[i].Signal, b[i].Signal)
		}
	}
}
