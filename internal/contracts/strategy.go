package contracts

import (
	"fmt"
	"math/rand"
)

// StrategyMode selects how model-derived signals are overlaid before
// pricing. The set is closed: parsing anything else fails.
type StrategyMode int

const (
	// StrategyDefault passes the labeled signal through unchanged.
	StrategyDefault StrategyMode = iota
	// StrategyAllLong forces every signal to +1.
	StrategyAllLong
	// StrategyAllShort forces every signal to -1.
	StrategyAllShort
	// StrategyRandom draws a fresh signal per event from {-1, 0, +1}
	// using the caller-supplied generator.
	StrategyRandom
	// StrategyGPTLong drops short-labeled events and keeps the rest.
	StrategyGPTLong
	// StrategyGPTShort drops long-labeled events and keeps the rest.
	StrategyGPTShort
)

var strategyNames = map[StrategyMode]string{
	StrategyDefault:  "default",
	StrategyAllLong:  "all_long",
	StrategyAllShort: "all_short",
	StrategyRandom:   "random",
	StrategyGPTLong:  "gpt_long",
	StrategyGPTShort: "gpt_short",
}

func (m StrategyMode) String() string {
	if name, ok := strategyNames[m]; ok {
		return name
	}
	return fmt.Sprintf("strategy(%d)", int(m))
}

// ParseStrategyMode converts a mode identifier to a StrategyMode.
// Unknown identifiers are a fatal input error, never a silent no-op.
func ParseStrategyMode(s string) (StrategyMode, error) {
	for mode, name := range strategyNames {
		if name == s {
			return mode, nil
		}
	}
	return StrategyDefault, fmt.Errorf("unknown strategy mode %q", s)
}

// Apply overlays the mode onto a slice of events, returning a new slice.
// The input is never mutated. rng is only consulted by StrategyRandom and
// must be non-nil for that mode.
func (m StrategyMode) Apply(events []Event, rng *rand.Rand) []Event {
	out := make([]Event, 0, len(events))
	for _, ev := range events {
		switch m {
		case StrategyDefault:
			out = append(out, ev)
		case StrategyAllLong:
			ev.Signal = SignalLong
			out = append(out, ev)
		case StrategyAllShort:
			ev.Signal = SignalShort
			out = append(out, ev)
		case StrategyRandom:
			ev.Signal = randomSignal(rng)
			out = append(out, ev)
		case StrategyGPTLong:
			if ev.Signal != SignalShort {
				out = append(out, ev)
			}
		case StrategyGPTShort:
			if ev.Signal != SignalLong {
				out = append(out, ev)
			}
		}
	}
	return out
}

var signalChoices = [3]Signal{SignalShort, SignalLong, SignalNeutral}

func randomSignal(rng *rand.Rand) Signal {
	return signalChoices[rng.Intn(len(signalChoices))]
}
