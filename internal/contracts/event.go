package contracts

import "time"

// Signal is the directional label attached to a news event.
// +1 expects the price to rise, -1 expects it to fall, 0 is neutral.
type Signal int8

const (
	SignalShort   Signal = -1
	SignalNeutral Signal = 0
	SignalLong    Signal = 1
)

// IsDirectional reports whether the signal carries an expected direction.
func (s Signal) IsDirectional() bool {
	return s != SignalNeutral
}

// Event is one labeled news record entering the backtest.
// Title, Prompt and Explanation come from the labeling stage and are
// carried through unchanged.
type Event struct {
	Ticker      string    `json:"ticker"`
	EventTime   time.Time `json:"event_time"`
	Signal      Signal    `json:"signal"`
	Title       string    `json:"title,omitempty"`
	Prompt      string    `json:"prompt,omitempty"`
	Explanation string    `json:"explanation,omitempty"`
}
