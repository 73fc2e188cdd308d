package contracts

import "time"

// PriceBar is one daily open/close bar for a ticker. Bars handed to the
// engine are already aggregated to one per calendar date: first open and
// last close of the intraday bars inside the requested window.
type PriceBar struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	Close  float64   `json:"close"`
}

// IntradayBar is one raw minute/hour candle as ingested from the exchange.
type IntradayBar struct {
	Ticker string    `json:"ticker"`
	Begin  time.Time `json:"begin"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}
