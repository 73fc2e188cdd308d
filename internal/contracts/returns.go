package contracts

import (
	"encoding/json"
	"math"
	"time"
)

// ReturnRecord is one priced event. ExcessReturn is always exactly
// RawReturn - IndexReturn; both legs use the same direction rule, so the
// excess is a long/short-adjusted alpha over the benchmark.
type ReturnRecord struct {
	EventTime    time.Time `json:"event_time"`
	TradeTime    time.Time `json:"trade_time"`
	Ticker       string    `json:"ticker"`
	Signal       Signal    `json:"signal"`
	RawReturn    float64   `json:"raw_return"`
	IndexReturn  float64   `json:"index_return"`
	ExcessReturn float64   `json:"excess_return"`
}

// SeriesPoint is one period of an aggregated return series.
type SeriesPoint struct {
	PeriodKey time.Time `json:"period_key"`
	AvgReturn float64   `json:"avg_return"`
	CumReturn float64   `json:"cumulative_return"`
}

// RiskMetrics describes a whole return series. Percentage fields are the
// fractional values multiplied by 100. Sharpe is NaN when the series has
// zero variance.
type RiskMetrics struct {
	Sharpe         float64 `json:"sharpe"`
	MeanPct        float64 `json:"mean_return_daily_pct"`
	StdPct         float64 `json:"std_daily_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
}

// MarshalJSON encodes a NaN Sharpe as null, since JSON has no NaN literal.
func (m RiskMetrics) MarshalJSON() ([]byte, error) {
	type alias struct {
		Sharpe         *float64 `json:"sharpe"`
		MeanPct        float64  `json:"mean_return_daily_pct"`
		StdPct         float64  `json:"std_daily_pct"`
		MaxDrawdownPct float64  `json:"max_drawdown_pct"`
	}
	a := alias{
		MeanPct:        m.MeanPct,
		StdPct:         m.StdPct,
		MaxDrawdownPct: m.MaxDrawdownPct,
	}
	if !math.IsNaN(m.Sharpe) {
		s := m.Sharpe
		a.Sharpe = &s
	}
	return json.Marshal(a)
}

// CumulativeSeries is a time-ordered compounded return series with one
// metrics block valid for the whole series.
type CumulativeSeries struct {
	Points  []SeriesPoint `json:"points"`
	Metrics RiskMetrics   `json:"metrics"`
}

// Empty reports whether the series has no periods.
func (s *CumulativeSeries) Empty() bool {
	return s == nil || len(s.Points) == 0
}

// Final returns the last cumulative value, or 1 for an empty series.
func (s *CumulativeSeries) Final() float64 {
	if s.Empty() {
		return 1
	}
	return s.Points[len(s.Points)-1].CumReturn
}
