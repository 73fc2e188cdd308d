package portfolio

import (
	"sort"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/calendar"
	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

// ReturnSelector picks which return of a record feeds the aggregation.
type ReturnSelector int

const (
	// SelectExcess aggregates the benchmark-adjusted return.
	SelectExcess ReturnSelector = iota
	// SelectRaw aggregates the unadjusted asset return.
	SelectRaw
)

func (s ReturnSelector) of(r contracts.ReturnRecord) float64 {
	if s == SelectRaw {
		return r.RawReturn
	}
	return r.ExcessReturn
}

// CumulativeReturn groups records by trade date, averages the selected
// return within each date, sorts ascending and compounds the averages into
// a cumulative series with attached risk metrics.
func CumulativeReturn(records []contracts.ReturnRecord, sel ReturnSelector) *contracts.CumulativeSeries {
	groups := make(map[time.Time][]float64)
	for _, rec := range records {
		key := calendar.DateOf(rec.TradeTime)
		groups[key] = append(groups[key], sel.of(rec))
	}

	keys := sortedKeys(groups)

	points := make([]contracts.SeriesPoint, 0, len(keys))
	avgs := make([]float64, 0, len(keys))
	cum := 1.0
	for _, key := range keys {
		avg := meanOf(groups[key])
		cum *= 1 + avg
		avgs = append(avgs, avg)
		points = append(points, contracts.SeriesPoint{PeriodKey: key, AvgReturn: avg, CumReturn: cum})
	}

	return &contracts.CumulativeSeries{Points: points, Metrics: computeMetrics(avgs)}
}

// SelfFinancingCumulativeReturn models a zero-net-exposure long/short book:
// long-leg (signal=+1) and short-leg (signal=-1) returns are averaged
// separately per trade date, a leg with no events contributes 0, and the
// two legs sum into one daily return before compounding. Neutral events
// belong to neither leg.
func SelfFinancingCumulativeReturn(records []contracts.ReturnRecord) *contracts.CumulativeSeries {
	longs := make(map[time.Time][]float64)
	shorts := make(map[time.Time][]float64)
	for _, rec := range records {
		key := calendar.DateOf(rec.TradeTime)
		switch rec.Signal {
		case contracts.SignalLong:
			longs[key] = append(longs[key], rec.ExcessReturn)
		case contracts.SignalShort:
			shorts[key] = append(shorts[key], rec.ExcessReturn)
		}
	}

	union := make(map[time.Time][]float64, len(longs)+len(shorts))
	for key := range longs {
		union[key] = nil
	}
	for key := range shorts {
		union[key] = nil
	}
	keys := sortedKeys(union)

	points := make([]contracts.SeriesPoint, 0, len(keys))
	daily := make([]float64, 0, len(keys))
	cum := 1.0
	for _, key := range keys {
		ret := 0.0
		if leg := longs[key]; len(leg) > 0 {
			ret += meanOf(leg)
		}
		if leg := shorts[key]; len(leg) > 0 {
			ret += meanOf(leg)
		}
		cum *= 1 + ret
		daily = append(daily, ret)
		points = append(points, contracts.SeriesPoint{PeriodKey: key, AvgReturn: ret, CumReturn: cum})
	}

	return &contracts.CumulativeSeries{Points: points, Metrics: computeMetrics(daily)}
}

func sortedKeys(groups map[time.Time][]float64) []time.Time {
	keys := make([]time.Time, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	return keys
}
