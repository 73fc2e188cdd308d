package portfolio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

func rec(ticker string, tradeTime time.Time, sig contracts.Signal, raw, excess float64) contracts.ReturnRecord {
	return contracts.ReturnRecord{
		Ticker:       ticker,
		EventTime:    tradeTime.Add(-3 * time.Hour),
		TradeTime:    tradeTime,
		Signal:       sig,
		RawReturn:    raw,
		IndexReturn:  raw - excess,
		ExcessReturn: excess,
	}
}

func TestCumulativeReturn_SameDayAveraging(t *testing.T) {
	records := []contracts.ReturnRecord{
		rec("ABC", at(2024, 3, 1, 10, 1), contracts.SignalLong, 0.03, 0.02),
		rec("DEF", at(2024, 3, 1, 10, 1), contracts.SignalLong, 0.07, 0.06),
	}

	series := CumulativeReturn(records, SelectExcess)
	require.Len(t, series.Points, 1)

	pt := series.Points[0]
	assert.Equal(t, day(2024, 3, 1), pt.PeriodKey)
	assert.InDelta(t, 0.04, pt.AvgReturn, 1e-12)
	assert.InDelta(t, 1.04, pt.CumReturn, 1e-12)
	assert.Equal(t, 0.0, series.Metrics.MaxDrawdownPct)
}

func TestCumulativeReturn_SortsByTradeDate(t *testing.T) {
	records := []contracts.ReturnRecord{
		rec("ABC", at(2024, 3, 5, 10, 1), contracts.SignalLong, 0.02, 0.02),
		rec("ABC", at(2024, 3, 1, 10, 1), contracts.SignalLong, 0.01, 0.01),
		rec("ABC", at(2024, 3, 4, 10, 1), contracts.SignalShort, -0.03, -0.03),
	}

	series := CumulativeReturn(records, SelectExcess)
	require.Len(t, series.Points, 3)

	assert.Equal(t, day(2024, 3, 1), series.Points[0].PeriodKey)
	assert.Equal(t, day(2024, 3, 4), series.Points[1].PeriodKey)
	assert.Equal(t, day(2024, 3, 5), series.Points[2].PeriodKey)

	assert.InDelta(t, 1.01, series.Points[0].CumReturn, 1e-12)
	assert.InDelta(t, 1.01*0.97, series.Points[1].CumReturn, 1e-12)
	assert.InDelta(t, 1.01*0.97*1.02, series.Points[2].CumReturn, 1e-12)
	assert.InDelta(t, series.Final(), series.Points[2].CumReturn, 1e-12)
}

func TestCumulativeReturn_RawSelector(t *testing.T) {
	records := []contracts.ReturnRecord{
		rec("ABC", at(2024, 3, 1, 10, 1), contracts.SignalLong, 0.05, 0.02),
	}

	series := CumulativeReturn(records, SelectRaw)
	require.Len(t, series.Points, 1)
	assert.InDelta(t, 0.05, series.Points[0].AvgReturn, 1e-12)
}

func TestCumulativeReturn_Empty(t *testing.T) {
	series := CumulativeReturn(nil, SelectExcess)
	assert.True(t, series.Empty())
	assert.Equal(t, 1.0, series.Final())
}

func TestSelfFinancing_BothLegs(t *testing.T) {
	records := []contracts.ReturnRecord{
		rec("ABC", at(2024, 3, 1, 10, 1), contracts.SignalLong, 0.04, 0.04),
		rec("DEF", at(2024, 3, 1, 10, 1), contracts.SignalLong, 0.02, 0.02),
		rec("GHI", at(2024, 3, 1, 10, 1), contracts.SignalShort, 0.01, 0.01),
	}

	series := SelfFinancingCumulativeReturn(records)
	require.Len(t, series.Points, 1)

	// long leg mean 0.03 + short leg mean 0.01
	assert.InDelta(t, 0.04, series.Points[0].AvgReturn, 1e-12)
	assert.InDelta(t, 1.04, series.Points[0].CumReturn, 1e-12)
}

func TestSelfFinancing_MissingLegContributesZero(t *testing.T) {
	records := []contracts.ReturnRecord{
		rec("ABC", at(2024, 3, 1, 10, 1), contracts.SignalLong, 0.02, 0.02),
		rec("DEF", at(2024, 3, 4, 10, 1), contracts.SignalShort, -0.01, -0.01),
	}

	series := SelfFinancingCumulativeReturn(records)
	require.Len(t, series.Points, 2)

	assert.InDelta(t, 0.02, series.Points[0].AvgReturn, 1e-12)
	assert.InDelta(t, -0.01, series.Points[1].AvgReturn, 1e-12)
}

func TestSelfFinancing_NeutralExcluded(t *testing.T) {
	records := []contracts.ReturnRecord{
		rec("ABC", at(2024, 3, 1, 10, 1), contracts.SignalNeutral, 0.5, 0.5),
	}

	series := SelfFinancingCumulativeReturn(records)
	assert.True(t, series.Empty())
}

func TestSelfFinancing_LongOnlyMatchesPlainCumulative(t *testing.T) {
	records := []contracts.ReturnRecord{
		rec("ABC", at(2024, 3, 1, 10, 1), contracts.SignalLong, 0.03, 0.01),
		rec("DEF", at(2024, 3, 1, 10, 1), contracts.SignalLong, 0.05, 0.03),
		rec("ABC", at(2024, 3, 4, 10, 1), contracts.SignalLong, -0.02, -0.04),
	}

	sf := SelfFinancingCumulativeReturn(records)
	plain := CumulativeReturn(records, SelectExcess)

	require.Equal(t, len(plain.Points), len(sf.Points))
	for i := range plain.Points {
		assert.Equal(t, plain.Points[i].PeriodKey, sf.Points[i].PeriodKey)
		assert.InDelta(t, plain.Points[i].AvgReturn, sf.Points[i].AvgReturn, 1e-12)
		assert.InDelta(t, plain.Points[i].CumReturn, sf.Points[i].CumReturn, 1e-12)
	}
}
