package portfolio

import (
	"math"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

// tradingDaysPerYear annualizes the Sharpe ratio of daily returns.
const tradingDaysPerYear = 252

// computeMetrics derives risk metrics from a per-period return sequence.
// Std is the sample standard deviation; a zero-variance sequence yields a
// NaN Sharpe instead of dividing by zero. Drawdown is the minimum of
// (cumulative/peak - 1) over the compounded curve, a non-positive fraction.
func computeMetrics(returns []float64) contracts.RiskMetrics {
	if len(returns) == 0 {
		return contracts.RiskMetrics{Sharpe: math.NaN()}
	}

	mean := meanOf(returns)
	std := sampleStd(returns, mean)

	sharpe := math.NaN()
	if std > 0 {
		sharpe = mean / std * math.Sqrt(tradingDaysPerYear)
	}

	cum := 1.0
	peak := math.Inf(-1)
	maxDD := 0.0
	for _, r := range returns {
		cum *= 1 + r
		if cum > peak {
			peak = cum
		}
		if dd := (cum - peak) / peak; dd < maxDD {
			maxDD = dd
		}
	}

	return contracts.RiskMetrics{
		Sharpe:         sharpe,
		MeanPct:        mean * 100,
		StdPct:         std * 100,
		MaxDrawdownPct: maxDD * 100,
	}
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd uses the n-1 denominator; fewer than two samples have no
// dispersion estimate and report 0.
func sampleStd(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}

	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values) - 1)

	return math.Sqrt(variance)
}
