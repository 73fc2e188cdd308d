package portfolio

import (
	"math"
	"testing"
)

func TestComputeMetrics_Empty(t *testing.T) {
	m := computeMetrics(nil)
	if !math.IsNaN(m.Sharpe) {
		t.Errorf("Sharpe = %v, want NaN", m.Sharpe)
	}
	if m.MeanPct != 0 || m.StdPct != 0 || m.MaxDrawdownPct != 0 {
		t.Errorf("empty metrics not zeroed: %+v", m)
	}
}

func TestComputeMetrics_ZeroVariance(t *testing.T) {
	m := computeMetrics([]float64{0.01, 0.01, 0.01})
	if !math.IsNaN(m.Sharpe) {
		t.Errorf("Sharpe = %v, want NaN for constant returns", m.Sharpe)
	}
	if got, want := m.MeanPct, 1.0; math.Abs(got-want) > 1e-12 {
		t.Errorf("MeanPct = %v, want %v", got, want)
	}
	if m.StdPct != 0 {
		t.Errorf("StdPct = %v, want 0", m.StdPct)
	}
}

func TestComputeMetrics_SingleSample(t *testing.T) {
	// One observation has no sample deviation, so Sharpe is undefined.
	m := computeMetrics([]float64{0.05})
	if !math.IsNaN(m.Sharpe) {
		t.Errorf("Sharpe = %v, want NaN", m.Sharpe)
	}
	if m.MaxDrawdownPct != 0 {
		t.Errorf("MaxDrawdownPct = %v, want 0 for a rising single step", m.MaxDrawdownPct)
	}
}

func TestComputeMetrics_ThreeDayScenario(t *testing.T) {
	returns := []float64{0.05, -0.10, 0.05}
	m := computeMetrics(returns)

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= 3

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / 2)

	if got, want := m.MeanPct, mean*100; math.Abs(got-want) > 1e-12 {
		t.Errorf("MeanPct = %v, want %v", got, want)
	}
	if got, want := m.StdPct, std*100; math.Abs(got-want) > 1e-12 {
		t.Errorf("StdPct = %v, want %v", got, want)
	}
	if got, want := m.Sharpe, mean/std*math.Sqrt(252); math.Abs(got-want) > 1e-12 {
		t.Errorf("Sharpe = %v, want %v", got, want)
	}

	// Curve: 1.05, 0.945, 0.99225. Peak 1.05, trough 0.945.
	wantDD := (0.945 - 1.05) / 1.05 * 100
	if math.Abs(m.MaxDrawdownPct-wantDD) > 1e-9 {
		t.Errorf("MaxDrawdownPct = %v, want %v", m.MaxDrawdownPct, wantDD)
	}
}

func TestComputeMetrics_MonotonicGrowthHasNoDrawdown(t *testing.T) {
	m := computeMetrics([]float64{0.01, 0.02, 0.005})
	if m.MaxDrawdownPct != 0 {
		t.Errorf("MaxDrawdownPct = %v, want 0", m.MaxDrawdownPct)
	}
}

func TestSampleStd_FewerThanTwo(t *testing.T) {
	if got := sampleStd([]float64{0.3}, 0.3); got != 0 {
		t.Errorf("sampleStd = %v, want 0", got)
	}
	if got := sampleStd(nil, 0); got != 0 {
		t.Errorf("sampleStd(nil) = %v, want 0", got)
	}
}
