package portfolio

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
	"github.com/viekt/finam-news-llm-analysis/pkg/logger"
)

// BenchmarkConfig parameterizes the random-signal Monte Carlo benchmark.
type BenchmarkConfig struct {
	Runs         int   // number of simulated strategies
	SeedOffset   int64 // run i seeds its generator with SeedOffset + i
	IncludeIndex bool  // net out the benchmark's own return per run
}

// BenchmarkPoint is one period of the averaged benchmark curve. RunCount
// records how many runs had events on the period: periods absent from a
// run are excluded from that period's mean, not imputed as zero.
type BenchmarkPoint struct {
	PeriodKey     time.Time `json:"period_key"`
	MeanCumReturn float64   `json:"mean_cumulative_return"`
	RunCount      int       `json:"run_count"`
}

// BenchmarkResult is the expected performance of a random-signal strategy,
// the null hypothesis a real strategy's Sharpe and drawdown are compared
// against.
type BenchmarkResult struct {
	Curve   []BenchmarkPoint      `json:"curve"`
	Metrics contracts.RiskMetrics `json:"metrics"`
	Runs    int                   `json:"runs"`
}

// Benchmark estimates the random-strategy null distribution by repeatedly
// running the engine and self-financing aggregation under fresh random
// signals. Each run owns its own seeded generator, so results are fully
// reproducible and runs are isolated from each other and from global
// random state.
type Benchmark struct {
	engine *Engine
	log    *logger.Logger
}

// NewBenchmark creates a random benchmark around an engine.
func NewBenchmark(engine *Engine, log *logger.Logger) *Benchmark {
	return &Benchmark{engine: engine, log: log}
}

// Estimate runs cfg.Runs random-signal simulations over the events and
// averages the per-period cumulative returns and the scalar metrics across
// runs. Runs whose Sharpe is NaN (zero variance) are skipped when
// averaging Sharpe only.
func (b *Benchmark) Estimate(ctx context.Context, events []contracts.Event, cfg BenchmarkConfig) (*BenchmarkResult, error) {
	if cfg.Runs < 1 {
		return nil, fmt.Errorf("benchmark requires at least one run, got %d", cfg.Runs)
	}

	engine := b.engine.withIncludeIndex(cfg.IncludeIndex)

	type accum struct {
		sum float64
		n   int
	}
	curveSums := make(map[time.Time]*accum)

	var (
		sharpeSum, meanSum, stdSum, ddSum float64
		sharpeRuns, scoredRuns            int
	)

	for i := 0; i < cfg.Runs; i++ {
		rng := rand.New(rand.NewSource(cfg.SeedOffset + int64(i)))

		records, err := engine.ComputeAll(ctx, events, contracts.StrategyRandom, rng)
		if err != nil {
			return nil, fmt.Errorf("benchmark run %d: %w", i, err)
		}

		series := SelfFinancingCumulativeReturn(records)
		if series.Empty() {
			b.log.WithField("run", i).Warn("Benchmark run produced no priced events")
			continue
		}

		for _, p := range series.Points {
			acc := curveSums[p.PeriodKey]
			if acc == nil {
				acc = &accum{}
				curveSums[p.PeriodKey] = acc
			}
			acc.sum += p.CumReturn
			acc.n++
		}

		scoredRuns++
		meanSum += series.Metrics.MeanPct
		stdSum += series.Metrics.StdPct
		ddSum += series.Metrics.MaxDrawdownPct
		if !math.IsNaN(series.Metrics.Sharpe) {
			sharpeSum += series.Metrics.Sharpe
			sharpeRuns++
		}
	}

	if scoredRuns == 0 {
		return nil, fmt.Errorf("no benchmark run produced priced events")
	}

	keys := make([]time.Time, 0, len(curveSums))
	for key := range curveSums {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	curve := make([]BenchmarkPoint, 0, len(keys))
	for _, key := range keys {
		acc := curveSums[key]
		curve = append(curve, BenchmarkPoint{
			PeriodKey:     key,
			MeanCumReturn: acc.sum / float64(acc.n),
			RunCount:      acc.n,
		})
	}

	metrics := contracts.RiskMetrics{
		Sharpe:         math.NaN(),
		MeanPct:        meanSum / float64(scoredRuns),
		StdPct:         stdSum / float64(scoredRuns),
		MaxDrawdownPct: ddSum / float64(scoredRuns),
	}
	if sharpeRuns > 0 {
		metrics.Sharpe = sharpeSum / float64(sharpeRuns)
	}

	b.log.WithFields(map[string]interface{}{
		"runs":    scoredRuns,
		"periods": len(curve),
		"sharpe":  metrics.Sharpe,
	}).Info("Random benchmark estimated")

	return &BenchmarkResult{Curve: curve, Metrics: metrics, Runs: scoredRuns}, nil
}
