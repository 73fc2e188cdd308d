package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/viekt/finam-news-llm-analysis/internal/portfolio"
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Estimate the random-strategy baseline",
	Long: `Runs many random-signal simulations over the period and averages
their self-financing curves and risk metrics. The result is the null
hypothesis a real strategy has to beat.

Example:
  go run ./cmd/backtest benchmark --from 2024-01-01 --to 2024-06-30
  go run ./cmd/backtest benchmark --from 2024-01-01 --to 2024-06-30 --runs 500 --seed-offset 1000`,
	RunE: runBenchmark,
}

var (
	benchFrom         string
	benchTo           string
	benchRuns         int
	benchSeedOffset   int64
	benchIncludeIndex bool
)

func init() {
	rootCmd.AddCommand(benchmarkCmd)

	benchmarkCmd.Flags().StringVar(&benchFrom, "from", "", "start date (YYYY-MM-DD, required)")
	benchmarkCmd.Flags().StringVar(&benchTo, "to", "", "end date (YYYY-MM-DD, default: today)")
	benchmarkCmd.Flags().IntVar(&benchRuns, "runs", 0, "number of random runs (default from config)")
	benchmarkCmd.Flags().Int64Var(&benchSeedOffset, "seed-offset", 0, "base seed, run i uses seed-offset+i")
	benchmarkCmd.Flags().BoolVar(&benchIncludeIndex, "include-index", false, "net out the index per run")

	benchmarkCmd.MarkFlagRequired("from")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	from, to, err := parsePeriod(benchFrom, benchTo)
	if err != nil {
		return err
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	runs := benchRuns
	if runs < 1 {
		runs = d.cfg.Backtest.BenchmarkRuns
	}
	seedOffset := benchSeedOffset
	if seedOffset == 0 {
		seedOffset = d.cfg.Backtest.SeedOffset
	}

	fmt.Println("=== Random Benchmark ===")
	fmt.Printf("Period: %s ~ %s, %d runs\n\n", from.Format("2006-01-02"), to.Format("2006-01-02"), runs)

	start := time.Now()
	result, err := d.runner.RunBenchmark(cmd.Context(), portfolio.BenchmarkRequest{
		From:         from,
		To:           to,
		Runs:         runs,
		SeedOffset:   seedOffset,
		IncludeIndex: benchIncludeIndex,
	})
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	curve := result.Curve
	if len(curve) > seriesTail {
		fmt.Printf("... (%d earlier periods)\n", len(curve)-seriesTail)
		curve = curve[len(curve)-seriesTail:]
	}
	for _, p := range curve {
		fmt.Printf("%s  mean cum %8.4f  (%d/%d runs)\n",
			p.PeriodKey.Format("2006-01-02"), p.MeanCumReturn, p.RunCount, result.Runs)
	}

	fmt.Printf("\nAveraged over %d runs:\n", result.Runs)
	printMetrics(result.Metrics)
	fmt.Printf("Duration: %.2f seconds\n", time.Since(start).Seconds())

	return nil
}
