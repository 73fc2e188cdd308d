package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/viekt/finam-news-llm-analysis/internal/portfolio"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare model strategies against naive baselines",
	Long: `Runs the standard strategy set over one period and prints their final
returns and risk metrics side by side: the model book, its long-only and
short-only halves, and the always-long / always-short baselines.

Example:
  go run ./cmd/backtest compare --from 2024-01-01 --to 2024-06-30`,
	RunE: runCompare,
}

var (
	compareFrom       string
	compareTo         string
	compareRandomRuns int
)

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareFrom, "from", "", "start date (YYYY-MM-DD, required)")
	compareCmd.Flags().StringVar(&compareTo, "to", "", "end date (YYYY-MM-DD, default: today)")
	compareCmd.Flags().IntVar(&compareRandomRuns, "random-runs", 100, "random baseline runs (0 disables)")

	compareCmd.MarkFlagRequired("from")
}

func runCompare(cmd *cobra.Command, args []string) error {
	from, to, err := parsePeriod(compareFrom, compareTo)
	if err != nil {
		return err
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	fmt.Println("=== Strategy Comparison ===")
	fmt.Printf("Period: %s ~ %s\n\n", from.Format("2006-01-02"), to.Format("2006-01-02"))

	start := time.Now()
	results, err := d.runner.Compare(cmd.Context(), from, to)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	fmt.Printf("%-16s %10s %8s %10s %10s\n", "Strategy", "Final", "Sharpe", "Mean/day", "MaxDD")
	for _, res := range results {
		if res.Series.Empty() {
			fmt.Printf("%-16s %10s\n", res.Label, "no events")
			continue
		}
		m := res.Series.Metrics
		fmt.Printf("%-16s %10.4f %8s %+9.4f%% %9.2f%%\n",
			res.Label, res.Series.Final(), formatSharpe(m.Sharpe), m.MeanPct, m.MaxDrawdownPct)
	}

	if compareRandomRuns > 0 {
		bench, err := d.runner.RunBenchmark(cmd.Context(), portfolio.BenchmarkRequest{
			From:       from,
			To:         to,
			Runs:       compareRandomRuns,
			SeedOffset: d.cfg.Backtest.SeedOffset,
		})
		if err != nil {
			return fmt.Errorf("random baseline failed: %w", err)
		}
		m := bench.Metrics
		final := 1.0
		if len(bench.Curve) > 0 {
			final = bench.Curve[len(bench.Curve)-1].MeanCumReturn
		}
		fmt.Printf("%-16s %10.4f %8s %+9.4f%% %9.2f%%\n",
			fmt.Sprintf("Random (n=%d)", bench.Runs), final, formatSharpe(m.Sharpe), m.MeanPct, m.MaxDrawdownPct)
	}

	fmt.Printf("\nDuration: %.2f seconds\n", time.Since(start).Seconds())
	return nil
}
