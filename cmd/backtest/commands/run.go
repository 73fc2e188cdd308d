package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
	"github.com/viekt/finam-news-llm-analysis/internal/portfolio"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one strategy backtest",
	Long: `Prices all labeled events in the period under one strategy mode and
prints the cumulative excess-return series with risk metrics.

Modes: default, all_long, all_short, random, gpt_long, gpt_short.

Example:
  go run ./cmd/backtest run --from 2024-01-01 --to 2024-06-30
  go run ./cmd/backtest run --from 2024-01-01 --to 2024-06-30 --strategy random --seed 42
  go run ./cmd/backtest run --from 2024-01-01 --to 2024-06-30 --self-financing`,
	RunE: runRun,
}

var (
	runFrom          string
	runTo            string
	runStrategy      string
	runSeed          int64
	runSelfFinancing bool
	runRawReturns    bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFrom, "from", "", "start date (YYYY-MM-DD, required)")
	runCmd.Flags().StringVar(&runTo, "to", "", "end date (YYYY-MM-DD, default: today)")
	runCmd.Flags().StringVar(&runStrategy, "strategy", "default", "strategy mode")
	runCmd.Flags().Int64Var(&runSeed, "seed", 0, "seed for the random mode")
	runCmd.Flags().BoolVar(&runSelfFinancing, "self-financing", false, "long/short book instead of plain averaging")
	runCmd.Flags().BoolVar(&runRawReturns, "raw", false, "aggregate raw instead of excess returns")

	runCmd.MarkFlagRequired("from")
}

func runRun(cmd *cobra.Command, args []string) error {
	from, to, err := parsePeriod(runFrom, runTo)
	if err != nil {
		return err
	}

	mode, err := contracts.ParseStrategyMode(runStrategy)
	if err != nil {
		return err
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	selector := portfolio.SelectExcess
	if runRawReturns {
		selector = portfolio.SelectRaw
	}

	fmt.Printf("=== Backtest: %s ===\n", mode)
	fmt.Printf("Period: %s ~ %s\n\n", from.Format("2006-01-02"), to.Format("2006-01-02"))

	start := time.Now()
	series, err := d.runner.Run(cmd.Context(), portfolio.RunRequest{
		From:          from,
		To:            to,
		Mode:          mode,
		Seed:          runSeed,
		SelfFinancing: runSelfFinancing,
		Selector:      selector,
	})
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	var reporter contracts.Reporter = consoleReporter{}
	if err := reporter.Report(cmd.Context(), "", series); err != nil {
		return err
	}
	fmt.Printf("\nDuration: %.2f seconds\n", time.Since(start).Seconds())

	return nil
}

// parsePeriod parses the shared --from/--to flags. An empty `to` defaults
// to now; `to` is extended to end of day.
func parsePeriod(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}

	to := time.Now()
	if toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
		}
		to = to.Add(24*time.Hour - time.Second)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date precedes start date")
	}

	return from, to, nil
}
