package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/viekt/finam-news-llm-analysis/internal/loader"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch minute candles from MOEX ISS",
	Long: `Downloads one-minute candles for the given tickers and stores them in
the bar store. Include the benchmark index ticker so the trading calendar
stays complete.

Example:
  go run ./cmd/backtest fetch --tickers SBER,GAZP,IMOEX --from 2024-01-01 --to 2024-06-30
  go run ./cmd/backtest fetch --incremental`,
	RunE: runFetch,
}

var (
	fetchTickers     string
	fetchFrom        string
	fetchTo          string
	fetchWorkers     int
	fetchIncremental bool
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchTickers, "tickers", "", "comma-separated tickers (incremental mode: default all stored)")
	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "start date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "end date (YYYY-MM-DD, default: today)")
	fetchCmd.Flags().IntVar(&fetchWorkers, "workers", 4, "concurrent fetch workers")
	fetchCmd.Flags().BoolVar(&fetchIncremental, "incremental", false, "resume from the newest stored bar per ticker")
}

func runFetch(cmd *cobra.Command, args []string) error {
	var tickers []string
	for _, t := range strings.Split(fetchTickers, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tickers = append(tickers, strings.ToUpper(t))
		}
	}
	if len(tickers) == 0 && !fetchIncremental {
		return fmt.Errorf("--tickers is required unless --incremental is set")
	}

	from := time.Now().AddDate(0, 0, -30)
	if fetchFrom != "" {
		var err error
		from, err = time.Parse("2006-01-02", fetchFrom)
		if err != nil {
			return fmt.Errorf("invalid start date: %w", err)
		}
	}
	to := time.Now()
	if fetchTo != "" {
		var err error
		to, err = time.Parse("2006-01-02", fetchTo)
		if err != nil {
			return fmt.Errorf("invalid end date: %w", err)
		}
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	collector := initCollector(d)
	cfg := loader.Config{Workers: fetchWorkers}

	fmt.Println("=== MOEX Candle Fetch ===")
	fmt.Printf("Period: %s ~ %s\n\n", from.Format("2006-01-02"), to.Format("2006-01-02"))

	start := time.Now()
	var results []loader.FetchResult
	if fetchIncremental {
		results, err = collector.CollectIncremental(cmd.Context(), tickers, from, to, cfg)
	} else {
		results, err = collector.CollectBars(cmd.Context(), tickers, from, to, cfg)
	}
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
			fmt.Printf("%-8s FAILED: %v\n", res.Ticker, res.Error)
			continue
		}
		fmt.Printf("%-8s %d bars\n", res.Ticker, res.BarCount)
	}

	fmt.Printf("\n%d tickers, %d failed, %.2f seconds\n", len(results), failed, time.Since(start).Seconds())
	return nil
}
