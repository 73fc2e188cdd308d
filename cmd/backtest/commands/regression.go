package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var regressionCmd = &cobra.Command{
	Use:   "regression",
	Short: "Export direction-free event returns as CSV",
	Long: `Prices every alignable event without applying the signal direction and
writes one CSV row per event, for downstream regression analysis.

Example:
  go run ./cmd/backtest regression --from 2024-01-01 --to 2024-06-30 --out returns.csv`,
	RunE: runRegression,
}

var (
	regressionFrom string
	regressionTo   string
	regressionOut  string
)

func init() {
	rootCmd.AddCommand(regressionCmd)

	regressionCmd.Flags().StringVar(&regressionFrom, "from", "", "start date (YYYY-MM-DD, required)")
	regressionCmd.Flags().StringVar(&regressionTo, "to", "", "end date (YYYY-MM-DD, default: today)")
	regressionCmd.Flags().StringVar(&regressionOut, "out", "", "output file (default: stdout)")

	regressionCmd.MarkFlagRequired("from")
}

func runRegression(cmd *cobra.Command, args []string) error {
	from, to, err := parsePeriod(regressionFrom, regressionTo)
	if err != nil {
		return err
	}

	d, err := initDeps()
	if err != nil {
		return err
	}
	defer d.close()

	records, err := d.runner.Regression(cmd.Context(), from, to)
	if err != nil {
		return fmt.Errorf("regression export failed: %w", err)
	}

	out := os.Stdout
	if regressionOut != "" {
		out, err = os.Create(regressionOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"event_time", "trade_time", "ticker", "signal", "raw_return", "index_return", "excess_return"}); err != nil {
		return err
	}
	for _, rec := range records {
		row := []string{
			rec.EventTime.Format("2006-01-02 15:04:05"),
			rec.TradeTime.Format("2006-01-02 15:04:05"),
			rec.Ticker,
			strconv.Itoa(int(rec.Signal)),
			strconv.FormatFloat(rec.RawReturn, 'f', -1, 64),
			strconv.FormatFloat(rec.IndexReturn, 'f', -1, 64),
			strconv.FormatFloat(rec.ExcessReturn, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if regressionOut != "" {
		fmt.Printf("Wrote %d records to %s\n", len(records), regressionOut)
	}
	return nil
}
