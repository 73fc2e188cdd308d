package commands

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "backtest",
	Short: "News-event trading backtest engine",
	Long: `Estimates the market impact of LLM-labeled news events.

Each labeled event is aligned to the next tradable execution slot, priced
over the intraday execution window and netted against the benchmark index.
Aggregated strategies are compared to naive and random baselines.

Usage:
  go run ./cmd/backtest [command]

Examples:
  go run ./cmd/backtest run --from 2024-01-01 --to 2024-06-30
  go run ./cmd/backtest benchmark --from 2024-01-01 --to 2024-06-30 --runs 100
  go run ./cmd/backtest compare --from 2024-01-01 --to 2024-06-30
  go run ./cmd/backtest fetch --tickers SBER,GAZP,IMOEX --from 2024-01-01
  go run ./cmd/backtest api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
