package commands

import (
	"context"
	"fmt"
	"math"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

// consoleReporter renders finished series to stdout. It is the only
// contracts.Reporter in the CLI; other frontends (the HTTP API) serialize
// series directly.
type consoleReporter struct{}

func (consoleReporter) Report(_ context.Context, label string, series *contracts.CumulativeSeries) error {
	if label != "" {
		fmt.Printf("--- %s ---\n", label)
	}
	printSeries(series)
	return nil
}

// seriesTail limits how many trailing periods a series print shows.
const seriesTail = 10

func printSeries(series *contracts.CumulativeSeries) {
	if series.Empty() {
		fmt.Println("No priced events in the period.")
		return
	}

	points := series.Points
	if len(points) > seriesTail {
		fmt.Printf("... (%d earlier periods)\n", len(points)-seriesTail)
		points = points[len(points)-seriesTail:]
	}
	for _, p := range points {
		fmt.Printf("%s  avg %+8.4f%%  cum %8.4f\n",
			p.PeriodKey.Format("2006-01-02"), p.AvgReturn*100, p.CumReturn)
	}

	fmt.Printf("\nFinal: %.4f (%+.2f%%)\n", series.Final(), (series.Final()-1)*100)
	printMetrics(series.Metrics)
}

func printMetrics(m contracts.RiskMetrics) {
	fmt.Printf("Sharpe: %s  Mean: %+.4f%%/day  Std: %.4f%%  MaxDD: %.2f%%\n",
		formatSharpe(m.Sharpe), m.MeanPct, m.StdPct, m.MaxDrawdownPct)
}

func formatSharpe(sharpe float64) string {
	if math.IsNaN(sharpe) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", sharpe)
}
