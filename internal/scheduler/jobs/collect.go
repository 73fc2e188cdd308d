package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/loader"
	"github.com/viekt/finam-news-llm-analysis/pkg/logger"
)

// CollectBarsJob pulls the latest candles for all stored tickers every
// night after the evening session closes.
type CollectBarsJob struct {
	collector *loader.Collector
	logger    *logger.Logger
	workers   int
	lookback  time.Duration
}

// NewCollectBarsJob creates the nightly collection job. lookback bounds
// how far back a ticker with no stored bars is fetched.
func NewCollectBarsJob(collector *loader.Collector, log *logger.Logger, workers int, lookback time.Duration) *CollectBarsJob {
	if workers < 1 {
		workers = 4
	}
	return &CollectBarsJob{
		collector: collector,
		logger:    log,
		workers:   workers,
		lookback:  lookback,
	}
}

// Name implements scheduler.Job.
func (j *CollectBarsJob) Name() string { return "collect_bars" }

// Schedule runs at 23:30 daily, after the evening session close.
func (j *CollectBarsJob) Schedule() string { return "0 30 23 * * *" }

// Run implements scheduler.Job.
func (j *CollectBarsJob) Run(ctx context.Context) error {
	now := time.Now()
	from := now.Add(-j.lookback)

	results, err := j.collector.CollectIncremental(ctx, nil, from, now, loader.Config{Workers: j.workers})
	if err != nil {
		return fmt.Errorf("incremental collection: %w", err)
	}

	failed := 0
	bars := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
			continue
		}
		bars += res.BarCount
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers": len(results),
		"bars":    bars,
		"failed":  failed,
	}).Info("Nightly bar collection finished")

	if failed == len(results) && len(results) > 0 {
		return fmt.Errorf("all %d tickers failed to collect", failed)
	}
	return nil
}
