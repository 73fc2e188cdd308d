package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/external/moex"
	"github.com/viekt/finam-news-llm-analysis/internal/marketdata"
	"github.com/viekt/finam-news-llm-analysis/pkg/logger"
)

// Collector orchestrates candle collection from MOEX ISS into the bar
// store. Tickers are fetched concurrently; writes stay per-ticker.
type Collector struct {
	client *moex.Client
	bars   *marketdata.BarRepository
	logger *logger.Logger
}

// Config holds collector configuration.
type Config struct {
	Workers int // number of concurrent fetch workers
}

// NewCollector creates a new Collector instance.
func NewCollector(client *moex.Client, bars *marketdata.BarRepository, log *logger.Logger) *Collector {
	return &Collector{
		client: client,
		bars:   bars,
		logger: log.WithField("module", "collector"),
	}
}

// FetchResult represents the outcome for one ticker.
type FetchResult struct {
	Ticker   string
	BarCount int
	Error    error
}

// CollectBars fetches minute candles for every ticker over [from, to] and
// stores them. Per-ticker failures are reported in the results, not
// returned as an error: one dead ticker must not abort a whole run.
func (c *Collector) CollectBars(ctx context.Context, tickers []string, from, to time.Time, cfg Config) ([]FetchResult, error) {
	if len(tickers) == 0 {
		return nil, nil
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	c.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
		"workers": workers,
	}).Info("Starting candle collection")

	tickerCh := make(chan string, len(tickers))
	resultCh := make(chan FetchResult, len(tickers))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range tickerCh {
				resultCh <- c.collectOne(ctx, ticker, from, to)
			}
		}()
	}

	for _, ticker := range tickers {
		tickerCh <- ticker
	}
	close(tickerCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]FetchResult, 0, len(tickers))
	successCount, failCount := 0, 0
	for result := range resultCh {
		results = append(results, result)
		if result.Error != nil {
			failCount++
		} else {
			successCount++
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"success": successCount,
		"failed":  failCount,
	}).Info("Candle collection completed")

	return results, nil
}

// CollectIncremental resumes collection from the newest stored bar per
// ticker, falling back to `from` for tickers with no history.
func (c *Collector) CollectIncremental(ctx context.Context, tickers []string, from, to time.Time, cfg Config) ([]FetchResult, error) {
	if len(tickers) == 0 {
		var err error
		tickers, err = c.bars.Tickers(ctx)
		if err != nil {
			return nil, fmt.Errorf("list stored tickers: %w", err)
		}
	}

	results := make([]FetchResult, 0, len(tickers))
	for _, ticker := range tickers {
		latest, err := c.bars.LatestBarTime(ctx, ticker)
		if err != nil {
			results = append(results, FetchResult{Ticker: ticker, Error: fmt.Errorf("latest bar time: %w", err)})
			continue
		}
		start := from
		if latest.After(start) {
			start = latest
		}
		results = append(results, c.collectOne(ctx, ticker, start, to))
	}
	return results, nil
}

func (c *Collector) collectOne(ctx context.Context, ticker string, from, to time.Time) FetchResult {
	bars, err := c.client.Candles(ctx, ticker, from, to)
	if err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Error("Candle fetch failed")
		return FetchResult{Ticker: ticker, Error: err}
	}

	if err := c.bars.SaveBatch(ctx, bars); err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Error("Candle save failed")
		return FetchResult{Ticker: ticker, Error: err}
	}

	return FetchResult{Ticker: ticker, BarCount: len(bars)}
}
