package commands

import (
	"fmt"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
	"github.com/viekt/finam-news-llm-analysis/internal/events"
	"github.com/viekt/finam-news-llm-analysis/internal/external/moex"
	"github.com/viekt/finam-news-llm-analysis/internal/loader"
	"github.com/viekt/finam-news-llm-analysis/internal/marketdata"
	"github.com/viekt/finam-news-llm-analysis/internal/portfolio"
	"github.com/viekt/finam-news-llm-analysis/pkg/config"
	"github.com/viekt/finam-news-llm-analysis/pkg/database"
	"github.com/viekt/finam-news-llm-analysis/pkg/httputil"
	"github.com/viekt/finam-news-llm-analysis/pkg/logger"
	"github.com/viekt/finam-news-llm-analysis/pkg/redis"
)

// deps holds everything a command wires up. Commands must call close()
// when done.
type deps struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *database.DB
	cache  *redis.Client
	runner *portfolio.Runner
}

func (d *deps) close() {
	if d.cache != nil {
		d.cache.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}

// initDeps builds the shared backtest pipeline: config, logger, postgres,
// optional redis cache and the runner on top.
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	cache, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var prices contracts.PriceSource = marketdata.NewPriceRepository(db.Pool)
	if cache.Enabled() {
		prices = marketdata.NewCachedPriceSource(prices, redis.NewCache(cache, "backtest"), log)
	}

	portfolioCfg, err := portfolio.NewConfig(cfg.Backtest)
	if err != nil {
		cache.Close()
		db.Close()
		return nil, fmt.Errorf("backtest config: %w", err)
	}

	calendars := marketdata.NewCalendarRepository(db.Pool, cfg.Backtest.IndexTicker)
	eventRepo := events.NewRepository(db.Pool)

	runner := portfolio.NewRunner(prices, calendars, eventRepo, portfolioCfg, log)

	return &deps{
		cfg:    cfg,
		log:    log,
		db:     db,
		cache:  cache,
		runner: runner,
	}, nil
}

// initCollector builds the MOEX candle collector on top of shared deps.
func initCollector(d *deps) *loader.Collector {
	httpClient := httputil.NewWithTimeout(d.log, d.cfg.MOEX.RequestTimeout)
	if d.cache.Enabled() {
		limiter := redis.NewRateLimiter(d.cache, "moex")
		httpClient = httpClient.WithRateLimiter(limiter, redis.RateLimitConfig{
			Key:    redis.MOEXRateLimit.Key,
			Limit:  d.cfg.MOEX.RateLimit,
			Window: d.cfg.MOEX.RateWindow,
		})
	}

	client := moex.NewClient(d.cfg.MOEX, httpClient, d.log)
	bars := marketdata.NewBarRepository(d.db.Pool)
	return loader.NewCollector(client, bars, d.log)
}
