package marketdata

import (
	"context"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
	"github.com/viekt/finam-news-llm-analysis/pkg/logger"
	"github.com/viekt/finam-news-llm-analysis/pkg/redis"
)

// CachedPriceSource decorates a PriceSource with a Redis read-through
// cache keyed on (ticker, window). Benchmark runs re-price the same
// windows hundreds of times, so settled daily bars cache for a full day.
// Cache failures fall back to the underlying source.
type CachedPriceSource struct {
	source contracts.PriceSource
	cache  *redis.Cache
	log    *logger.Logger
}

// NewCachedPriceSource wraps a price source with caching.
func NewCachedPriceSource(source contracts.PriceSource, cache *redis.Cache, log *logger.Logger) *CachedPriceSource {
	return &CachedPriceSource{source: source, cache: cache, log: log}
}

// FetchDaily returns cached bars when present, otherwise delegates and
// stores the result. Empty windows are cached too: a ticker with no bars
// stays empty for the whole TTL.
func (s *CachedPriceSource) FetchDaily(ctx context.Context, ticker string, start, end time.Time) ([]contracts.PriceBar, error) {
	key := redis.DailyBarsKey(ticker, start, end)

	var cached []contracts.PriceBar
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Bar cache read failed")
	} else if hit {
		return cached, nil
	}

	bars, err := s.source.FetchDaily(ctx, ticker, start, end)
	if err != nil {
		return nil, err
	}

	if bars == nil {
		bars = []contracts.PriceBar{}
	}
	if err := s.cache.Set(ctx, key, bars, redis.TTLDaily); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Bar cache write failed")
	}

	return bars, nil
}
