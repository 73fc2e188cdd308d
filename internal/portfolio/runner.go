package portfolio

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/calendar"
	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
	"github.com/viekt/finam-news-llm-analysis/pkg/logger"
)

// Runner wires the full pipeline for one date range: trading calendar,
// event feed, return engine and aggregation. It holds only collaborator
// interfaces, so storage and transport stay swappable.
type Runner struct {
	prices    contracts.PriceSource
	calendars contracts.CalendarSource
	events    contracts.EventSource
	cfg       Config
	log       *logger.Logger
}

// NewRunner creates a pipeline runner.
func NewRunner(
	prices contracts.PriceSource,
	calendars contracts.CalendarSource,
	events contracts.EventSource,
	cfg Config,
	log *logger.Logger,
) *Runner {
	return &Runner{
		prices:    prices,
		calendars: calendars,
		events:    events,
		cfg:       cfg,
		log:       log,
	}
}

// RunRequest describes one strategy backtest.
type RunRequest struct {
	From          time.Time
	To            time.Time
	Mode          contracts.StrategyMode
	Seed          int64          // consulted by the random mode only
	SelfFinancing bool           // long/short book instead of plain averaging
	Selector      ReturnSelector // excess (default) or raw returns
}

// Run executes one backtest and returns its cumulative series.
func (r *Runner) Run(ctx context.Context, req RunRequest) (*contracts.CumulativeSeries, error) {
	engine, events, err := r.prepare(ctx, req.From, req.To)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(req.Seed))
	records, err := engine.ComputeAll(ctx, events, req.Mode, rng)
	if err != nil {
		return nil, fmt.Errorf("compute returns: %w", err)
	}

	r.log.WithFields(map[string]interface{}{
		"mode":   req.Mode.String(),
		"events": len(events),
		"priced": len(records),
	}).Info("Backtest computed")

	if req.SelfFinancing {
		return SelfFinancingCumulativeReturn(records), nil
	}
	return CumulativeReturn(records, req.Selector), nil
}

// BenchmarkRequest describes a random-signal Monte Carlo estimate.
type BenchmarkRequest struct {
	From         time.Time
	To           time.Time
	Runs         int
	SeedOffset   int64
	IncludeIndex bool
}

// RunBenchmark estimates the random-strategy null over the date range.
func (r *Runner) RunBenchmark(ctx context.Context, req BenchmarkRequest) (*BenchmarkResult, error) {
	engine, events, err := r.prepare(ctx, req.From, req.To)
	if err != nil {
		return nil, err
	}

	bench := NewBenchmark(engine, r.log)
	return bench.Estimate(ctx, events, BenchmarkConfig{
		Runs:         req.Runs,
		SeedOffset:   req.SeedOffset,
		IncludeIndex: req.IncludeIndex,
	})
}

// StrategyResult pairs a labeled strategy with its series.
type StrategyResult struct {
	Label  string
	Mode   contracts.StrategyMode
	Series *contracts.CumulativeSeries
}

// Compare runs the model-signal strategies against the naive always-long /
// always-short baselines. Directional model strategies use the
// self-financing construction; the naive single-sided baselines use plain
// cumulative averaging.
func (r *Runner) Compare(ctx context.Context, from, to time.Time) ([]StrategyResult, error) {
	strategies := []struct {
		label         string
		mode          contracts.StrategyMode
		selfFinancing bool
	}{
		{"GPT", contracts.StrategyDefault, true},
		{"Only long GPT", contracts.StrategyGPTLong, true},
		{"Only short GPT", contracts.StrategyGPTShort, true},
		{"All long", contracts.StrategyAllLong, false},
		{"All short", contracts.StrategyAllShort, false},
	}

	results := make([]StrategyResult, 0, len(strategies))
	for _, s := range strategies {
		series, err := r.Run(ctx, RunRequest{
			From:          from,
			To:            to,
			Mode:          s.mode,
			SelfFinancing: s.selfFinancing,
		})
		if err != nil {
			return nil, fmt.Errorf("strategy %s: %w", s.label, err)
		}
		results = append(results, StrategyResult{Label: s.label, Mode: s.mode, Series: series})
	}

	return results, nil
}

// Regression prices all alignable events without signal direction, for
// export to regression analysis.
func (r *Runner) Regression(ctx context.Context, from, to time.Time) ([]contracts.ReturnRecord, error) {
	engine, events, err := r.prepare(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return engine.RegressionRecords(ctx, events)
}

// prepare builds the calendar-bound engine and loads events for a range.
// An empty trading calendar is a fatal configuration error: alignment is
// impossible without one.
func (r *Runner) prepare(ctx context.Context, from, to time.Time) (*Engine, []contracts.Event, error) {
	dates, err := r.calendars.TradingDates(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("load trading dates: %w", err)
	}

	cal, err := calendar.New(dates)
	if err != nil {
		return nil, nil, fmt.Errorf("trading calendar %s..%s: %w",
			from.Format("2006-01-02"), to.Format("2006-01-02"), err)
	}

	resolver := calendar.NewResolver(cal, r.cfg.Session, r.cfg.EntryTime)
	engine := NewEngine(r.prices, resolver, r.cfg, r.log)

	events, err := r.events.Events(ctx, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("load events: %w", err)
	}

	return engine, events, nil
}
