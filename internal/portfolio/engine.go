package portfolio

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/calendar"
	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
	"github.com/viekt/finam-news-llm-analysis/pkg/config"
	"github.com/viekt/finam-news-llm-analysis/pkg/logger"
)

// Config holds the parameters of one backtest. It is passed explicitly
// into constructors; nothing in this package reads process-wide state, so
// several backtests with different parameters can run side by side.
type Config struct {
	IndexTicker    string
	Session        contracts.SessionWindow
	EntryTime      contracts.TimeOfDay
	ExitTime       contracts.TimeOfDay
	IncludeIndex   bool
	ExcludeNeutral bool
}

// NewConfig parses the string-typed knobs from the environment config.
func NewConfig(bc config.BacktestConfig) (Config, error) {
	open, err := contracts.ParseTimeOfDay(bc.SessionOpen)
	if err != nil {
		return Config{}, fmt.Errorf("session open: %w", err)
	}
	close, err := contracts.ParseTimeOfDay(bc.SessionClose)
	if err != nil {
		return Config{}, fmt.Errorf("session close: %w", err)
	}
	entry, err := contracts.ParseTimeOfDay(bc.EntryTime)
	if err != nil {
		return Config{}, fmt.Errorf("entry time: %w", err)
	}
	exit, err := contracts.ParseTimeOfDay(bc.ExitTime)
	if err != nil {
		return Config{}, fmt.Errorf("exit time: %w", err)
	}

	return Config{
		IndexTicker:    bc.IndexTicker,
		Session:        contracts.SessionWindow{Open: open, Close: close},
		EntryTime:      entry,
		ExitTime:       exit,
		IncludeIndex:   bc.IncludeIndex,
		ExcludeNeutral: bc.ExcludeNeutral,
	}, nil
}

// Engine prices individual events: it aligns them to tradable slots and
// computes signal-directed raw, index and excess returns.
type Engine struct {
	prices   contracts.PriceSource
	resolver *calendar.Resolver
	cfg      Config
	log      *logger.Logger
}

// NewEngine creates a return engine.
func NewEngine(prices contracts.PriceSource, resolver *calendar.Resolver, cfg Config, log *logger.Logger) *Engine {
	return &Engine{
		prices:   prices,
		resolver: resolver,
		cfg:      cfg,
		log:      log,
	}
}

// ComputeAll applies the strategy-mode overlay, aligns each event to a
// tradable slot and prices it. Events are dropped without error when they
// fired inside the session, reference the benchmark index itself, are
// neutral while ExcludeNeutral is set, or have no price data in the window.
// rng is only consulted by the random strategy.
func (e *Engine) ComputeAll(ctx context.Context, events []contracts.Event, mode contracts.StrategyMode, rng *rand.Rand) ([]contracts.ReturnRecord, error) {
	overlaid := mode.Apply(events, rng)

	records := make([]contracts.ReturnRecord, 0, len(overlaid))
	dropped := 0
	for _, ev := range overlaid {
		if ev.Ticker == e.cfg.IndexTicker {
			continue
		}
		if e.cfg.ExcludeNeutral && ev.Signal == contracts.SignalNeutral {
			continue
		}

		slot := e.resolver.Resolve(ev.EventTime)
		if !slot.Tradable() {
			continue
		}

		rec, ok, err := e.Compute(ctx, ev, slot.TradeTime)
		if err != nil {
			return nil, err
		}
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if dropped > 0 {
		e.log.WithFields(map[string]interface{}{
			"mode":    mode.String(),
			"dropped": dropped,
			"priced":  len(records),
		}).Debug("Events dropped for missing price data")
	}

	return records, nil
}

// Compute prices one event at the given trade time. ok is false when the
// event must be dropped: no asset bar in the window, no index bar while the
// index is netted out, or a non-positive entry price. A price source
// failure is returned as an error and aborts the batch.
func (e *Engine) Compute(ctx context.Context, ev contracts.Event, tradeTime time.Time) (contracts.ReturnRecord, bool, error) {
	exitTime := e.cfg.ExitTime.On(tradeTime)

	entry, exit, ok, err := e.fetchWindow(ctx, ev.Ticker, tradeTime, exitTime)
	if err != nil {
		return contracts.ReturnRecord{}, false, fmt.Errorf("fetch %s bars: %w", ev.Ticker, err)
	}
	if !ok {
		return contracts.ReturnRecord{}, false, nil
	}

	raw := directedReturn(entry, exit, ev.Signal)

	indexReturn := 0.0
	if e.cfg.IncludeIndex {
		idxEntry, idxExit, ok, err := e.fetchWindow(ctx, e.cfg.IndexTicker, tradeTime, exitTime)
		if err != nil {
			return contracts.ReturnRecord{}, false, fmt.Errorf("fetch index %s bars: %w", e.cfg.IndexTicker, err)
		}
		if !ok {
			return contracts.ReturnRecord{}, false, nil
		}
		indexReturn = directedReturn(idxEntry, idxExit, ev.Signal)
	}

	return contracts.ReturnRecord{
		EventTime:    ev.EventTime,
		TradeTime:    tradeTime,
		Ticker:       ev.Ticker,
		Signal:       ev.Signal,
		RawReturn:    raw,
		IndexReturn:  indexReturn,
		ExcessReturn: raw - indexReturn,
	}, true, nil
}

// RegressionRecords prices events without applying the signal direction:
// raw and index returns are plain long returns over the window and the
// excess is their difference. Used for downstream regression analysis.
// Index-ticker events and neutral signals pass through unfiltered.
func (e *Engine) RegressionRecords(ctx context.Context, events []contracts.Event) ([]contracts.ReturnRecord, error) {
	records := make([]contracts.ReturnRecord, 0, len(events))
	for _, ev := range events {
		slot := e.resolver.Resolve(ev.EventTime)
		if !slot.Tradable() {
			continue
		}
		exitTime := e.cfg.ExitTime.On(slot.TradeTime)

		entry, exit, ok, err := e.fetchWindow(ctx, ev.Ticker, slot.TradeTime, exitTime)
		if err != nil {
			return nil, fmt.Errorf("fetch %s bars: %w", ev.Ticker, err)
		}
		if !ok {
			continue
		}

		idxEntry, idxExit, ok, err := e.fetchWindow(ctx, e.cfg.IndexTicker, slot.TradeTime, exitTime)
		if err != nil {
			return nil, fmt.Errorf("fetch index %s bars: %w", e.cfg.IndexTicker, err)
		}
		if !ok {
			continue
		}

		raw := (exit - entry) / entry
		idx := (idxExit - idxEntry) / idxEntry

		records = append(records, contracts.ReturnRecord{
			EventTime:    ev.EventTime,
			TradeTime:    slot.TradeTime,
			Ticker:       ev.Ticker,
			Signal:       ev.Signal,
			RawReturn:    raw,
			IndexReturn:  idx,
			ExcessReturn: raw - idx,
		})
	}
	return records, nil
}

// fetchWindow returns the entry (first bar's open) and exit (last bar's
// close) prices inside [start, end]. ok is false when the window has no
// bars or a non-positive entry price.
func (e *Engine) fetchWindow(ctx context.Context, ticker string, start, end time.Time) (entry, exit float64, ok bool, err error) {
	bars, err := e.prices.FetchDaily(ctx, ticker, start, end)
	if err != nil {
		return 0, 0, false, err
	}
	if len(bars) == 0 {
		return 0, 0, false, nil
	}

	entry = bars[0].Open
	exit = bars[len(bars)-1].Close
	if entry <= 0 {
		return 0, 0, false, nil
	}
	return entry, exit, true, nil
}

// withIncludeIndex returns a copy of the engine with the index netting
// toggled, sharing the price source and resolver.
func (e *Engine) withIncludeIndex(include bool) *Engine {
	e2 := *e
	e2.cfg.IncludeIndex = include
	return &e2
}

// directedReturn applies the two-branch payoff rule: long signals earn
// (exit-entry)/entry, everything else earns the short-style
// (entry-exit)/entry.
func directedReturn(entry, exit float64, sig contracts.Signal) float64 {
	if sig == contracts.SignalLong {
		return (exit - entry) / entry
	}
	return (entry - exit) / entry
}
