package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
	"github.com/viekt/finam-news-llm-analysis/internal/portfolio"
	"github.com/viekt/finam-news-llm-analysis/pkg/logger"
)

// BacktestHandler handles backtest API endpoints.
type BacktestHandler struct {
	runner *portfolio.Runner
	logger *logger.Logger
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(runner *portfolio.Runner, log *logger.Logger) *BacktestHandler {
	return &BacktestHandler{runner: runner, logger: log}
}

// RunRequest represents a single-strategy backtest request.
type RunRequest struct {
	From          string `json:"from"` // YYYY-MM-DD
	To            string `json:"to"`   // YYYY-MM-DD
	Strategy      string `json:"strategy"`
	Seed          int64  `json:"seed"`
	SelfFinancing bool   `json:"self_financing"`
	RawReturns    bool   `json:"raw_returns"` // aggregate raw instead of excess returns
}

// RunResponse pairs the request echo with the resulting series.
type RunResponse struct {
	Strategy string                      `json:"strategy"`
	From     string                      `json:"from"`
	To       string                      `json:"to"`
	Series   *contracts.CumulativeSeries `json:"series"`
}

// Run executes one backtest.
// POST /api/backtest/run
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	from, to, ok := parseRange(w, req.From, req.To)
	if !ok {
		return
	}

	if req.Strategy == "" {
		req.Strategy = "default"
	}
	mode, err := contracts.ParseStrategyMode(req.Strategy)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	selector := portfolio.SelectExcess
	if req.RawReturns {
		selector = portfolio.SelectRaw
	}

	series, err := h.runner.Run(ctx, portfolio.RunRequest{
		From:          from,
		To:            to,
		Mode:          mode,
		Seed:          req.Seed,
		SelfFinancing: req.SelfFinancing,
		Selector:      selector,
	})
	if err != nil {
		h.logger.WithError(err).Error("Backtest run failed")
		respondError(w, http.StatusInternalServerError, "Backtest failed")
		return
	}

	respondJSON(w, http.StatusOK, RunResponse{
		Strategy: mode.String(),
		From:     req.From,
		To:       req.To,
		Series:   series,
	})
}

// BenchmarkRequest represents a random-benchmark request.
type BenchmarkRequest struct {
	From         string `json:"from"`
	To           string `json:"to"`
	Runs         int    `json:"runs"`
	SeedOffset   int64  `json:"seed_offset"`
	IncludeIndex bool   `json:"include_index"`
}

// Benchmark estimates the random-strategy null distribution.
// POST /api/backtest/benchmark
func (h *BacktestHandler) Benchmark(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BenchmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	from, to, ok := parseRange(w, req.From, req.To)
	if !ok {
		return
	}
	if req.Runs < 1 {
		respondError(w, http.StatusBadRequest, "'runs' must be at least 1")
		return
	}

	result, err := h.runner.RunBenchmark(ctx, portfolio.BenchmarkRequest{
		From:         from,
		To:           to,
		Runs:         req.Runs,
		SeedOffset:   req.SeedOffset,
		IncludeIndex: req.IncludeIndex,
	})
	if err != nil {
		h.logger.WithError(err).Error("Benchmark failed")
		respondError(w, http.StatusInternalServerError, "Benchmark failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CompareResponse is one labeled strategy series.
type CompareResponse struct {
	Label  string                      `json:"label"`
	Mode   string                      `json:"mode"`
	Series *contracts.CumulativeSeries `json:"series"`
}

// Compare runs the standard strategy comparison set.
// GET /api/backtest/compare?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *BacktestHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, to, ok := parseRange(w, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if !ok {
		return
	}

	results, err := h.runner.Compare(ctx, from, to)
	if err != nil {
		h.logger.WithError(err).Error("Strategy comparison failed")
		respondError(w, http.StatusInternalServerError, "Comparison failed")
		return
	}

	out := make([]CompareResponse, 0, len(results))
	for _, res := range results {
		out = append(out, CompareResponse{
			Label:  res.Label,
			Mode:   res.Mode.String(),
			Series: res.Series,
		})
	}

	respondJSON(w, http.StatusOK, out)
}

// Regression exports direction-free per-event returns.
// GET /api/backtest/regression?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *BacktestHandler) Regression(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from, to, ok := parseRange(w, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if !ok {
		return
	}

	records, err := h.runner.Regression(ctx, from, to)
	if err != nil {
		h.logger.WithError(err).Error("Regression export failed")
		respondError(w, http.StatusInternalServerError, "Regression export failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// parseRange parses the from/to dates, writing a 400 response when
// invalid. The `to` bound extends to end of day so events on the last
// requested date are included.
func parseRange(w http.ResponseWriter, fromStr, toStr string) (time.Time, time.Time, bool) {
	if fromStr == "" || toStr == "" {
		respondError(w, http.StatusBadRequest, "'from' and 'to' are required (YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'from' date format (expected YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'to' date format (expected YYYY-MM-DD)")
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		respondError(w, http.StatusBadRequest, "'to' must not precede 'from'")
		return time.Time{}, time.Time{}, false
	}

	return from, to.Add(24*time.Hour - time.Second), true
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
