package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/loader"
	"github.com/viekt/finam-news-llm-analysis/pkg/logger"
)

// DataHandler handles market-data collection endpoints.
type DataHandler struct {
	collector *loader.Collector
	logger    *logger.Logger
}

// NewDataHandler creates a new data handler.
func NewDataHandler(collector *loader.Collector, log *logger.Logger) *DataHandler {
	return &DataHandler{collector: collector, logger: log}
}

// CollectRequest represents a candle collection request.
type CollectRequest struct {
	Tickers []string `json:"tickers"`
	From    string   `json:"from"` // YYYY-MM-DD, default 30 days back
	To      string   `json:"to"`   // YYYY-MM-DD, default today
	Workers int      `json:"workers"`
}

// CollectResponse represents a collection outcome.
type CollectResponse struct {
	Status  string               `json:"status"`
	Results []loader.FetchResult `json:"results"`
}

// Collect fetches candles for the requested tickers and stores them.
// POST /api/data/collect
func (h *DataHandler) Collect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CollectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Tickers) == 0 {
		respondError(w, http.StatusBadRequest, "'tickers' is required")
		return
	}

	var from, to time.Time
	var err error

	if req.From != "" {
		from, err = time.Parse("2006-01-02", req.From)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'from' date format (expected YYYY-MM-DD)")
			return
		}
	} else {
		from = time.Now().AddDate(0, 0, -30)
	}

	if req.To != "" {
		to, err = time.Parse("2006-01-02", req.To)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'to' date format (expected YYYY-MM-DD)")
			return
		}
	} else {
		to = time.Now()
	}

	if req.Workers < 1 {
		req.Workers = 4
	}

	results, err := h.collector.CollectBars(ctx, req.Tickers, from, to, loader.Config{Workers: req.Workers})
	if err != nil {
		h.logger.WithError(err).Error("Collection failed")
		respondError(w, http.StatusInternalServerError, "Collection failed")
		return
	}

	respondJSON(w, http.StatusOK, CollectResponse{Status: "completed", Results: results})
}
