package moex

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
	"github.com/viekt/finam-news-llm-analysis/pkg/config"
	"github.com/viekt/finam-news-llm-analysis/pkg/httputil"
	"github.com/viekt/finam-news-llm-analysis/pkg/logger"
)

// ISS serves candle pages of at most this many rows; paging walks the
// `start` offset until a short page.
const pageSize = 500

// Client fetches candles from the MOEX ISS (Informational & Statistical
// Server) public API. All requests go through the shared retrying,
// rate-limited HTTP client.
type Client struct {
	http    *httputil.Client
	logger  *logger.Logger
	baseURL string
	loc     *time.Location
}

// NewClient creates a MOEX ISS client. Candle timestamps come back as
// naive Moscow-time strings, so the exchange timezone is resolved once
// here.
func NewClient(cfg config.MOEXConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		log.WithError(err).Warn("Moscow timezone unavailable, using UTC")
		loc = time.UTC
	}

	return &Client{
		http:    httpClient,
		logger:  log,
		baseURL: cfg.BaseURL,
		loc:     loc,
	}
}

// indices traded on the SNDX board rather than the shares market.
var indexTickers = map[string]struct{}{
	"IMOEX": {},
	"RTSI":  {},
}

func marketPath(ticker string) (market, board string) {
	if _, ok := indexTickers[ticker]; ok {
		return "index", "SNDX"
	}
	return "shares", "TQBR"
}

// Candles fetches one-minute candles for a security between from and till,
// inclusive, following ISS paging until exhausted.
func (c *Client) Candles(ctx context.Context, ticker string, from, till time.Time) ([]contracts.IntradayBar, error) {
	market, board := marketPath(ticker)

	var bars []contracts.IntradayBar
	for start := 0; ; {
		page, err := c.candlesPage(ctx, market, board, ticker, from, till, start)
		if err != nil {
			return nil, err
		}
		bars = append(bars, page...)
		if len(page) < pageSize {
			break
		}
		start += len(page)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"from":   from.Format("2006-01-02"),
		"till":   till.Format("2006-01-02"),
		"bars":   len(bars),
	}).Debug("ISS candles fetched")

	return bars, nil
}

func (c *Client) candlesPage(ctx context.Context, market, board, ticker string, from, till time.Time, start int) ([]contracts.IntradayBar, error) {
	endpoint := fmt.Sprintf("%s/engines/stock/markets/%s/boards/%s/securities/%s/candles.json",
		c.baseURL, market, board, url.PathEscape(ticker))

	params := url.Values{}
	params.Set("interval", "1")
	params.Set("from", from.Format("2006-01-02"))
	params.Set("till", till.Format("2006-01-02"))
	params.Set("start", fmt.Sprintf("%d", start))

	resp, err := c.http.Get(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("iss candles request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("iss candles %s: unexpected status %d", ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("iss candles read body: %w", err)
	}

	return parseCandles(body, ticker, c.loc)
}
