package events

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viekt/finam-news-llm-analysis/internal/contracts"
)

// Repository stores model-labeled news events. One row per
// (ticker, event_time, prompt): the same headline scored under different
// prompts yields independent events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Events returns labeled events with event_time inside [from, to], sorted
// ascending. Implements contracts.EventSource.
func (r *Repository) Events(ctx context.Context, from, to time.Time) ([]contracts.Event, error) {
	query := `
		SELECT ticker, event_time, signal, title, prompt, explanation
		FROM news.labeled_events
		WHERE event_time BETWEEN $1 AND $2
		ORDER BY event_time ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.Event
	for rows.Next() {
		var ev contracts.Event
		if err := rows.Scan(&ev.Ticker, &ev.EventTime, &ev.Signal, &ev.Title, &ev.Prompt, &ev.Explanation); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// EventsByPrompt returns events for one prompt variant only.
func (r *Repository) EventsByPrompt(ctx context.Context, from, to time.Time, prompt string) ([]contracts.Event, error) {
	query := `
		SELECT ticker, event_time, signal, title, prompt, explanation
		FROM news.labeled_events
		WHERE event_time BETWEEN $1 AND $2 AND prompt = $3
		ORDER BY event_time ASC
	`

	rows, err := r.pool.Query(ctx, query, from, to, prompt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []contracts.Event
	for rows.Next() {
		var ev contracts.Event
		if err := rows.Scan(&ev.Ticker, &ev.EventTime, &ev.Signal, &ev.Title, &ev.Prompt, &ev.Explanation); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// SaveBatch upserts labeled events. Re-labeling the same event replaces
// its signal and explanation.
func (r *Repository) SaveBatch(ctx context.Context, events []contracts.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO news.labeled_events
			(ticker, event_time, signal, title, prompt, explanation)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ticker, event_time, prompt) DO UPDATE SET
			signal = EXCLUDED.signal,
			title = EXCLUDED.title,
			explanation = EXCLUDED.explanation`

	for _, ev := range events {
		batch.Queue(query, ev.Ticker, ev.EventTime, ev.Signal, ev.Title, ev.Prompt, ev.Explanation)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}

	return nil
}
