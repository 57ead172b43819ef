// Package store persists finished quotes in Postgres. The full quote state
// is kept as a JSONB payload next to a handful of summary columns the list
// endpoint reads.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dgassoc/quoting-api/internal/quote"
)

// ErrNotFound signals that no quote exists under the requested number.
var ErrNotFound = errors.New("store: quote not found")

// Summary is the list-view projection of a saved quote.
type Summary struct {
	QuoteNo    string    `json:"quote_no"`
	Date       time.Time `json:"date"`
	Company    string    `json:"company"`
	Contact    string    `json:"contact"`
	Email      string    `json:"email"`
	GrandTotal float64   `json:"grand_total"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Store reads and writes saved quotes.
type Store interface {
	Save(ctx context.Context, q quote.Quote) error
	List(ctx context.Context, limit, offset int) ([]Summary, error)
	Get(ctx context.Context, quoteNo string) (quote.Quote, error)
}

// DB is the subset of pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PG is the Postgres-backed store.
type PG struct {
	DB DB
}

// NewPG wraps a connection pool.
func NewPG(db DB) *PG { return &PG{DB: db} }

// Save upserts the quote keyed by its number. Saving twice within the same
// minute overwrites the earlier version, which matches how the number is
// generated.
func (s *PG) Save(ctx context.Context, q quote.Quote) error {
	if q.QuoteNo == "" {
		return errors.New("store: quote number is required")
	}
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("store: encode quote %s: %w", q.QuoteNo, err)
	}
	const sql = `
		INSERT INTO quotes (quote_no, quote_date, company, contact_name, email, grand_total, payload, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (quote_no) DO UPDATE SET
			quote_date = EXCLUDED.quote_date,
			company = EXCLUDED.company,
			contact_name = EXCLUDED.contact_name,
			email = EXCLUDED.email,
			grand_total = EXCLUDED.grand_total,
			payload = EXCLUDED.payload,
			updated_at = now()`
	_, err = s.DB.Exec(ctx, sql,
		q.QuoteNo, q.Date, q.Customer.Company, q.Customer.Name, q.Customer.Email,
		q.Totals.GrandTotal, payload)
	if err != nil {
		return fmt.Errorf("store: save quote %s: %w", q.QuoteNo, err)
	}
	return nil
}

// List returns saved quote summaries, newest first.
func (s *PG) List(ctx context.Context, limit, offset int) ([]Summary, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const sql = `
		SELECT quote_no, quote_date, company, contact_name, email, grand_total, updated_at
		FROM quotes
		ORDER BY quote_date DESC, quote_no DESC
		LIMIT $1 OFFSET $2`
	rows, err := s.DB.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("store: list quotes: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.QuoteNo, &sm.Date, &sm.Company, &sm.Contact, &sm.Email, &sm.GrandTotal, &sm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan quote summary: %w", err)
		}
		summaries = append(summaries, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list quotes: %w", err)
	}
	return summaries, nil
}

// Get loads the full saved state of one quote.
func (s *PG) Get(ctx context.Context, quoteNo string) (quote.Quote, error) {
	const sql = `SELECT payload FROM quotes WHERE quote_no = $1`
	var payload []byte
	err := s.DB.QueryRow(ctx, sql, quoteNo).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return quote.Quote{}, ErrNotFound
	}
	if err != nil {
		return quote.Quote{}, fmt.Errorf("store: get quote %s: %w", quoteNo, err)
	}
	var q quote.Quote
	if err := json.Unmarshal(payload, &q); err != nil {
		return quote.Quote{}, fmt.Errorf("store: decode quote %s: %w", quoteNo, err)
	}
	return q, nil
}
