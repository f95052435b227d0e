package sqlite

import (
	"context"
	"database/sql"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

const quoteColumns = `id, created_at, owner_id, book_id, text, page`

func scanQuote(scanner interface{ Scan(dest ...any) error }) (*domain.Quote, error) {
	var q domain.Quote

	var (
		createdAt string
		page      sql.NullInt64
	)

	err := scanner.Scan(&q.ID, &createdAt, &q.OwnerID, &q.BookID, &q.Text, &page)
	if err != nil {
		return nil, err
	}

	q.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	q.Page = intPtr(page)
	return &q, nil
}

// CreateQuote inserts a new quote.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateQuote(ctx context.Context, quote *domain.Quote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quotes (id, created_at, owner_id, book_id, text, page)
		VALUES (?, ?, ?, ?, ?, ?)`,
		quote.ID,
		formatTime(quote.CreatedAt),
		quote.OwnerID,
		quote.BookID,
		quote.Text,
		nullableInt(quote.Page),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetQuote retrieves a quote by ID.
// Returns store.ErrNotFound if the quote does not exist.
func (s *Store) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = ?`, id)

	q, err := scanQuote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// DeleteQuote removes a quote.
// Returns store.ErrNotFound if the quote does not exist.
func (s *Store) DeleteQuote(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListQuotesByBook returns a book's quotes, oldest first.
func (s *Store) ListQuotesByBook(ctx context.Context, bookID string) ([]*domain.Quote, error) {
	return s.queryQuotes(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE book_id = ? ORDER BY created_at, id`, bookID)
}

// ListQuotesByOwner returns all quotes a user has saved, newest first.
func (s *Store) ListQuotesByOwner(ctx context.Context, ownerID string) ([]*domain.Quote, error) {
	return s.queryQuotes(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE owner_id = ? ORDER BY created_at DESC, id`, ownerID)
}

func (s *Store) queryQuotes(ctx context.Context, query string, args ...any) ([]*domain.Quote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return quotes, nil
}
