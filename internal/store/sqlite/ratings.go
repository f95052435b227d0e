package sqlite

import (
	"context"
	"database/sql"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// UpsertRating inserts or replaces a user's rating for a book, preserving
// the original created_at on replace.
func (s *Store) UpsertRating(ctx context.Context, rating *domain.Rating) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ratings (user_id, book_id, created_at, updated_at, value, review)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, book_id) DO UPDATE SET
			updated_at = excluded.updated_at,
			value = excluded.value,
			review = excluded.review`,
		rating.UserID,
		rating.BookID,
		formatTime(rating.CreatedAt),
		formatTime(rating.UpdatedAt),
		rating.Value,
		nullString(rating.Review),
	)
	return err
}

// GetRating retrieves a user's rating for a book.
// Returns store.ErrNotFound if no rating exists.
func (s *Store) GetRating(ctx context.Context, userID, bookID string) (*domain.Rating, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, book_id, created_at, updated_at, value, review
		FROM ratings WHERE user_id = ? AND book_id = ?`,
		userID, bookID,
	)

	r, err := scanRating(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// DeleteRating removes a user's rating for a book.
// Returns store.ErrNotFound if no rating exists.
func (s *Store) DeleteRating(ctx context.Context, userID, bookID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM ratings WHERE user_id = ? AND book_id = ?`, userID, bookID)
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

// ListRatingsByUser returns all of a user's ratings, newest first.
func (s *Store) ListRatingsByUser(ctx context.Context, userID string) ([]*domain.Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, book_id, created_at, updated_at, value, review
		FROM ratings WHERE user_id = ? ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}

func scanRating(scanner interface{ Scan(dest ...any) error }) (*domain.Rating, error) {
	var r domain.Rating

	var (
		createdAt string
		updatedAt string
		review    sql.NullString
	)

	err := scanner.Scan(&r.UserID, &r.BookID, &createdAt, &updatedAt, &r.Value, &review)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	if review.Valid {
		r.Review = review.String
	}
	return &r, nil
}
