package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// CreateAPIKey inserts a hashed extension API key.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_keys (id, created_at, user_id, name, key_hash, last_used_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		key.ID,
		formatTime(key.CreatedAt),
		key.UserID,
		key.Name,
		key.KeyHash,
		nullTimeString(key.LastUsedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetAPIKey retrieves an API key by ID.
// Returns store.ErrNotFound if the key does not exist.
func (s *Store) GetAPIKey(ctx context.Context, id string) (*domain.APIKey, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, user_id, name, key_hash, last_used_at
		FROM api_keys WHERE id = ?`, id)

	var (
		k          domain.APIKey
		createdAt  string
		lastUsedAt sql.NullString
	)
	err := row.Scan(&k.ID, &createdAt, &k.UserID, &k.Name, &k.KeyHash, &lastUsedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	k.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	k.LastUsedAt, err = parseNullableTime(lastUsedAt)
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// ListAPIKeysByUser returns a user's API keys, oldest first.
func (s *Store) ListAPIKeysByUser(ctx context.Context, userID string) ([]*domain.APIKey, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, user_id, name, key_hash, last_used_at
		FROM api_keys WHERE user_id = ? ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []*domain.APIKey
	for rows.Next() {
		var (
			k          domain.APIKey
			createdAt  string
			lastUsedAt sql.NullString
		)
		if err := rows.Scan(&k.ID, &createdAt, &k.UserID, &k.Name, &k.KeyHash, &lastUsedAt); err != nil {
			return nil, err
		}
		k.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		k.LastUsedAt, err = parseNullableTime(lastUsedAt)
		if err != nil {
			return nil, err
		}
		keys = append(keys, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteAPIKey removes an API key.
// Returns store.ErrNotFound if the key does not exist.
func (s *Store) DeleteAPIKey(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = ?`, id)
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

// TouchAPIKey records when a key last authenticated a request. Best effort;
// a missing key is not an error here.
func (s *Store) TouchAPIKey(ctx context.Context, id string, usedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = ? WHERE id = ?`,
		formatTime(usedAt), id)
	return err
}
