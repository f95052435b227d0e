package sqlite

import (
	"context"
	"database/sql"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// CreateLink records a catalog link. The (user, entry) primary key and the
// partial unique index on (user, book) both surface as UNIQUE violations,
// which map to store.ErrAlreadyLinked.
func (s *Store) CreateLink(ctx context.Context, link *domain.CatalogLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_links (user_id, entry_id, book_id, created_at)
		VALUES (?, ?, ?, ?)`,
		link.UserID,
		link.EntryID,
		nullableString(link.BookID),
		formatTime(link.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyLinked
		}
		return err
	}
	return nil
}

// DeleteLink removes a user's link for an entry.
// Returns store.ErrNotFound if no such link exists.
func (s *Store) DeleteLink(ctx context.Context, userID, entryID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM catalog_links WHERE user_id = ? AND entry_id = ?`,
		userID, entryID,
	)
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

// GetLink retrieves a user's link for an entry.
// Returns store.ErrNotFound if no such link exists.
func (s *Store) GetLink(ctx context.Context, userID, entryID string) (*domain.CatalogLink, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, entry_id, book_id, created_at
		FROM catalog_links WHERE user_id = ? AND entry_id = ?`,
		userID, entryID,
	)

	link, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// ListLinksByUser returns all of a user's catalog links, oldest first.
func (s *Store) ListLinksByUser(ctx context.Context, userID string) ([]*domain.CatalogLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, entry_id, book_id, created_at
		FROM catalog_links WHERE user_id = ? ORDER BY created_at, entry_id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*domain.CatalogLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

// FindUnlinkedEntries returns the entries of a list the user has not linked
// yet, in level/position order. This ordering makes batch resolution
// deterministic.
func (s *Store) FindUnlinkedEntries(ctx context.Context, userID, listSlug string) ([]*domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.level_id, e.title, e.author, e.rationale, e.position
		FROM reading_list_entries e
		JOIN reading_list_levels l ON l.id = e.level_id
		WHERE l.list_slug = ?
		AND NOT EXISTS (
			SELECT 1 FROM catalog_links cl
			WHERE cl.user_id = ? AND cl.entry_id = e.id
		)
		ORDER BY l.position, e.position`,
		listSlug, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindUnlinkedBooks returns the user's books not yet backing any catalog
// link, ordered by creation time.
func (s *Store) FindUnlinkedBooks(ctx context.Context, userID string) ([]*domain.Book, error) {
	return s.queryBooks(ctx, `
		SELECT `+bookColumns+` FROM books b
		WHERE b.owner_id = ?
		AND NOT EXISTS (
			SELECT 1 FROM catalog_links cl
			WHERE cl.user_id = b.owner_id AND cl.book_id = b.id
		)
		ORDER BY b.created_at, b.id`,
		userID,
	)
}

func scanLink(scanner interface{ Scan(dest ...any) error }) (*domain.CatalogLink, error) {
	var link domain.CatalogLink

	var (
		bookID    sql.NullString
		createdAt string
	)

	err := scanner.Scan(&link.UserID, &link.EntryID, &bookID, &createdAt)
	if err != nil {
		return nil, err
	}

	link.BookID = stringPtr(bookID)
	link.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
