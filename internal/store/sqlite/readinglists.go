package sqlite

import (
	"context"
	"database/sql"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// UpsertReadingList reconciles a curated list and its levels/entries in one
// transaction. The catalog importer is the sole writer. Entry IDs are stable
// across imports, which preserves existing user links.
func (s *Store) UpsertReadingList(ctx context.Context, list *domain.ReadingList) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reading_lists (slug, created_at, updated_at, title, description)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			updated_at = excluded.updated_at,
			title = excluded.title,
			description = excluded.description`,
		list.Slug,
		formatTime(list.CreatedAt),
		formatTime(list.UpdatedAt),
		list.Title,
		nullString(list.Description),
	)
	if err != nil {
		return err
	}

	// Reconcile levels and entries by stable ID rather than replacing them
	// wholesale: a delete would cascade into catalog_links and silently drop
	// user links for entries that merely moved or were retitled.
	keepLevels := make(map[string]bool, len(list.Levels))
	keepEntries := make(map[string]bool)

	for _, level := range list.Levels {
		keepLevels[level.ID] = true
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reading_list_levels (id, list_slug, name, position)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				list_slug = excluded.list_slug,
				name = excluded.name,
				position = excluded.position`,
			level.ID, list.Slug, level.Name, level.Position,
		)
		if err != nil {
			return err
		}
		for _, entry := range level.Entries {
			keepEntries[entry.ID] = true
			_, err := tx.ExecContext(ctx, `
				INSERT INTO reading_list_entries (id, level_id, title, author, rationale, position)
				VALUES (?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					level_id = excluded.level_id,
					title = excluded.title,
					author = excluded.author,
					rationale = excluded.rationale,
					position = excluded.position`,
				entry.ID, level.ID, entry.Title,
				nullString(entry.Author), nullString(entry.Rationale), entry.Position,
			)
			if err != nil {
				return err
			}
		}
	}

	// Remove entries and levels dropped from the catalog. Their links are
	// cascaded away, which is the intended behavior for retired entries.
	existingEntries, err := queryIDs(ctx, tx, `
		SELECT e.id FROM reading_list_entries e
		JOIN reading_list_levels l ON l.id = e.level_id
		WHERE l.list_slug = ?`, list.Slug)
	if err != nil {
		return err
	}
	for _, id := range existingEntries {
		if keepEntries[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM reading_list_entries WHERE id = ?`, id); err != nil {
			return err
		}
	}

	existingLevels, err := queryIDs(ctx, tx,
		`SELECT id FROM reading_list_levels WHERE list_slug = ?`, list.Slug)
	if err != nil {
		return err
	}
	for _, id := range existingLevels {
		if keepLevels[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM reading_list_levels WHERE id = ?`, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetReadingList retrieves a list by slug with its levels and entries in
// position order. Returns store.ErrNotFound if the slug is unknown.
func (s *Store) GetReadingList(ctx context.Context, slug string) (*domain.ReadingList, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT slug, created_at, updated_at, title, description
		FROM reading_lists WHERE slug = ?`, slug)

	list, err := scanReadingList(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	list.Levels, err = s.loadLevels(ctx, slug)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListReadingLists returns all lists without levels, ordered by slug.
func (s *Store) ListReadingLists(ctx context.Context) ([]*domain.ReadingList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, created_at, updated_at, title, description
		FROM reading_lists ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []*domain.ReadingList
	for rows.Next() {
		list, err := scanReadingList(rows)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lists, nil
}

// GetEntry retrieves a single catalog entry by ID.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) GetEntry(ctx context.Context, entryID string) (*domain.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, level_id, title, author, rationale, position
		FROM reading_list_entries WHERE id = ?`, entryID)

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// queryIDs collects a single-column ID result set inside a transaction.
func queryIDs(ctx context.Context, tx *sql.Tx, query string, args ...any) ([]string, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanReadingList(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingList, error) {
	var list domain.ReadingList

	var (
		createdAt   string
		updatedAt   string
		description sql.NullString
	)

	err := scanner.Scan(&list.Slug, &createdAt, &updatedAt, &list.Title, &description)
	if err != nil {
		return nil, err
	}

	list.ID = list.Slug
	list.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	list.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		list.Description = description.String
	}
	return &list, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.CatalogEntry, error) {
	var e domain.CatalogEntry

	var (
		author    sql.NullString
		rationale sql.NullString
	)

	err := scanner.Scan(&e.ID, &e.LevelID, &e.Title, &author, &rationale, &e.Position)
	if err != nil {
		return nil, err
	}

	if author.Valid {
		e.Author = author.String
	}
	if rationale.Valid {
		e.Rationale = rationale.String
	}
	return &e, nil
}

// loadLevels loads a list's levels with their entries, both in position order.
func (s *Store) loadLevels(ctx context.Context, slug string) ([]*domain.Level, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, list_slug, name, position
		FROM reading_list_levels WHERE list_slug = ? ORDER BY position`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var levels []*domain.Level
	for rows.Next() {
		var level domain.Level
		if err := rows.Scan(&level.ID, &level.ListID, &level.Name, &level.Position); err != nil {
			return nil, err
		}
		levels = append(levels, &level)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, level := range levels {
		level.Entries, err = s.loadEntries(ctx, level.ID)
		if err != nil {
			return nil, err
		}
	}
	return levels, nil
}

func (s *Store) loadEntries(ctx context.Context, levelID string) ([]*domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level_id, title, author, rationale, position
		FROM reading_list_entries WHERE level_id = ? ORDER BY position`, levelID)
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
