package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// UpsertChallenge replaces a yearly challenge and its months/books in one
// transaction. Like reading lists, challenges mirror catalog files and the
// importer is the sole writer; challenge-book IDs stay stable across imports.
func (s *Store) UpsertChallenge(ctx context.Context, challenge *domain.Challenge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO challenges (id, created_at, updated_at, year, title)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(year) DO UPDATE SET
			updated_at = excluded.updated_at,
			title = excluded.title`,
		challenge.ID,
		formatTime(challenge.CreatedAt),
		formatTime(challenge.UpdatedAt),
		challenge.Year,
		challenge.Title,
	)
	if err != nil {
		return err
	}

	// The upsert may have kept an existing row with a different ID; resolve
	// the canonical ID by year before rewriting months.
	var challengeID string
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM challenges WHERE year = ?`, challenge.Year).Scan(&challengeID); err != nil {
		return err
	}

	// Reconcile months and books by stable ID; a wholesale replace would
	// cascade away users' challenge links on every re-import.
	keepMonths := make(map[string]bool, len(challenge.Months))
	keepBooks := make(map[string]bool)

	for _, month := range challenge.Months {
		keepMonths[month.ID] = true
		_, err := tx.ExecContext(ctx, `
			INSERT INTO challenge_months (id, challenge_id, month, theme)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				challenge_id = excluded.challenge_id,
				month = excluded.month,
				theme = excluded.theme`,
			month.ID, challengeID, month.Month, month.Theme,
		)
		if err != nil {
			return err
		}
		for _, book := range month.Books {
			keepBooks[book.ID] = true
			_, err := tx.ExecContext(ctx, `
				INSERT INTO challenge_books (id, month_id, title, author, position)
				VALUES (?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					month_id = excluded.month_id,
					title = excluded.title,
					author = excluded.author,
					position = excluded.position`,
				book.ID, month.ID, book.Title, nullString(book.Author), book.Position,
			)
			if err != nil {
				return err
			}
		}
	}

	existingBooks, err := queryIDs(ctx, tx, `
		SELECT cb.id FROM challenge_books cb
		JOIN challenge_months cm ON cm.id = cb.month_id
		WHERE cm.challenge_id = ?`, challengeID)
	if err != nil {
		return err
	}
	for _, id := range existingBooks {
		if keepBooks[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM challenge_books WHERE id = ?`, id); err != nil {
			return err
		}
	}

	existingMonths, err := queryIDs(ctx, tx,
		`SELECT id FROM challenge_months WHERE challenge_id = ?`, challengeID)
	if err != nil {
		return err
	}
	for _, id := range existingMonths {
		if keepMonths[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM challenge_months WHERE id = ?`, id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetChallengeByYear retrieves a challenge with its months and books, months
// in calendar order. Returns store.ErrNotFound for a year with no challenge.
func (s *Store) GetChallengeByYear(ctx context.Context, year int) (*domain.Challenge, error) {
	var (
		c         domain.Challenge
		createdAt string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, updated_at, year, title
		FROM challenges WHERE year = ?`, year).
		Scan(&c.ID, &createdAt, &updatedAt, &c.Year, &c.Title)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	c.Months, err = s.loadChallengeMonths(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) loadChallengeMonths(ctx context.Context, challengeID string) ([]*domain.ChallengeMonth, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, challenge_id, month, theme
		FROM challenge_months WHERE challenge_id = ? ORDER BY month`, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []*domain.ChallengeMonth
	for rows.Next() {
		var m domain.ChallengeMonth
		if err := rows.Scan(&m.ID, &m.ChallengeID, &m.Month, &m.Theme); err != nil {
			return nil, err
		}
		months = append(months, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, m := range months {
		m.Books, err = s.loadChallengeBooks(ctx, m.ID)
		if err != nil {
			return nil, err
		}
	}
	return months, nil
}

func (s *Store) loadChallengeBooks(ctx context.Context, monthID string) ([]*domain.ChallengeBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, month_id, title, author, position
		FROM challenge_books WHERE month_id = ? ORDER BY position`, monthID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.ChallengeBook
	for rows.Next() {
		var b domain.ChallengeBook
		var author sql.NullString
		if err := rows.Scan(&b.ID, &b.MonthID, &b.Title, &author, &b.Position); err != nil {
			return nil, err
		}
		if author.Valid {
			b.Author = author.String
		}
		books = append(books, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// CreateChallengeLink records a user's link to a challenge book.
// Returns store.ErrAlreadyLinked if the challenge book is already linked.
func (s *Store) CreateChallengeLink(ctx context.Context, link *domain.ChallengeLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO challenge_links (user_id, challenge_book_id, book_id, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?)`,
		link.UserID,
		link.ChallengeBookID,
		nullableString(link.BookID),
		formatTime(link.CreatedAt),
		nullTimeString(link.CompletedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyLinked
		}
		return err
	}
	return nil
}

// DeleteChallengeLink removes a user's link to a challenge book.
// Returns store.ErrNotFound if no such link exists.
func (s *Store) DeleteChallengeLink(ctx context.Context, userID, challengeBookID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM challenge_links WHERE user_id = ? AND challenge_book_id = ?`,
		userID, challengeBookID,
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

// ListChallengeLinksByUser returns a user's links for one year's challenge.
func (s *Store) ListChallengeLinksByUser(ctx context.Context, userID string, year int) ([]*domain.ChallengeLink, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cl.user_id, cl.challenge_book_id, cl.book_id, cl.created_at, cl.completed_at
		FROM challenge_links cl
		JOIN challenge_books cb ON cb.id = cl.challenge_book_id
		JOIN challenge_months cm ON cm.id = cb.month_id
		JOIN challenges c ON c.id = cm.challenge_id
		WHERE cl.user_id = ? AND c.year = ?
		ORDER BY cm.month, cb.position`,
		userID, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*domain.ChallengeLink
	for rows.Next() {
		var (
			link        domain.ChallengeLink
			bookID      sql.NullString
			createdAt   string
			completedAt sql.NullString
		)
		if err := rows.Scan(&link.UserID, &link.ChallengeBookID, &bookID, &createdAt, &completedAt); err != nil {
			return nil, err
		}
		link.BookID = stringPtr(bookID)
		link.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, err
		}
		link.CompletedAt, err = parseNullableTime(completedAt)
		if err != nil {
			return nil, err
		}
		links = append(links, &link)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

// SetChallengeLinkCompleted marks or clears a challenge link's completion.
// Returns store.ErrNotFound if no such link exists.
func (s *Store) SetChallengeLinkCompleted(ctx context.Context, userID, challengeBookID string, completedAt *time.Time) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE challenge_links SET completed_at = ? WHERE user_id = ? AND challenge_book_id = ?`,
		nullTimeString(completedAt), userID, challengeBookID,
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
