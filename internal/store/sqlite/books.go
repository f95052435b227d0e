package sqlite

import (
	"context"
	"database/sql"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, updated_at, owner_id, title, author, page_count, current_page, status, shelf_id, goal_start, goal_days`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt string
		updatedAt string
		author    sql.NullString
		pageCount sql.NullInt64
		status    string
		shelfID   sql.NullString
		goalStart sql.NullString
		goalDays  sql.NullInt64
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.OwnerID,
		&b.Title,
		&author,
		&pageCount,
		&b.CurrentPage,
		&status,
		&shelfID,
		&goalStart,
		&goalDays,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	b.GoalStart, err = parseNullableTime(goalStart)
	if err != nil {
		return nil, err
	}

	if author.Valid {
		b.Author = author.String
	}
	b.PageCount = intPtr(pageCount)
	b.Status = domain.ReadingStatus(status)
	b.ShelfID = stringPtr(shelfID)
	b.GoalDays = intPtr(goalDays)

	return &b, nil
}

// CreateBook inserts a new book.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, updated_at, owner_id, title, author,
			page_count, current_page, status, shelf_id, goal_start, goal_days
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
		book.OwnerID,
		book.Title,
		nullString(book.Author),
		nullableInt(book.PageCount),
		book.CurrentPage,
		string(book.Status),
		nullableString(book.ShelfID),
		nullTimeString(book.GoalStart),
		nullableInt(book.GoalDays),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBook retrieves a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBook updates all mutable fields of a book.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			updated_at = ?,
			title = ?,
			author = ?,
			page_count = ?,
			current_page = ?,
			status = ?,
			shelf_id = ?,
			goal_start = ?,
			goal_days = ?
		WHERE id = ?`,
		formatTime(book.UpdatedAt),
		book.Title,
		nullString(book.Author),
		nullableInt(book.PageCount),
		book.CurrentPage,
		string(book.Status),
		nullableString(book.ShelfID),
		nullTimeString(book.GoalStart),
		nullableInt(book.GoalDays),
		book.ID,
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

// DeleteBook performs a hard delete on a book. Links, ratings, and quotes
// referencing it are removed by ON DELETE CASCADE.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
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

// ListBooksByOwner returns all books owned by a user, ordered by creation time.
func (s *Store) ListBooksByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	return s.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
}

// ListAllBooks returns every book in the store, used to rebuild the search
// index at startup.
func (s *Store) ListAllBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at, id`)
}

// ListBooksByShelf returns the books assigned to a shelf, ordered by creation time.
func (s *Store) ListBooksByShelf(ctx context.Context, shelfID string) ([]*domain.Book, error) {
	return s.queryBooks(ctx,
		`SELECT `+bookColumns+` FROM books WHERE shelf_id = ? ORDER BY created_at, id`, shelfID)
}

func (s *Store) queryBooks(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
