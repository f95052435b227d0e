// Package service orchestrates domain operations over the store, cache, and
// search index. Services enforce ownership; handlers only translate HTTP.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/cache"
	"github.com/kitaplik/kitaplik-server/internal/domain"
	domainerrors "github.com/kitaplik/kitaplik-server/internal/errors"
	"github.com/kitaplik/kitaplik-server/internal/id"
	"github.com/kitaplik/kitaplik-server/internal/search"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// BookService orchestrates book operations with ownership enforcement,
// cache invalidation, and search index maintenance.
type BookService struct {
	store      store.Store
	index      *search.Index
	cache      *cache.Cache
	dispatcher *cache.Dispatcher
	logger     *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(st store.Store, index *search.Index, c *cache.Cache, dispatcher *cache.Dispatcher, logger *slog.Logger) *BookService {
	return &BookService{
		store:      st,
		index:      index,
		cache:      c,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateBookInput carries the user-supplied fields for a new book.
type CreateBookInput struct {
	Title     string
	Author    string
	PageCount *int
	Status    domain.ReadingStatus
	ShelfID   *string
}

// CreateBook creates a book in the user's library.
func (s *BookService) CreateBook(ctx context.Context, ownerID string, input CreateBookInput) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, domainerrors.Validation("book title cannot be empty")
	}
	if input.PageCount != nil && *input.PageCount <= 0 {
		return nil, domainerrors.Validation("page count must be positive")
	}

	status := input.Status
	if status == "" {
		status = domain.StatusToRead
	}
	if !status.Valid() {
		return nil, domainerrors.Validationf("unknown reading status %q", status)
	}

	if input.ShelfID != nil {
		if err := s.checkShelfOwnership(ctx, ownerID, *input.ShelfID); err != nil {
			return nil, err
		}
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := time.Now()
	book := &domain.Book{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        bookID,
		OwnerID:   ownerID,
		Title:     input.Title,
		Author:    input.Author,
		PageCount: input.PageCount,
		Status:    status,
		ShelfID:   input.ShelfID,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created",
		"book_id", bookID,
		"owner_id", ownerID,
		"title", input.Title,
	)

	s.afterBookChange(book)
	return book, nil
}

// GetBook retrieves a book, enforcing ownership.
func (s *BookService) GetBook(ctx context.Context, userID, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != userID {
		return nil, domainerrors.NotFound("book not found")
	}
	return book, nil
}

// ListBooks returns the user's library, cached under the user-books tag so
// any book mutation refreshes it.
func (s *BookService) ListBooks(ctx context.Context, userID string) ([]*domain.Book, error) {
	cacheKey := "user-books:" + userID

	var cached []*domain.Book
	if hit, err := s.cache.GetJSON(cacheKey, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		s.logger.Warn("cache read failed", "key", cacheKey, "error", err)
	}

	books, err := s.store.ListBooksByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.cache.SetJSON(cacheKey, books, cache.TTLMedium, cache.UserBooksTag(userID))
	if err != nil {
		s.logger.Warn("cache write failed", "key", cacheKey, "error", err)
	}

	return books, nil
}

// UpdateBookInput carries updatable book fields. Nil pointer fields are left
// unchanged; ClearShelf detaches the book explicitly since a nil ShelfID
// already means "no change".
type UpdateBookInput struct {
	Title      *string
	Author     *string
	PageCount  *int
	Status     *domain.ReadingStatus
	ShelfID    *string
	ClearShelf bool
}

// UpdateBook updates book metadata. Requires ownership.
func (s *BookService) UpdateBook(ctx context.Context, userID, bookID string, input UpdateBookInput) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.GetBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, domainerrors.Validation("book title cannot be empty")
		}
		book.Title = *input.Title
	}
	if input.Author != nil {
		book.Author = *input.Author
	}
	if input.PageCount != nil {
		if *input.PageCount <= 0 {
			return nil, domainerrors.Validation("page count must be positive")
		}
		if book.CurrentPage > *input.PageCount {
			return nil, domainerrors.Validationf("current page %d exceeds new page count %d", book.CurrentPage, *input.PageCount)
		}
		book.PageCount = input.PageCount
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, domainerrors.Validationf("unknown reading status %q", *input.Status)
		}
		book.Status = *input.Status
	}
	if input.ClearShelf {
		book.ShelfID = nil
	} else if input.ShelfID != nil {
		if err := s.checkShelfOwnership(ctx, userID, *input.ShelfID); err != nil {
			return nil, err
		}
		book.ShelfID = input.ShelfID
	}

	book.UpdatedAt = time.Now()
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("book updated", "book_id", bookID, "user_id", userID)

	s.afterBookChange(book)
	return book, nil
}

// DeleteBook removes a book from the user's library. Links, ratings, and
// quotes referencing it go with it. Requires ownership.
func (s *BookService) DeleteBook(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	book, err := s.GetBook(ctx, userID, bookID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("book deleted", "book_id", bookID, "user_id", userID)

	if err := s.index.DeleteBook(bookID); err != nil {
		s.logger.Warn("failed to remove book from search index", "book_id", bookID, "error", err)
	}
	if err := s.dispatcher.BookChanged(book.OwnerID, bookID); err != nil {
		s.logger.Warn("cache invalidation after delete failed", "book_id", bookID, "error", err)
	}
	return nil
}

// SetProgress updates the current page. Requires ownership.
func (s *BookService) SetProgress(ctx context.Context, userID, bookID string, page int) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.GetBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if err := book.SetProgress(page); err != nil {
		return nil, err
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}

	s.logger.Info("progress updated",
		"book_id", bookID,
		"user_id", userID,
		"page", page,
		"status", book.Status,
	)

	s.afterBookChange(book)
	return book, nil
}

// SetGoal configures or clears a reading goal. Both fields must be set
// together; clearing removes the goal entirely.
func (s *BookService) SetGoal(ctx context.Context, userID, bookID string, start *time.Time, days *int) (*domain.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if (start == nil) != (days == nil) {
		return nil, domainerrors.Validation("goal start and goal days must be set together")
	}
	if days != nil && *days <= 0 {
		return nil, domainerrors.Validation("goal days must be positive")
	}

	book, err := s.GetBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	book.GoalStart = start
	book.GoalDays = days
	book.UpdatedAt = time.Now()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}

	s.afterBookChange(book)
	return book, nil
}

// GetGoal computes the book's current reading-pace status. A nil result
// means no goal is configured, which is not an error.
func (s *BookService) GetGoal(ctx context.Context, userID, bookID string) (*domain.GoalInfo, error) {
	book, err := s.GetBook(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	return book.Goal(time.Now()), nil
}

// ReindexLibrary rebuilds the search documents for every book in the store.
// Called at startup so the index never drifts from persistence.
func (s *BookService) ReindexLibrary(ctx context.Context, userID string) error {
	books, err := s.store.ListBooksByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list books for reindex: %w", err)
	}

	docs := make([]*search.BookDocument, 0, len(books))
	for _, b := range books {
		docs = append(docs, search.DocumentFromBook(b))
	}
	return s.index.IndexBooks(docs)
}

// afterBookChange updates the search index and invalidates cached views.
// The book is already durable; failures here are logged, not surfaced, since
// the cache has TTL backstops and the index is rebuilt at startup.
func (s *BookService) afterBookChange(book *domain.Book) {
	if err := s.index.IndexBook(search.DocumentFromBook(book)); err != nil {
		s.logger.Warn("failed to index book", "book_id", book.ID, "error", err)
	}
	if err := s.dispatcher.BookChanged(book.OwnerID, book.ID); err != nil {
		s.logger.Warn("cache invalidation failed", "book_id", book.ID, "error", err)
	}
}

// checkShelfOwnership verifies the shelf exists and belongs to the user.
func (s *BookService) checkShelfOwnership(ctx context.Context, userID, shelfID string) error {
	shelf, err := s.store.GetShelf(ctx, shelfID)
	if err != nil {
		return err
	}
	if shelf.OwnerID != userID {
		return domainerrors.NotFound("shelf not found")
	}
	return nil
}
