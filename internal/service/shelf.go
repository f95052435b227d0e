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
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// ShelfService orchestrates shelf operations with ownership enforcement.
type ShelfService struct {
	store      store.Store
	dispatcher *cache.Dispatcher
	logger     *slog.Logger
}

// NewShelfService creates a new shelf service.
func NewShelfService(st store.Store, dispatcher *cache.Dispatcher, logger *slog.Logger) *ShelfService {
	return &ShelfService{
		store:      st,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateShelf creates a new shelf for the user.
func (s *ShelfService) CreateShelf(ctx context.Context, ownerID, name, description string, position int) (*domain.Shelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if name == "" {
		return nil, domainerrors.Validation("shelf name cannot be empty")
	}

	shelfID, err := id.Generate("shelf")
	if err != nil {
		return nil, fmt.Errorf("generate shelf ID: %w", err)
	}

	now := time.Now()
	shelf := &domain.Shelf{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          shelfID,
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Position:    position,
	}

	if err := s.store.CreateShelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("create shelf: %w", err)
	}

	s.logger.Info("shelf created",
		"shelf_id", shelfID,
		"owner_id", ownerID,
		"name", name,
	)

	s.invalidate(ownerID)
	return shelf, nil
}

// GetShelf retrieves a shelf with its books. Requires ownership.
func (s *ShelfService) GetShelf(ctx context.Context, userID, shelfID string) (*domain.Shelf, []*domain.Book, error) {
	shelf, err := s.store.GetShelf(ctx, shelfID)
	if err != nil {
		return nil, nil, err
	}
	if shelf.OwnerID != userID {
		return nil, nil, domainerrors.NotFound("shelf not found")
	}

	books, err := s.store.ListBooksByShelf(ctx, shelfID)
	if err != nil {
		return nil, nil, fmt.Errorf("list shelf books: %w", err)
	}
	return shelf, books, nil
}

// ListShelves returns the user's shelves in position order.
func (s *ShelfService) ListShelves(ctx context.Context, userID string) ([]*domain.Shelf, error) {
	return s.store.ListShelvesByOwner(ctx, userID)
}

// UpdateShelf updates shelf metadata. Requires ownership.
func (s *ShelfService) UpdateShelf(ctx context.Context, userID, shelfID, name, description string, position int) (*domain.Shelf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shelf, err := s.store.GetShelf(ctx, shelfID)
	if err != nil {
		return nil, err
	}
	if shelf.OwnerID != userID {
		return nil, domainerrors.NotFound("shelf not found")
	}
	if name == "" {
		return nil, domainerrors.Validation("shelf name cannot be empty")
	}

	shelf.Name = name
	shelf.Description = description
	shelf.Position = position
	shelf.UpdatedAt = time.Now()

	if err := s.store.UpdateShelf(ctx, shelf); err != nil {
		return nil, fmt.Errorf("update shelf: %w", err)
	}

	s.logger.Info("shelf updated", "shelf_id", shelfID, "user_id", userID)

	s.invalidate(userID)
	return shelf, nil
}

// DeleteShelf deletes a shelf. Its books are detached, not deleted.
// Requires ownership.
func (s *ShelfService) DeleteShelf(ctx context.Context, userID, shelfID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	shelf, err := s.store.GetShelf(ctx, shelfID)
	if err != nil {
		return err
	}
	if shelf.OwnerID != userID {
		return domainerrors.NotFound("shelf not found")
	}

	if err := s.store.DeleteShelf(ctx, shelfID); err != nil {
		return fmt.Errorf("delete shelf: %w", err)
	}

	s.logger.Info("shelf deleted", "shelf_id", shelfID, "user_id", userID)

	s.invalidate(userID)
	return nil
}

func (s *ShelfService) invalidate(userID string) {
	if err := s.dispatcher.ShelfChanged(userID); err != nil {
		s.logger.Warn("cache invalidation failed", "user_id", userID, "error", err)
	}
}
