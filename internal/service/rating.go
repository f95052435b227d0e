package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/cache"
	"github.com/kitaplik/kitaplik-server/internal/domain"
	domainerrors "github.com/kitaplik/kitaplik-server/internal/errors"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// RatingService manages per-user book ratings.
type RatingService struct {
	store      store.Store
	dispatcher *cache.Dispatcher
	logger     *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(st store.Store, dispatcher *cache.Dispatcher, logger *slog.Logger) *RatingService {
	return &RatingService{
		store:      st,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// RateBook creates or replaces the user's rating for a book they own.
func (s *RatingService) RateBook(ctx context.Context, userID, bookID string, value int, review string) (*domain.Rating, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != userID {
		return nil, domainerrors.NotFound("book not found")
	}

	now := time.Now()
	rating := &domain.Rating{
		CreatedAt: now,
		UpdatedAt: now,
		UserID:    userID,
		BookID:    bookID,
		Value:     value,
		Review:    review,
	}
	if err := rating.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.UpsertRating(ctx, rating); err != nil {
		return nil, fmt.Errorf("upsert rating: %w", err)
	}

	s.logger.Info("book rated",
		"user_id", userID,
		"book_id", bookID,
		"value", value,
	)

	s.invalidate(userID, bookID)
	return rating, nil
}

// GetRating returns the user's rating for a book, or ErrNotFound.
func (s *RatingService) GetRating(ctx context.Context, userID, bookID string) (*domain.Rating, error) {
	return s.store.GetRating(ctx, userID, bookID)
}

// DeleteRating removes the user's rating for a book.
func (s *RatingService) DeleteRating(ctx context.Context, userID, bookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeleteRating(ctx, userID, bookID); err != nil {
		return err
	}

	s.logger.Info("rating deleted", "user_id", userID, "book_id", bookID)

	s.invalidate(userID, bookID)
	return nil
}

// ListRatings returns all of the user's ratings, most recently updated first.
func (s *RatingService) ListRatings(ctx context.Context, userID string) ([]*domain.Rating, error) {
	return s.store.ListRatingsByUser(ctx, userID)
}

func (s *RatingService) invalidate(userID, bookID string) {
	if err := s.dispatcher.RatingChanged(userID, bookID); err != nil {
		s.logger.Warn("cache invalidation failed", "user_id", userID, "error", err)
	}
}
