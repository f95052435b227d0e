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

// ChallengeService serves yearly challenges with per-user completion state.
type ChallengeService struct {
	store      store.Store
	cache      *cache.Cache
	dispatcher *cache.Dispatcher
	logger     *slog.Logger
}

// NewChallengeService creates a new challenge service.
func NewChallengeService(st store.Store, c *cache.Cache, dispatcher *cache.Dispatcher, logger *slog.Logger) *ChallengeService {
	return &ChallengeService{
		store:      st,
		cache:      c,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ChallengeProgress is a challenge annotated with one user's links.
type ChallengeProgress struct {
	Challenge      *domain.Challenge `json:"challenge"`
	TotalBooks     int               `json:"total_books"`
	LinkedCount    int               `json:"linked_count"`
	CompletedCount int               `json:"completed_count"`
	// Links by challenge book ID.
	Links map[string]*domain.ChallengeLink `json:"links"`
}

// GetProgress returns a year's challenge with the user's completion state,
// cached until a link changes.
func (s *ChallengeService) GetProgress(ctx context.Context, userID string, year int) (*ChallengeProgress, error) {
	cacheKey := fmt.Sprintf("challenge-progress:%d:%s", year, userID)

	var cached ChallengeProgress
	if hit, err := s.cache.GetJSON(cacheKey, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		s.logger.Warn("cache read failed", "key", cacheKey, "error", err)
	}

	challenge, err := s.store.GetChallengeByYear(ctx, year)
	if err != nil {
		return nil, err
	}

	links, err := s.store.ListChallengeLinksByUser(ctx, userID, year)
	if err != nil {
		return nil, fmt.Errorf("list challenge links: %w", err)
	}

	progress := &ChallengeProgress{
		Challenge: challenge,
		Links:     make(map[string]*domain.ChallengeLink, len(links)),
	}
	for _, month := range challenge.Months {
		progress.TotalBooks += len(month.Books)
	}
	for _, link := range links {
		progress.Links[link.ChallengeBookID] = link
		progress.LinkedCount++
		if link.CompletedAt != nil {
			progress.CompletedCount++
		}
	}

	err = s.cache.SetJSON(cacheKey, progress, cache.TTLMedium, cache.UserChallengeTag(userID))
	if err != nil {
		s.logger.Warn("cache write failed", "key", cacheKey, "error", err)
	}

	return progress, nil
}

// LinkBook links a challenge book to one of the user's own books, or records
// a copyless acknowledgement when bookID is nil.
func (s *ChallengeService) LinkBook(ctx context.Context, userID, challengeBookID string, bookID *string) (*domain.ChallengeLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if bookID != nil {
		book, err := s.store.GetBook(ctx, *bookID)
		if err != nil {
			return nil, err
		}
		if book.OwnerID != userID {
			return nil, domainerrors.NotFound("book not found")
		}
	}

	link := &domain.ChallengeLink{
		CreatedAt:       time.Now(),
		UserID:          userID,
		ChallengeBookID: challengeBookID,
		BookID:          bookID,
	}

	if err := s.store.CreateChallengeLink(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("challenge book linked",
		"user_id", userID,
		"challenge_book_id", challengeBookID,
		"book_id", bookID,
	)

	s.invalidate(userID, bookID)
	return link, nil
}

// Unlink removes the user's link for a challenge book.
func (s *ChallengeService) Unlink(ctx context.Context, userID, challengeBookID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeleteChallengeLink(ctx, userID, challengeBookID); err != nil {
		return err
	}

	s.logger.Info("challenge book unlinked",
		"user_id", userID,
		"challenge_book_id", challengeBookID,
	)

	s.invalidate(userID, nil)
	return nil
}

// SetCompleted marks or clears completion of a linked challenge book.
func (s *ChallengeService) SetCompleted(ctx context.Context, userID, challengeBookID string, completed bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var completedAt *time.Time
	if completed {
		now := time.Now()
		completedAt = &now
	}

	if err := s.store.SetChallengeLinkCompleted(ctx, userID, challengeBookID, completedAt); err != nil {
		return err
	}

	s.logger.Info("challenge book completion set",
		"user_id", userID,
		"challenge_book_id", challengeBookID,
		"completed", completed,
	)

	s.invalidate(userID, nil)
	return nil
}

func (s *ChallengeService) invalidate(userID string, bookID *string) {
	id := ""
	if bookID != nil {
		id = *bookID
	}
	if err := s.dispatcher.LinkChanged(userID, id); err != nil {
		s.logger.Warn("cache invalidation failed", "user_id", userID, "error", err)
	}
}
