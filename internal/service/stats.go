package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/cache"
	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// StatsService aggregates a user's library into dashboard numbers.
type StatsService struct {
	store  store.Store
	cache  *cache.Cache
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(st store.Store, c *cache.Cache, logger *slog.Logger) *StatsService {
	return &StatsService{store: st, cache: c, logger: logger}
}

// ListSummary is one curated list's completion numbers for the user.
type ListSummary struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	LinkedCount  int    `json:"linked_count"`
	TotalEntries int    `json:"total_entries"`
}

// UserStats is the aggregate view of one user's library.
type UserStats struct {
	TotalBooks     int                          `json:"total_books"`
	BooksByStatus  map[domain.ReadingStatus]int `json:"books_by_status"`
	PagesRead      int                          `json:"pages_read"`
	RatedBooks     int                          `json:"rated_books"`
	AverageRating  float64                      `json:"average_rating"`
	QuotesSaved    int                          `json:"quotes_saved"`
	ActiveGoals    int                          `json:"active_goals"`
	GoalsBehind    int                          `json:"goals_behind"`
	Lists          []ListSummary                `json:"lists"`
}

// GetStats computes the user's aggregate stats, cached briefly since every
// dashboard load requests them.
func (s *StatsService) GetStats(ctx context.Context, userID string) (*UserStats, error) {
	cacheKey := "user-stats:" + userID

	var cached UserStats
	if hit, err := s.cache.GetJSON(cacheKey, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		s.logger.Warn("cache read failed", "key", cacheKey, "error", err)
	}

	stats, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	err = s.cache.SetJSON(cacheKey, stats, cache.TTLMedium, cache.UserStatsTag(userID))
	if err != nil {
		s.logger.Warn("cache write failed", "key", cacheKey, "error", err)
	}

	return stats, nil
}

func (s *StatsService) compute(ctx context.Context, userID string) (*UserStats, error) {
	books, err := s.store.ListBooksByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	stats := &UserStats{
		TotalBooks:    len(books),
		BooksByStatus: make(map[domain.ReadingStatus]int),
	}
	now := time.Now()
	for _, b := range books {
		stats.BooksByStatus[b.Status]++

		// Completed books count their full page count; in-progress books
		// count the pages turned so far.
		if b.Status == domain.StatusCompleted && b.PageCount != nil {
			stats.PagesRead += *b.PageCount
		} else {
			stats.PagesRead += b.CurrentPage
		}

		if goal := b.Goal(now); goal != nil {
			stats.ActiveGoals++
			if goal.Status == domain.GoalBehind {
				stats.GoalsBehind++
			}
		}
	}

	ratings, err := s.store.ListRatingsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	stats.RatedBooks = len(ratings)
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Value
		}
		stats.AverageRating = float64(sum) / float64(len(ratings))
	}

	quotes, err := s.store.ListQuotesByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	stats.QuotesSaved = len(quotes)

	lists, err := s.store.ListReadingLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reading lists: %w", err)
	}
	links, err := s.store.ListLinksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	linkedEntries := make(map[string]bool, len(links))
	for _, link := range links {
		linkedEntries[link.EntryID] = true
	}
	for _, list := range lists {
		full, err := s.store.GetReadingList(ctx, list.Slug)
		if err != nil {
			return nil, fmt.Errorf("load list %s: %w", list.Slug, err)
		}
		summary := ListSummary{Slug: full.Slug, Name: full.Title}
		for _, level := range full.Levels {
			for _, entry := range level.Entries {
				summary.TotalEntries++
				if linkedEntries[entry.ID] {
					summary.LinkedCount++
				}
			}
		}
		stats.Lists = append(stats.Lists, summary)
	}

	return stats, nil
}
