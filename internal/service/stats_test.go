package service

import (
	"context"
	"testing"

	"github.com/kitaplik/kitaplik-server/internal/domain"
)

func TestGetStats(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	env.addBook(t, "book-1", "user-1", "Suç ve Ceza", "Dostoyevski")
	env.addBook(t, "book-2", "user-1", "Anna Karenina", "Tolstoy")
	env.addList(t, "klasikler", []testEntry{
		{entryID("klasikler", 1), "Suç ve Ceza", "Dostoyevski"},
		{entryID("klasikler", 2), "Anna Karenina", "Tolstoy"},
	})

	ctx := context.Background()

	lists := NewReadingListService(env.store, env.cache, env.dispatcher, env.logger)
	bookID := "book-1"
	if _, err := lists.LinkBook(ctx, "user-1", entryID("klasikler", 1), &bookID); err != nil {
		t.Fatalf("LinkBook: %v", err)
	}

	ratings := NewRatingService(env.store, env.dispatcher, env.logger)
	if _, err := ratings.RateBook(ctx, "user-1", "book-1", 5, ""); err != nil {
		t.Fatalf("RateBook: %v", err)
	}

	svc := NewStatsService(env.store, env.cache, env.logger)
	stats, err := svc.GetStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats.TotalBooks != 2 {
		t.Errorf("TotalBooks: got %d, want 2", stats.TotalBooks)
	}
	if stats.BooksByStatus[domain.StatusToRead] != 2 {
		t.Errorf("to-read count: got %d", stats.BooksByStatus[domain.StatusToRead])
	}
	if stats.RatedBooks != 1 || stats.AverageRating != 5 {
		t.Errorf("ratings: rated=%d avg=%v", stats.RatedBooks, stats.AverageRating)
	}
	if len(stats.Lists) != 1 {
		t.Fatalf("expected 1 list summary, got %d", len(stats.Lists))
	}
	if got := stats.Lists[0]; got.LinkedCount != 1 || got.TotalEntries != 2 {
		t.Errorf("list summary: linked=%d total=%d", got.LinkedCount, got.TotalEntries)
	}
}

func TestGetStats_InvalidatedByRating(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	env.addBook(t, "book-1", "user-1", "Suç ve Ceza", "Dostoyevski")

	ctx := context.Background()
	svc := NewStatsService(env.store, env.cache, env.logger)

	stats, err := svc.GetStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.RatedBooks != 0 {
		t.Fatalf("unexpected ratings: %d", stats.RatedBooks)
	}

	ratings := NewRatingService(env.store, env.dispatcher, env.logger)
	if _, err := ratings.RateBook(ctx, "user-1", "book-1", 4, "etkileyici"); err != nil {
		t.Fatalf("RateBook: %v", err)
	}

	stats, err = svc.GetStats(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetStats after rating: %v", err)
	}
	if stats.RatedBooks != 1 {
		t.Errorf("cached stats survived rating change: rated=%d", stats.RatedBooks)
	}
}
