package service

import (
	"context"
	"testing"

	domainerrors "github.com/kitaplik/kitaplik-server/internal/errors"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

func TestGetProgress_CachedUntilLinkChanges(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	env.addList(t, "klasikler", []testEntry{
		{entryID("klasikler", 1), "Suç ve Ceza", "Dostoyevski"},
		{entryID("klasikler", 2), "Anna Karenina", "Tolstoy"},
	})
	env.addBook(t, "book-1", "user-1", "Suç ve Ceza", "Dostoyevski")

	svc := NewReadingListService(env.store, env.cache, env.dispatcher, env.logger)
	ctx := context.Background()

	progress, err := svc.GetProgress(ctx, "user-1", "klasikler")
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if progress.TotalEntries != 2 || progress.LinkedCount != 0 {
		t.Fatalf("initial progress: total=%d linked=%d", progress.TotalEntries, progress.LinkedCount)
	}

	// Linking must invalidate the cached view, not wait out the TTL.
	bookID := "book-1"
	if _, err := svc.LinkBook(ctx, "user-1", entryID("klasikler", 1), &bookID); err != nil {
		t.Fatalf("LinkBook: %v", err)
	}

	progress, err = svc.GetProgress(ctx, "user-1", "klasikler")
	if err != nil {
		t.Fatalf("GetProgress after link: %v", err)
	}
	if progress.LinkedCount != 1 {
		t.Errorf("LinkedCount after link: got %d, want 1", progress.LinkedCount)
	}
	link, ok := progress.Links[entryID("klasikler", 1)]
	if !ok {
		t.Fatal("linked entry missing from progress")
	}
	if link.BookID == nil || *link.BookID != "book-1" {
		t.Errorf("link book: got %v, want book-1", link.BookID)
	}

	// Unlinking invalidates again.
	if err := svc.UnlinkBook(ctx, "user-1", entryID("klasikler", 1)); err != nil {
		t.Fatalf("UnlinkBook: %v", err)
	}
	progress, err = svc.GetProgress(ctx, "user-1", "klasikler")
	if err != nil {
		t.Fatalf("GetProgress after unlink: %v", err)
	}
	if progress.LinkedCount != 0 {
		t.Errorf("LinkedCount after unlink: got %d, want 0", progress.LinkedCount)
	}
}

func TestLists_CachedUntilCatalogChanges(t *testing.T) {
	env := newTestEnv(t)
	env.addList(t, "klasikler", []testEntry{
		{entryID("klasikler", 1), "Suç ve Ceza", "Dostoyevski"},
	})

	svc := NewReadingListService(env.store, env.cache, env.dispatcher, env.logger)
	ctx := context.Background()

	lists, err := svc.Lists(ctx)
	if err != nil {
		t.Fatalf("Lists: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("lists: got %d, want 1", len(lists))
	}

	// A new list is invisible until the catalog invalidation fires.
	env.addList(t, "bilim-kurgu", []testEntry{
		{entryID("bilim-kurgu", 1), "Dune", "Frank Herbert"},
	})

	lists, err = svc.Lists(ctx)
	if err != nil {
		t.Fatalf("Lists cached: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("cached lists: got %d, want 1", len(lists))
	}

	if err := env.dispatcher.CatalogChanged("bilim-kurgu"); err != nil {
		t.Fatalf("CatalogChanged: %v", err)
	}

	lists, err = svc.Lists(ctx)
	if err != nil {
		t.Fatalf("Lists after invalidation: %v", err)
	}
	if len(lists) != 2 {
		t.Errorf("lists after invalidation: got %d, want 2", len(lists))
	}
}

func TestLinkBook_CopylessLink(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	env.addList(t, "klasikler", []testEntry{
		{entryID("klasikler", 1), "Suç ve Ceza", "Dostoyevski"},
	})

	svc := NewReadingListService(env.store, env.cache, env.dispatcher, env.logger)

	link, err := svc.LinkBook(context.Background(), "user-1", entryID("klasikler", 1), nil)
	if err != nil {
		t.Fatalf("LinkBook: %v", err)
	}
	if link.BookID != nil {
		t.Errorf("copyless link carries book %v", link.BookID)
	}
}

func TestLinkBook_RejectsForeignBook(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	env.addUser(t, "user-2")
	env.addList(t, "klasikler", []testEntry{
		{entryID("klasikler", 1), "Suç ve Ceza", "Dostoyevski"},
	})
	env.addBook(t, "book-1", "user-2", "Suç ve Ceza", "Dostoyevski")

	svc := NewReadingListService(env.store, env.cache, env.dispatcher, env.logger)

	bookID := "book-1"
	_, err := svc.LinkBook(context.Background(), "user-1", entryID("klasikler", 1), &bookID)
	if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLinkBook_DuplicateEntry(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")
	env.addList(t, "klasikler", []testEntry{
		{entryID("klasikler", 1), "Suç ve Ceza", "Dostoyevski"},
	})
	env.addBook(t, "book-1", "user-1", "Suç ve Ceza", "Dostoyevski")

	svc := NewReadingListService(env.store, env.cache, env.dispatcher, env.logger)
	ctx := context.Background()

	bookID := "book-1"
	if _, err := svc.LinkBook(ctx, "user-1", entryID("klasikler", 1), &bookID); err != nil {
		t.Fatalf("first LinkBook: %v", err)
	}
	if _, err := svc.LinkBook(ctx, "user-1", entryID("klasikler", 1), nil); !domainerrors.Is(err, store.ErrAlreadyLinked) {
		t.Fatalf("expected already linked, got %v", err)
	}
}

func TestLinkBook_UnknownEntry(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "user-1")

	svc := NewReadingListService(env.store, env.cache, env.dispatcher, env.logger)

	_, err := svc.LinkBook(context.Background(), "user-1", "yok/boyle-giris", nil)
	if !domainerrors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
