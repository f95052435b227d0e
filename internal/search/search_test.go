package search

import (
	"context"
	"testing"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(Options{})
	if err != nil {
		t.Fatalf("create index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func indexTestBook(t *testing.T, idx *Index, id, ownerID, title, author string) {
	t.Helper()
	now := time.Now()
	err := idx.IndexBook(DocumentFromBook(&domain.Book{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Author:    author,
		Status:    domain.StatusToRead,
	}))
	if err != nil {
		t.Fatalf("index book %s: %v", id, err)
	}
}

func TestSearchByTitle(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	indexTestBook(t, idx, "book-1", "user-1", "Dune", "Frank Herbert")
	indexTestBook(t, idx, "book-2", "user-1", "Hyperion", "Dan Simmons")

	params := DefaultParams()
	params.OwnerID = "user-1"
	params.Query = "dune"

	result, err := idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Total: got %d, want 1", result.Total)
	}
	if result.Hits[0].ID != "book-1" {
		t.Errorf("hit: got %s, want book-1", result.Hits[0].ID)
	}
	if result.Hits[0].Title != "Dune" {
		t.Errorf("title: got %q, want Dune", result.Hits[0].Title)
	}
}

func TestSearchByAuthor(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	indexTestBook(t, idx, "book-1", "user-1", "Dune", "Frank Herbert")
	indexTestBook(t, idx, "book-2", "user-1", "Solaris", "Stanislaw Lem")

	params := DefaultParams()
	params.OwnerID = "user-1"
	params.Query = "herbert"

	result, err := idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 1 || result.Hits[0].ID != "book-1" {
		t.Fatalf("expected book-1 only, got %+v", result.Hits)
	}
}

func TestSearchScopedToOwner(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	indexTestBook(t, idx, "book-1", "user-1", "Dune", "Frank Herbert")
	indexTestBook(t, idx, "book-2", "user-2", "Dune", "Frank Herbert")

	params := DefaultParams()
	params.OwnerID = "user-1"
	params.Query = "dune"

	result, err := idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("Total: got %d, want 1", result.Total)
	}
	if result.Hits[0].ID != "book-1" {
		t.Errorf("another user's book surfaced: %s", result.Hits[0].ID)
	}

	// Missing owner is rejected outright.
	params.OwnerID = ""
	if _, err := idx.Search(ctx, params); err == nil {
		t.Error("expected error for ownerless search")
	}
}

func TestDeleteBook(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	indexTestBook(t, idx, "book-1", "user-1", "Dune", "Frank Herbert")
	if err := idx.DeleteBook("book-1"); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}

	params := DefaultParams()
	params.OwnerID = "user-1"
	params.Query = "dune"

	result, err := idx.Search(ctx, params)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 0 {
		t.Errorf("deleted book still indexed: %+v", result.Hits)
	}
}
