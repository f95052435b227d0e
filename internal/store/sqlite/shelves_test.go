package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/errors"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

func insertTestShelf(t *testing.T, s *Store, id, ownerID, name string) {
	t.Helper()
	now := time.Now()
	err := s.CreateShelf(context.Background(), &domain.Shelf{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        id,
		OwnerID:   ownerID,
		Name:      name,
	})
	if err != nil {
		t.Fatalf("insert test shelf %s: %v", id, err)
	}
}

func TestCreateAndGetShelf(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	now := time.Now()
	shelf := &domain.Shelf{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          "shelf-1",
		OwnerID:     "user-1",
		Name:        "Bilim Kurgu",
		Description: "Science fiction favorites",
		Position:    2,
	}

	if err := s.CreateShelf(ctx, shelf); err != nil {
		t.Fatalf("CreateShelf: %v", err)
	}

	got, err := s.GetShelf(ctx, "shelf-1")
	if err != nil {
		t.Fatalf("GetShelf: %v", err)
	}
	if got.Name != shelf.Name {
		t.Errorf("Name: got %q, want %q", got.Name, shelf.Name)
	}
	if got.Description != shelf.Description {
		t.Errorf("Description: got %q, want %q", got.Description, shelf.Description)
	}
	if got.Position != 2 {
		t.Errorf("Position: got %d, want 2", got.Position)
	}
}

func TestDeleteShelf_DetachesBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestShelf(t, s, "shelf-1", "user-1", "Bilim Kurgu")
	insertTestBook(t, s, "book-1", "user-1", "Dune", "Frank Herbert")

	book, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	shelfID := "shelf-1"
	book.ShelfID = &shelfID
	if err := s.UpdateBook(ctx, book); err != nil {
		t.Fatalf("UpdateBook: %v", err)
	}

	if err := s.DeleteShelf(ctx, "shelf-1"); err != nil {
		t.Fatalf("DeleteShelf: %v", err)
	}

	// The shelf is gone but the book survives, detached.
	if _, err := s.GetShelf(ctx, "shelf-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected shelf gone, got %v", err)
	}
	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook after shelf delete: %v", err)
	}
	if got.ShelfID != nil {
		t.Errorf("ShelfID: got %v, want nil", *got.ShelfID)
	}
}

func TestDeleteShelf_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.DeleteShelf(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListShelvesByOwner_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")

	now := time.Now()
	for i, name := range []string{"Üçüncü", "Birinci", "İkinci"} {
		err := s.CreateShelf(ctx, &domain.Shelf{
			CreatedAt: now,
			UpdatedAt: now,
			ID:        name,
			OwnerID:   "user-1",
			Name:      name,
			Position:  2 - i,
		})
		if err != nil {
			t.Fatalf("CreateShelf %s: %v", name, err)
		}
	}

	shelves, err := s.ListShelvesByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListShelvesByOwner: %v", err)
	}
	if len(shelves) != 3 {
		t.Fatalf("got %d shelves, want 3", len(shelves))
	}
	want := []string{"İkinci", "Birinci", "Üçüncü"}
	for i, name := range want {
		if shelves[i].Name != name {
			t.Errorf("shelves[%d]: got %q, want %q", i, shelves[i].Name, name)
		}
	}
}
