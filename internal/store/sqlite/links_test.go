package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/errors"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

type testEntry struct {
	id     string
	title  string
	author string
}

// insertTestList creates a single-level reading list with the given entries.
func insertTestList(t *testing.T, s *Store, slug string, entries []testEntry) {
	t.Helper()
	now := time.Now()

	level := &domain.Level{
		ID:       slug + "-level-1",
		ListID:   slug,
		Name:     "Level 1",
		Position: 0,
	}
	for i, e := range entries {
		level.Entries = append(level.Entries, &domain.CatalogEntry{
			ID:       e.id,
			LevelID:  level.ID,
			Title:    e.title,
			Author:   e.author,
			Position: i,
		})
	}

	err := s.UpsertReadingList(context.Background(), &domain.ReadingList{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        slug,
		Slug:      slug,
		Title:     slug,
		Levels:    []*domain.Level{level},
	})
	if err != nil {
		t.Fatalf("insert test list %s: %v", slug, err)
	}
}

func TestCreateLink_DuplicateEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestBook(t, s, "book-1", "user-1", "Dune", "Frank Herbert")
	insertTestBook(t, s, "book-2", "user-1", "Dune (hardcover)", "Frank Herbert")
	insertTestList(t, s, "sci-fi", []testEntry{{id: "entry-1", title: "Dune", author: "Frank Herbert"}})

	bookID := "book-1"
	link := &domain.CatalogLink{
		CreatedAt: time.Now(),
		UserID:    "user-1",
		EntryID:   "entry-1",
		BookID:    &bookID,
	}
	if err := s.CreateLink(ctx, link); err != nil {
		t.Fatalf("CreateLink: %v", err)
	}

	// Same entry again, different book.
	otherBook := "book-2"
	dup := &domain.CatalogLink{
		CreatedAt: time.Now(),
		UserID:    "user-1",
		EntryID:   "entry-1",
		BookID:    &otherBook,
	}
	if err := s.CreateLink(ctx, dup); !errors.Is(err, store.ErrAlreadyLinked) {
		t.Fatalf("expected ErrAlreadyLinked for duplicate entry, got %v", err)
	}
}

func TestCreateLink_BookBacksOneEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestBook(t, s, "book-1", "user-1", "Dune", "Frank Herbert")
	insertTestList(t, s, "sci-fi", []testEntry{
		{id: "entry-1", title: "Dune", author: "Frank Herbert"},
		{id: "entry-2", title: "Dune Mesihi", author: "Frank Herbert"},
	})

	bookID := "book-1"
	if err := s.CreateLink(ctx, &domain.CatalogLink{
		CreatedAt: time.Now(), UserID: "user-1", EntryID: "entry-1", BookID: &bookID,
	}); err != nil {
		t.Fatalf("CreateLink: %v", err)
	}

	// The same book cannot back a second entry for the same user.
	err := s.CreateLink(ctx, &domain.CatalogLink{
		CreatedAt: time.Now(), UserID: "user-1", EntryID: "entry-2", BookID: &bookID,
	})
	if !errors.Is(err, store.ErrAlreadyLinked) {
		t.Fatalf("expected ErrAlreadyLinked for reused book, got %v", err)
	}
}

func TestCreateLink_NilBookNotUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestList(t, s, "sci-fi", []testEntry{
		{id: "entry-1", title: "Dune", author: "Frank Herbert"},
		{id: "entry-2", title: "Dune Mesihi", author: "Frank Herbert"},
	})

	// Multiple copyless acknowledgements are fine; the partial index only
	// guards rows with a book.
	for _, entryID := range []string{"entry-1", "entry-2"} {
		err := s.CreateLink(ctx, &domain.CatalogLink{
			CreatedAt: time.Now(), UserID: "user-1", EntryID: entryID,
		})
		if err != nil {
			t.Fatalf("CreateLink %s without book: %v", entryID, err)
		}
	}
}

func TestDeleteLink(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestBook(t, s, "book-1", "user-1", "Dune", "Frank Herbert")
	insertTestList(t, s, "sci-fi", []testEntry{{id: "entry-1", title: "Dune", author: "Frank Herbert"}})

	bookID := "book-1"
	if err := s.CreateLink(ctx, &domain.CatalogLink{
		CreatedAt: time.Now(), UserID: "user-1", EntryID: "entry-1", BookID: &bookID,
	}); err != nil {
		t.Fatalf("CreateLink: %v", err)
	}

	if err := s.DeleteLink(ctx, "user-1", "entry-1"); err != nil {
		t.Fatalf("DeleteLink: %v", err)
	}
	if err := s.DeleteLink(ctx, "user-1", "entry-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	// The book is free to back the entry again.
	if err := s.CreateLink(ctx, &domain.CatalogLink{
		CreatedAt: time.Now(), UserID: "user-1", EntryID: "entry-1", BookID: &bookID,
	}); err != nil {
		t.Errorf("re-link after delete: %v", err)
	}
}

func TestFindUnlinkedEntries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestBook(t, s, "book-1", "user-1", "Dune", "Frank Herbert")
	insertTestList(t, s, "sci-fi", []testEntry{
		{id: "entry-1", title: "Dune", author: "Frank Herbert"},
		{id: "entry-2", title: "Dune Mesihi", author: "Frank Herbert"},
		{id: "entry-3", title: "Hyperion", author: "Dan Simmons"},
	})

	bookID := "book-1"
	if err := s.CreateLink(ctx, &domain.CatalogLink{
		CreatedAt: time.Now(), UserID: "user-1", EntryID: "entry-1", BookID: &bookID,
	}); err != nil {
		t.Fatalf("CreateLink: %v", err)
	}

	entries, err := s.FindUnlinkedEntries(ctx, "user-1", "sci-fi")
	if err != nil {
		t.Fatalf("FindUnlinkedEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// Position order is preserved.
	if entries[0].ID != "entry-2" || entries[1].ID != "entry-3" {
		t.Errorf("order: got %s, %s", entries[0].ID, entries[1].ID)
	}

	// Another user sees all entries unlinked.
	insertTestUser(t, s, "user-2")
	entries, err = s.FindUnlinkedEntries(ctx, "user-2", "sci-fi")
	if err != nil {
		t.Fatalf("FindUnlinkedEntries for user-2: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d entries for user-2, want 3", len(entries))
	}
}

func TestFindUnlinkedBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestBook(t, s, "book-1", "user-1", "Dune", "Frank Herbert")
	insertTestBook(t, s, "book-2", "user-1", "Hyperion", "Dan Simmons")
	insertTestList(t, s, "sci-fi", []testEntry{{id: "entry-1", title: "Dune", author: "Frank Herbert"}})

	bookID := "book-1"
	if err := s.CreateLink(ctx, &domain.CatalogLink{
		CreatedAt: time.Now(), UserID: "user-1", EntryID: "entry-1", BookID: &bookID,
	}); err != nil {
		t.Fatalf("CreateLink: %v", err)
	}

	books, err := s.FindUnlinkedBooks(ctx, "user-1")
	if err != nil {
		t.Fatalf("FindUnlinkedBooks: %v", err)
	}
	if len(books) != 1 || books[0].ID != "book-2" {
		t.Fatalf("got %v, want just book-2", books)
	}
}

func TestUpsertReadingList_PreservesLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertTestUser(t, s, "user-1")
	insertTestBook(t, s, "book-1", "user-1", "Dune", "Frank Herbert")
	insertTestList(t, s, "sci-fi", []testEntry{{id: "entry-1", title: "Dune", author: "Frank Herbert"}})

	bookID := "book-1"
	if err := s.CreateLink(ctx, &domain.CatalogLink{
		CreatedAt: time.Now(), UserID: "user-1", EntryID: "entry-1", BookID: &bookID,
	}); err != nil {
		t.Fatalf("CreateLink: %v", err)
	}

	// Re-import with the same stable entry ID plus a new entry.
	insertTestList(t, s, "sci-fi", []testEntry{
		{id: "entry-1", title: "Dune", author: "Frank Herbert"},
		{id: "entry-2", title: "Hyperion", author: "Dan Simmons"},
	})

	link, err := s.GetLink(ctx, "user-1", "entry-1")
	if err != nil {
		t.Fatalf("link lost on re-import: %v", err)
	}
	if link.BookID == nil || *link.BookID != "book-1" {
		t.Errorf("link book: got %v, want book-1", link.BookID)
	}
}
