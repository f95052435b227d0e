package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/cache"
	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/search"
	"github.com/kitaplik/kitaplik-server/internal/store/sqlite"
)

// testEnv wires real components: a SQLite store on a temp file, an in-memory
// cache and search index, and a dispatcher over the cache.
type testEnv struct {
	store      *sqlite.Store
	cache      *cache.Cache
	dispatcher *cache.Dispatcher
	index      *search.Index
	logger     *slog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	c, err := cache.Open("", logger)
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	idx, err := search.NewIndex(search.Options{Logger: logger})
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { idx.Close() })

	return &testEnv{
		store:      st,
		cache:      c,
		dispatcher: cache.NewDispatcher(c, logger),
		index:      idx,
		logger:     logger,
	}
}

func (e *testEnv) addUser(t *testing.T, id string) {
	t.Helper()
	now := time.Now()
	err := e.store.UpsertUser(context.Background(), &domain.User{
		CreatedAt:   now,
		UpdatedAt:   now,
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: id,
	})
	if err != nil {
		t.Fatalf("add user %s: %v", id, err)
	}
}

func (e *testEnv) addBook(t *testing.T, id, ownerID, title, author string) {
	t.Helper()
	now := time.Now()
	err := e.store.CreateBook(context.Background(), &domain.Book{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		Author:    author,
		Status:    domain.StatusToRead,
	})
	if err != nil {
		t.Fatalf("add book %s: %v", id, err)
	}
}

type testEntry struct {
	id     string
	title  string
	author string
}

func (e *testEnv) addList(t *testing.T, slug string, entries []testEntry) {
	t.Helper()
	now := time.Now()

	level := &domain.Level{
		ID:     slug + "/seviye-1",
		ListID: slug,
		Name:   "Seviye 1",
	}
	for i, entry := range entries {
		level.Entries = append(level.Entries, &domain.CatalogEntry{
			ID:       entry.id,
			LevelID:  level.ID,
			Title:    entry.title,
			Author:   entry.author,
			Position: i,
		})
	}

	list := &domain.ReadingList{
		CreatedAt: now,
		UpdatedAt: now,
		ID:        slug,
		Slug:      slug,
		Title:     slug,
		Levels:    []*domain.Level{level},
	}
	if err := e.store.UpsertReadingList(context.Background(), list); err != nil {
		t.Fatalf("add list %s: %v", slug, err)
	}
}

// entryID builds the derived entry ID convention used across these tests.
func entryID(slug string, n int) string {
	return fmt.Sprintf("%s/entry-%d", slug, n)
}
