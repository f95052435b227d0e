package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/store"
)

// ChangeListener is notified after a successful import so cached catalog
// views can be dropped. Satisfied by *cache.Dispatcher.
type ChangeListener interface {
	CatalogChanged(listSlugs ...string) error
}

// Importer loads catalog files into the store.
type Importer struct {
	lists      store.ReadingListStore
	challenges store.ChallengeStore
	listener   ChangeListener
	logger     *slog.Logger
}

// NewImporter creates an importer writing through the given stores.
func NewImporter(lists store.ReadingListStore, challenges store.ChallengeStore, logger *slog.Logger) *Importer {
	return &Importer{
		lists:      lists,
		challenges: challenges,
		logger:     logger,
	}
}

// SetChangeListener registers the listener notified after imports. Optional;
// without one, cached catalog views age out on their TTL.
func (i *Importer) SetChangeListener(l ChangeListener) {
	i.listener = l
}

func (i *Importer) notifyChanged(slugs ...string) {
	if i.listener == nil {
		return
	}
	if err := i.listener.CatalogChanged(slugs...); err != nil {
		i.logger.Warn("catalog cache invalidation failed", "error", err)
	}
}

// ImportFile parses and imports a single catalog JSON file.
func (i *Importer) ImportFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog file: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	now := time.Now()
	switch f.Kind {
	case KindReadingList:
		list, err := f.toReadingList(now)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if err := i.lists.UpsertReadingList(ctx, list); err != nil {
			return fmt.Errorf("import list %q: %w", list.Slug, err)
		}
		i.logger.Info("imported reading list",
			"slug", list.Slug,
			"levels", len(list.Levels),
		)
		i.notifyChanged(list.Slug)
		return nil

	case KindChallenge:
		challenge, err := f.toChallenge(now)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if err := i.challenges.UpsertChallenge(ctx, challenge); err != nil {
			return fmt.Errorf("import challenge %d: %w", challenge.Year, err)
		}
		i.logger.Info("imported challenge",
			"year", challenge.Year,
			"months", len(challenge.Months),
		)
		i.notifyChanged()
		return nil

	default:
		return fmt.Errorf("%s: unknown catalog kind %q", filepath.Base(path), f.Kind)
	}
}

// ImportDir imports every .json file in a directory, in name order. A bad
// file is logged and skipped; one malformed list must not block the rest of
// the catalog.
func (i *Importer) ImportDir(ctx context.Context, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read catalog dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	for _, path := range paths {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := i.ImportFile(ctx, path); err != nil {
			i.logger.Error("catalog import failed", "path", path, "error", err)
		}
	}
	return nil
}
