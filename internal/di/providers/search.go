package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/kitaplik/kitaplik-server/internal/config"
	"github.com/kitaplik/kitaplik-server/internal/logger"
	"github.com/kitaplik/kitaplik-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.IndexPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{Index: index}, nil
}

// ReindexAtStartup rebuilds the search index from the store. The index is
// disposable: a mapping change or a corrupt index on disk leaves it empty,
// and this pass repopulates it.
func ReindexAtStartup(i do.Injector) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	books, err := storeHandle.ListAllBooks(context.Background())
	if err != nil {
		log.Error("Failed to list books for reindex", "error", err)
		return
	}

	docs := make([]*search.BookDocument, 0, len(books))
	for _, b := range books {
		docs = append(docs, search.DocumentFromBook(b))
	}

	if err := indexHandle.IndexBooks(docs); err != nil {
		log.Error("Search reindex failed", "error", err)
		return
	}

	log.Info("Search index ready", "documents", len(docs))
}
