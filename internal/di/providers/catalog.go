package providers

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/samber/do/v2"

	"github.com/kitaplik/kitaplik-server/internal/cache"
	"github.com/kitaplik/kitaplik-server/internal/catalog"
	"github.com/kitaplik/kitaplik-server/internal/config"
	"github.com/kitaplik/kitaplik-server/internal/logger"
)

// ProvideCatalogImporter provides the curated catalog importer.
func ProvideCatalogImporter(i do.Injector) (*catalog.Importer, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	dispatcher := do.MustInvoke[*cache.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	importer := catalog.NewImporter(storeHandle.Store, storeHandle.Store, log.Logger)
	importer.SetChangeListener(dispatcher)
	return importer, nil
}

// CatalogWatcherHandle runs the fsnotify catalog watcher in the background.
type CatalogWatcherHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *CatalogWatcherHandle) Shutdown() error {
	h.cancel()
	select {
	case <-h.done:
	case <-time.After(shutdownTimeout):
	}
	return nil
}

// ProvideCatalogWatcher imports the catalog directory once and then watches
// it for changes. A missing catalog directory is not fatal: the server runs
// with whatever lists were imported before.
func ProvideCatalogWatcher(i do.Injector) (*CatalogWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	importer := do.MustInvoke[*catalog.Importer](i)

	dir := cfg.Data.CatalogPath
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	if err := importer.ImportDir(context.Background(), dir); err != nil {
		log.Warn("Initial catalog import had errors", "dir", dir, "error", err)
	}

	watcher := catalog.NewWatcher(importer, dir, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Catalog watcher stopped", "error", err)
		}
	}()

	log.Info("Catalog watcher started", "dir", dir)

	return &CatalogWatcherHandle{cancel: cancel, done: done}, nil
}
