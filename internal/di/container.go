// Package di provides dependency injection configuration for the Kitaplık server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/kitaplik/kitaplik-server/internal/auth"
	"github.com/kitaplik/kitaplik-server/internal/cache"
	"github.com/kitaplik/kitaplik-server/internal/catalog"
	"github.com/kitaplik/kitaplik-server/internal/config"
	"github.com/kitaplik/kitaplik-server/internal/di/providers"
	"github.com/kitaplik/kitaplik-server/internal/logger"
	"github.com/kitaplik/kitaplik-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCache)
	do.Provide(injector, providers.ProvideDispatcher)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideVerifier)

	// Catalog layer
	do.Provide(injector, providers.ProvideCatalogImporter)
	do.Provide(injector, providers.ProvideCatalogWatcher)

	// Business services
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideShelfService)
	do.Provide(injector, providers.ProvideReadingListService)
	do.Provide(injector, providers.ProvideResolverService)
	do.Provide(injector, providers.ProvideChallengeService)
	do.Provide(injector, providers.ProvideRatingService)
	do.Provide(injector, providers.ProvideQuoteService)
	do.Provide(injector, providers.ProvideStatsService)
	do.Provide(injector, providers.ProvideAPIKeyService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle
// management. This triggers lazy initialization of every provider.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.CacheHandle](injector)
	_ = do.MustInvoke[*cache.Dispatcher](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.Verifier](injector)
	_ = do.MustInvoke[*catalog.Importer](injector)
	_ = do.MustInvoke[*providers.CatalogWatcherHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.ShelfService](injector)
	_ = do.MustInvoke[*service.ReadingListService](injector)
	_ = do.MustInvoke[*service.ResolverService](injector)
	_ = do.MustInvoke[*service.ChallengeService](injector)
	_ = do.MustInvoke[*service.RatingService](injector)
	_ = do.MustInvoke[*service.QuoteService](injector)
	_ = do.MustInvoke[*service.StatsService](injector)
	_ = do.MustInvoke[*service.APIKeyService](injector)

	// Rebuild the search index from the store before serving queries.
	providers.ReindexAtStartup(injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
