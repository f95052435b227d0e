package providers

import (
	"github.com/samber/do/v2"

	"github.com/kitaplik/kitaplik-server/internal/cache"
	"github.com/kitaplik/kitaplik-server/internal/logger"
	"github.com/kitaplik/kitaplik-server/internal/service"
)

// ProvideBookService provides the book service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	dispatcher := do.MustInvoke[*cache.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, indexHandle.Index, cacheHandle.Cache, dispatcher, log.Logger), nil
}

// ProvideShelfService provides the shelf service.
func ProvideShelfService(i do.Injector) (*service.ShelfService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	dispatcher := do.MustInvoke[*cache.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewShelfService(storeHandle.Store, dispatcher, log.Logger), nil
}

// ProvideReadingListService provides the reading list service.
func ProvideReadingListService(i do.Injector) (*service.ReadingListService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	dispatcher := do.MustInvoke[*cache.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReadingListService(storeHandle.Store, cacheHandle.Cache, dispatcher, log.Logger), nil
}

// ProvideResolverService provides the batch link resolver.
func ProvideResolverService(i do.Injector) (*service.ResolverService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	dispatcher := do.MustInvoke[*cache.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewResolverService(storeHandle.Store, dispatcher, log.Logger), nil
}

// ProvideChallengeService provides the yearly challenge service.
func ProvideChallengeService(i do.Injector) (*service.ChallengeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	dispatcher := do.MustInvoke[*cache.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewChallengeService(storeHandle.Store, cacheHandle.Cache, dispatcher, log.Logger), nil
}

// ProvideRatingService provides the rating service.
func ProvideRatingService(i do.Injector) (*service.RatingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	dispatcher := do.MustInvoke[*cache.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRatingService(storeHandle.Store, dispatcher, log.Logger), nil
}

// ProvideQuoteService provides the quote service.
func ProvideQuoteService(i do.Injector) (*service.QuoteService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewQuoteService(storeHandle.Store, log.Logger), nil
}

// ProvideStatsService provides the statistics service.
func ProvideStatsService(i do.Injector) (*service.StatsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStatsService(storeHandle.Store, cacheHandle.Cache, log.Logger), nil
}

// ProvideAPIKeyService provides the extension API key service.
func ProvideAPIKeyService(i do.Injector) (*service.APIKeyService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAPIKeyService(storeHandle.Store, log.Logger), nil
}
