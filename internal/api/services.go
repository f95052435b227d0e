package api

import (
	"github.com/kitaplik/kitaplik-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Book        *service.BookService
	Shelf       *service.ShelfService
	ReadingList *service.ReadingListService
	Resolver    *service.ResolverService
	Challenge   *service.ChallengeService
	Rating      *service.RatingService
	Quote       *service.QuoteService
	Stats       *service.StatsService
	APIKey      *service.APIKeyService
}
