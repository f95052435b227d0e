// Package store defines the persistence contracts the service layer depends
// on. The SQLite implementation lives in the sqlite subpackage.
package store

import (
	"context"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/domain"
)

// BookStore persists books.
type BookStore interface {
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error
	ListBooksByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error)
	ListBooksByShelf(ctx context.Context, shelfID string) ([]*domain.Book, error)
	// ListAllBooks returns every book, used to rebuild the search index.
	ListAllBooks(ctx context.Context) ([]*domain.Book, error)
}

// ShelfStore persists shelves.
type ShelfStore interface {
	CreateShelf(ctx context.Context, shelf *domain.Shelf) error
	GetShelf(ctx context.Context, id string) (*domain.Shelf, error)
	UpdateShelf(ctx context.Context, shelf *domain.Shelf) error
	// DeleteShelf detaches the shelf's books and removes the shelf in one
	// transaction. Books survive shelf deletion.
	DeleteShelf(ctx context.Context, id string) error
	ListShelvesByOwner(ctx context.Context, ownerID string) ([]*domain.Shelf, error)
}

// ReadingListStore persists curated reading lists and their levels/entries.
type ReadingListStore interface {
	UpsertReadingList(ctx context.Context, list *domain.ReadingList) error
	GetReadingList(ctx context.Context, slug string) (*domain.ReadingList, error)
	ListReadingLists(ctx context.Context) ([]*domain.ReadingList, error)
	GetEntry(ctx context.Context, entryID string) (*domain.CatalogEntry, error)
}

// LinkStore persists user links between catalog entries and owned books.
type LinkStore interface {
	// CreateLink records a link. Returns ErrAlreadyLinked when the entry is
	// already linked for this user, or when the book already backs another
	// entry of this user.
	CreateLink(ctx context.Context, link *domain.CatalogLink) error
	DeleteLink(ctx context.Context, userID, entryID string) error
	GetLink(ctx context.Context, userID, entryID string) (*domain.CatalogLink, error)
	ListLinksByUser(ctx context.Context, userID string) ([]*domain.CatalogLink, error)
	// FindUnlinkedEntries returns the entries of a list with no link for this
	// user, in level/position order.
	FindUnlinkedEntries(ctx context.Context, userID, listSlug string) ([]*domain.CatalogEntry, error)
	// FindUnlinkedBooks returns the user's books that do not yet back any
	// catalog link.
	FindUnlinkedBooks(ctx context.Context, userID string) ([]*domain.Book, error)
}

// ChallengeStore persists yearly challenges and user completion links.
type ChallengeStore interface {
	UpsertChallenge(ctx context.Context, challenge *domain.Challenge) error
	GetChallengeByYear(ctx context.Context, year int) (*domain.Challenge, error)
	CreateChallengeLink(ctx context.Context, link *domain.ChallengeLink) error
	DeleteChallengeLink(ctx context.Context, userID, challengeBookID string) error
	ListChallengeLinksByUser(ctx context.Context, userID string, year int) ([]*domain.ChallengeLink, error)
	SetChallengeLinkCompleted(ctx context.Context, userID, challengeBookID string, completedAt *time.Time) error
}

// RatingStore persists per-user book ratings.
type RatingStore interface {
	UpsertRating(ctx context.Context, rating *domain.Rating) error
	GetRating(ctx context.Context, userID, bookID string) (*domain.Rating, error)
	DeleteRating(ctx context.Context, userID, bookID string) error
	ListRatingsByUser(ctx context.Context, userID string) ([]*domain.Rating, error)
}

// QuoteStore persists saved quotes.
type QuoteStore interface {
	CreateQuote(ctx context.Context, quote *domain.Quote) error
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)
	DeleteQuote(ctx context.Context, id string) error
	ListQuotesByBook(ctx context.Context, bookID string) ([]*domain.Quote, error)
	ListQuotesByOwner(ctx context.Context, ownerID string) ([]*domain.Quote, error)
}

// UserStore persists user records provisioned from verified tokens.
type UserStore interface {
	UpsertUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// APIKeyStore persists hashed keys for the extension API.
type APIKeyStore interface {
	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	GetAPIKey(ctx context.Context, id string) (*domain.APIKey, error)
	ListAPIKeysByUser(ctx context.Context, userID string) ([]*domain.APIKey, error)
	DeleteAPIKey(ctx context.Context, id string) error
	TouchAPIKey(ctx context.Context, id string, usedAt time.Time) error
}

// Store is the full persistence surface.
type Store interface {
	BookStore
	ShelfStore
	ReadingListStore
	LinkStore
	ChallengeStore
	RatingStore
	QuoteStore
	UserStore
	APIKeyStore

	Close() error
}
