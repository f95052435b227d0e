package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/cache"
	"github.com/kitaplik/kitaplik-server/internal/domain"
	domainerrors "github.com/kitaplik/kitaplik-server/internal/errors"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// ReadingListService serves curated lists with per-user progress and manages
// entry links.
type ReadingListService struct {
	store      store.Store
	cache      *cache.Cache
	dispatcher *cache.Dispatcher
	logger     *slog.Logger
}

// NewReadingListService creates a new reading list service.
func NewReadingListService(st store.Store, c *cache.Cache, dispatcher *cache.Dispatcher, logger *slog.Logger) *ReadingListService {
	return &ReadingListService{
		store:      st,
		cache:      c,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// ListProgress is a curated list annotated with one user's links.
type ListProgress struct {
	List         *domain.ReadingList `json:"list"`
	LinkedCount  int                 `json:"linked_count"`
	TotalEntries int                 `json:"total_entries"`
	// Links by entry ID, only for entries this user has linked.
	Links map[string]*domain.CatalogLink `json:"links"`
}

// Lists returns all curated lists without level detail. The catalog only
// changes on import, so the result is cached statically and dropped via the
// catalog tag when the importer runs.
func (s *ReadingListService) Lists(ctx context.Context) ([]*domain.ReadingList, error) {
	const cacheKey = "reading-lists"

	var cached []*domain.ReadingList
	if hit, err := s.cache.GetJSON(cacheKey, &cached); err == nil && hit {
		return cached, nil
	} else if err != nil {
		s.logger.Warn("cache read failed", "key", cacheKey, "error", err)
	}

	lists, err := s.store.ListReadingLists(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(cacheKey, lists, cache.TTLStatic, cache.CatalogTag()); err != nil {
		s.logger.Warn("cache write failed", "key", cacheKey, "error", err)
	}

	return lists, nil
}

// GetProgress returns a list with the user's link state, cached per user and
// list until a link or the catalog changes.
func (s *ReadingListService) GetProgress(ctx context.Context, userID, slug string) (*ListProgress, error) {
	cacheKey := fmt.Sprintf("list-progress:%s:%s", slug, userID)

	var cached ListProgress
	if hit, err := s.cache.GetJSON(cacheKey, &cached); err == nil && hit {
		return &cached, nil
	} else if err != nil {
		s.logger.Warn("cache read failed", "key", cacheKey, "error", err)
	}

	list, err := s.store.GetReadingList(ctx, slug)
	if err != nil {
		return nil, err
	}

	links, err := s.store.ListLinksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}

	progress := &ListProgress{
		List:  list,
		Links: make(map[string]*domain.CatalogLink),
	}
	byEntry := make(map[string]*domain.CatalogLink, len(links))
	for _, link := range links {
		byEntry[link.EntryID] = link
	}
	for _, level := range list.Levels {
		for _, entry := range level.Entries {
			progress.TotalEntries++
			if link, ok := byEntry[entry.ID]; ok {
				progress.Links[entry.ID] = link
				progress.LinkedCount++
			}
		}
	}

	err = s.cache.SetJSON(cacheKey, progress, cache.TTLMedium,
		cache.ListTag(slug), cache.UserListLinksTag(userID))
	if err != nil {
		s.logger.Warn("cache write failed", "key", cacheKey, "error", err)
	}

	return progress, nil
}

// LinkBook links a catalog entry to one of the user's books, or records a
// copyless acknowledgement when bookID is nil. The link is persisted before
// any cached view is invalidated, so readers see either the old state or the
// complete new one.
func (s *ReadingListService) LinkBook(ctx context.Context, userID, entryID string, bookID *string) (*domain.CatalogLink, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := s.store.GetEntry(ctx, entryID); err != nil {
		return nil, err
	}

	if bookID != nil {
		book, err := s.store.GetBook(ctx, *bookID)
		if err != nil {
			return nil, err
		}
		if book.OwnerID != userID {
			return nil, domainerrors.NotFound("book not found")
		}
	}

	link := &domain.CatalogLink{
		CreatedAt: time.Now(),
		UserID:    userID,
		EntryID:   entryID,
		BookID:    bookID,
	}

	if err := s.store.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("entry linked",
		"user_id", userID,
		"entry_id", entryID,
		"book_id", bookID,
	)

	s.invalidateLink(userID, bookID)
	return link, nil
}

// UnlinkBook removes the user's link for an entry.
func (s *ReadingListService) UnlinkBook(ctx context.Context, userID, entryID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	link, err := s.store.GetLink(ctx, userID, entryID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteLink(ctx, userID, entryID); err != nil {
		return err
	}

	s.logger.Info("entry unlinked", "user_id", userID, "entry_id", entryID)

	s.invalidateLink(userID, link.BookID)
	return nil
}

// invalidateLink drops cached views affected by a link change. The per-user
// link tag covers every cached list view of this user, so the list slug is
// not needed here; list tags are invalidated on catalog re-import instead.
func (s *ReadingListService) invalidateLink(userID string, bookID *string) {
	id := ""
	if bookID != nil {
		id = *bookID
	}
	if err := s.dispatcher.LinkChanged(userID, id); err != nil {
		s.logger.Warn("cache invalidation failed", "user_id", userID, "error", err)
	}
}
