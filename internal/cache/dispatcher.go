package cache

import "log/slog"

// Invalidator is the side-effecting primitive the dispatcher drives.
// Satisfied by *Cache.
type Invalidator interface {
	Invalidate(tags ...string) error
}

// Dispatcher maps domain mutations to the complete set of cache tags whose
// underlying data changed. Under-invalidation silently serves stale data;
// over-invalidation only costs recomputation. Given that asymmetry every
// mapping here is deliberately broad.
type Dispatcher struct {
	cache  Invalidator
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher over the given cache.
func NewDispatcher(cache Invalidator, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{cache: cache, logger: logger}
}

// LinkChanged invalidates after a catalog or challenge link is created or
// removed. listSlugs names the reading lists whose progress views include
// the affected entry; bookID may be empty for links without a personal copy.
func (d *Dispatcher) LinkChanged(userID, bookID string, listSlugs ...string) error {
	tags := []string{
		UserBooksTag(userID),
		UserListLinksTag(userID),
		UserChallengeTag(userID),
		UserStatsTag(userID),
	}
	if bookID != "" {
		tags = append(tags, BookTag(bookID))
	}
	for _, slug := range listSlugs {
		tags = append(tags, ListTag(slug))
	}
	return d.invalidate("link changed", tags)
}

// RatingChanged invalidates after a rating is saved or deleted.
func (d *Dispatcher) RatingChanged(userID, bookID string) error {
	return d.invalidate("rating changed", []string{
		BookTag(bookID),
		UserBooksTag(userID),
		UserStatsTag(userID),
	})
}

// ShelfChanged invalidates after any shelf mutation.
func (d *Dispatcher) ShelfChanged(userID string) error {
	return d.invalidate("shelf changed", []string{
		UserLibraryTag(userID),
	})
}

// BookChanged invalidates after a book is created, updated, or deleted.
func (d *Dispatcher) BookChanged(userID, bookID string) error {
	return d.invalidate("book changed", []string{
		BookTag(bookID),
		UserBooksTag(userID),
		UserStatsTag(userID),
		UserLibraryTag(userID),
	})
}

// CatalogChanged invalidates after a catalog import touches reading lists.
// Per-user challenge views are not enumerable from here; their TTL is the
// backstop for challenge catalog edits.
func (d *Dispatcher) CatalogChanged(listSlugs ...string) error {
	tags := []string{CatalogTag()}
	for _, slug := range listSlugs {
		tags = append(tags, ListTag(slug))
	}
	return d.invalidate("catalog changed", tags)
}

// invalidate performs the invalidation and logs failures with context.
func (d *Dispatcher) invalidate(reason string, tags []string) error {
	if err := d.cache.Invalidate(tags...); err != nil {
		if d.logger != nil {
			d.logger.Error("cache invalidation failed",
				"reason", reason,
				"tags", tags,
				"error", err,
			)
		}
		return err
	}
	return nil
}
