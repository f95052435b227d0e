package domain

import "time"

// ReadingList is a named, ordered curriculum of catalog entries grouped into
// levels. Lists are curated server-side and shared by all users.
type ReadingList struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Levels      []*Level  `json:"levels,omitempty"`
}

// Level is one difficulty/theme tier inside a reading list.
type Level struct {
	ID       string          `json:"id"`
	ListID   string          `json:"list_id"`
	Name     string          `json:"name"`
	Position int             `json:"position"`
	Entries  []*CatalogEntry `json:"entries,omitempty"`
}

// CatalogEntry is a curated, catalog-level book description inside a level.
// Author is free text, not a reference: curated lists predate any user's
// library.
type CatalogEntry struct {
	ID        string `json:"id"`
	LevelID   string `json:"level_id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Rationale string `json:"rationale"`
	Position  int    `json:"position"`
}

// CatalogLink records that a user linked a catalog entry to one of their own
// books. A nil BookID means the entry is acknowledged without a personal
// copy. At most one link exists per (user, entry) and per (user, book).
type CatalogLink struct {
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
	EntryID   string    `json:"entry_id"`
	BookID    *string   `json:"book_id,omitempty"`
}
