package cache

// Tag composition. These functions are the single source of truth for tag
// strings: mutating operations go through the Dispatcher, which composes
// complete tag sets from them. Hand-rolled tag strings at call sites are how
// under-invalidation bugs creep in.

// UserBooksTag scopes cached views of a user's book list.
func UserBooksTag(userID string) string { return "user-books-" + userID }

// BookTag scopes cached views of a single book.
func BookTag(bookID string) string { return "book-" + bookID }

// UserListLinksTag scopes a user's reading-list progress views.
func UserListLinksTag(userID string) string { return "user-list-links-" + userID }

// UserChallengeTag scopes a user's challenge progress views.
func UserChallengeTag(userID string) string { return "user-challenge-" + userID }

// UserStatsTag scopes a user's aggregate statistics.
func UserStatsTag(userID string) string { return "user-stats-" + userID }

// UserLibraryTag scopes a user's shelf/library layout views.
func UserLibraryTag(userID string) string { return "user-library-" + userID }

// ListTag scopes views of one curated reading list.
func ListTag(slug string) string { return "list-" + slug }

// CatalogTag scopes views of the catalog as a whole, such as the list of
// all curated reading lists.
func CatalogTag() string { return "catalog" }
