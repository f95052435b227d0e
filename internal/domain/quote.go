package domain

import "time"

// Quote is a passage a user saved from one of their books.
// Text is stored as markdown; HTML submitted by the browser extension is
// converted before it reaches the store.
type Quote struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	BookID    string    `json:"book_id"`
	Text      string    `json:"text"`
	Page      *int      `json:"page,omitempty"`
}
