// Package search provides full-text search over a user's library using
// Bleve. Documents are always queried with an owner filter, so one shared
// index serves all users without leaking results across libraries.
package search

import (
	"github.com/kitaplik/kitaplik-server/internal/domain"
)

// BookDocument is the indexed representation of an owned book.
type BookDocument struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"` // Unix millis
	UpdatedAt int64  `json:"updated_at"` // Unix millis
}

// DocumentFromBook builds the indexable document for a book.
func DocumentFromBook(b *domain.Book) *BookDocument {
	return &BookDocument{
		ID:        b.ID,
		OwnerID:   b.OwnerID,
		Title:     b.Title,
		Author:    b.Author,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but the index
// mapping uses lowercase names, so we convert explicitly.
func (d *BookDocument) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         d.ID,
		"owner_id":   d.OwnerID,
		"title":      d.Title,
		"author":     d.Author,
		"status":     d.Status,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}
}
