package domain

import (
	"strings"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/errors"
)

// ReadingStatus describes where a book sits in the user's reading life.
type ReadingStatus string

// Reading statuses.
const (
	StatusToRead       ReadingStatus = "to-read"
	StatusReading      ReadingStatus = "reading"
	StatusCompleted    ReadingStatus = "completed"
	StatusDidNotFinish ReadingStatus = "did-not-finish"
)

// Valid reports whether the status is one of the known values.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusCompleted, StatusDidNotFinish:
		return true
	}
	return false
}

// Book is a user-owned record of a physical or digital book.
// It belongs to exactly one user; CurrentPage never exceeds PageCount when
// PageCount is set.
type Book struct {
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	ID          string        `json:"id"`
	OwnerID     string        `json:"owner_id"`
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	PageCount   *int          `json:"page_count,omitempty"`
	CurrentPage int           `json:"current_page"`
	Status      ReadingStatus `json:"status"`
	ShelfID     *string       `json:"shelf_id,omitempty"` // Optional shelf assignment
	GoalStart   *time.Time    `json:"goal_start,omitempty"`
	GoalDays    *int          `json:"goal_days,omitempty"`
}

// HasTitle reports whether the book carries a non-blank title.
// Books without one never participate in reading-list matching.
func (b *Book) HasTitle() bool {
	return strings.TrimSpace(b.Title) != ""
}

// SetProgress updates the current page, enforcing the page-count invariant.
// Reaching the final page marks the book completed.
func (b *Book) SetProgress(page int) error {
	if page < 0 {
		return errors.Validation("page cannot be negative")
	}
	if b.PageCount != nil && page > *b.PageCount {
		return errors.Validationf("page %d exceeds page count %d", page, *b.PageCount)
	}

	b.CurrentPage = page
	if b.PageCount != nil && page == *b.PageCount {
		b.Status = StatusCompleted
	} else if page > 0 && b.Status == StatusToRead {
		b.Status = StatusReading
	}
	b.UpdatedAt = time.Now()
	return nil
}

// Goal derives the reading-pace status for this book's goal, if one is
// configured. Returns nil when no goal is set.
func (b *Book) Goal(now time.Time) *GoalInfo {
	return ComputeGoal(b.PageCount, b.CurrentPage, b.GoalStart, b.GoalDays, now)
}
