package domain

import (
	"time"

	"github.com/kitaplik/kitaplik-server/internal/errors"
)

// Rating is a user's 1-5 star rating of one of their books, with an optional
// short review.
type Rating struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Value     int       `json:"value"`
	Review    string    `json:"review,omitempty"`
}

// Validate checks the rating value range before any persistence write.
func (r *Rating) Validate() error {
	if r.Value < 1 || r.Value > 5 {
		return errors.Validationf("rating must be between 1 and 5, got %d", r.Value)
	}
	return nil
}
