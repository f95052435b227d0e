package domain

import "time"

// User is a library owner. Identity and sessions live with the external
// identity provider; this record only anchors ownership and display data.
type User struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
}
