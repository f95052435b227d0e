package domain

import "time"

// APIKey is a hashed credential for the browser-extension API. The plaintext
// key is shown once at creation and only the bcrypt hash is stored.
type APIKey struct {
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-"`
}
