package domain

import "time"

// Challenge is a yearly reading plan assigning books to months.
type Challenge struct {
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	ID        string            `json:"id"`
	Year      int               `json:"year"`
	Title     string            `json:"title"`
	Months    []*ChallengeMonth `json:"months,omitempty"`
}

// ChallengeMonth is one month's assignment inside a challenge.
type ChallengeMonth struct {
	ID          string           `json:"id"`
	ChallengeID string           `json:"challenge_id"`
	Month       int              `json:"month"` // 1-12
	Theme       string           `json:"theme"`
	Books       []*ChallengeBook `json:"books,omitempty"`
}

// ChallengeBook is a curated book assigned to a challenge month.
type ChallengeBook struct {
	ID       string `json:"id"`
	MonthID  string `json:"month_id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Position int    `json:"position"`
}

// ChallengeLink records a user's progress against one challenge book,
// following the same linkage pattern as reading lists.
type ChallengeLink struct {
	CreatedAt       time.Time  `json:"created_at"`
	UserID          string     `json:"user_id"`
	ChallengeBookID string     `json:"challenge_book_id"`
	BookID          *string    `json:"book_id,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}
