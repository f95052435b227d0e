package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/service"
)

func (s *Server) registerChallengeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getChallenge",
		Method:      http.MethodGet,
		Path:        "/api/v1/challenges/{year}",
		Summary:     "Get a year's challenge",
		Description: "Returns the challenge with the current user's completion state",
		Tags:        []string{"Challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetChallenge)

	huma.Register(s.api, huma.Operation{
		OperationID: "linkChallengeBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/challenges/books/{challengeBookId}/link",
		Summary:     "Link a challenge book",
		Description: "Links a challenge book to one of the user's books, or acknowledges it without a copy",
		Tags:        []string{"Challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLinkChallengeBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlinkChallengeBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/challenges/books/{challengeBookId}/link",
		Summary:     "Unlink a challenge book",
		Description: "Removes the user's link for a challenge book",
		Tags:        []string{"Challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnlinkChallengeBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "setChallengeBookCompleted",
		Method:      http.MethodPut,
		Path:        "/api/v1/challenges/books/{challengeBookId}/completed",
		Summary:     "Mark challenge book completion",
		Description: "Marks or clears completion of a linked challenge book",
		Tags:        []string{"Challenges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetChallengeBookCompleted)
}

// === DTOs ===

// GetChallengeInput contains parameters for getting a challenge.
type GetChallengeInput struct {
	Authorization string `header:"Authorization"`
	Year          int    `path:"year" doc:"Challenge year"`
}

// ChallengeProgressOutput wraps the challenge progress for Huma.
type ChallengeProgressOutput struct {
	Body *service.ChallengeProgress
}

// LinkChallengeBookRequest is the request body for linking a challenge book.
type LinkChallengeBookRequest struct {
	BookID *string `json:"book_id" doc:"Book to link; null acknowledges without a copy"`
}

// LinkChallengeBookInput wraps the link request for Huma.
type LinkChallengeBookInput struct {
	Authorization   string `header:"Authorization"`
	ChallengeBookID string `path:"challengeBookId" doc:"Challenge book ID"`
	Body            LinkChallengeBookRequest
}

// ChallengeLinkOutput wraps a challenge link for Huma.
type ChallengeLinkOutput struct {
	Body *domain.ChallengeLink
}

// UnlinkChallengeBookInput contains parameters for unlinking.
type UnlinkChallengeBookInput struct {
	Authorization   string `header:"Authorization"`
	ChallengeBookID string `path:"challengeBookId" doc:"Challenge book ID"`
}

// SetCompletedRequest is the request body for completion marking.
type SetCompletedRequest struct {
	Completed bool `json:"completed" doc:"Whether the book is completed"`
}

// SetCompletedInput wraps the completion request for Huma.
type SetCompletedInput struct {
	Authorization   string `header:"Authorization"`
	ChallengeBookID string `path:"challengeBookId" doc:"Challenge book ID"`
	Body            SetCompletedRequest
}

// === Handlers ===

func (s *Server) handleGetChallenge(ctx context.Context, input *GetChallengeInput) (*ChallengeProgressOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.services.Challenge.GetProgress(ctx, userID, input.Year)
	if err != nil {
		return nil, err
	}
	return &ChallengeProgressOutput{Body: progress}, nil
}

func (s *Server) handleLinkChallengeBook(ctx context.Context, input *LinkChallengeBookInput) (*ChallengeLinkOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	link, err := s.services.Challenge.LinkBook(ctx, userID, input.ChallengeBookID, input.Body.BookID)
	if err != nil {
		return nil, err
	}
	return &ChallengeLinkOutput{Body: link}, nil
}

func (s *Server) handleUnlinkChallengeBook(ctx context.Context, input *UnlinkChallengeBookInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Challenge.Unlink(ctx, userID, input.ChallengeBookID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleSetChallengeBookCompleted(ctx context.Context, input *SetCompletedInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	err = s.services.Challenge.SetCompleted(ctx, userID, input.ChallengeBookID, input.Body.Completed)
	if err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
