package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kitaplik/kitaplik-server/internal/domain"
)

func (s *Server) registerRatingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "rateBook",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/rating",
		Summary:     "Rate a book",
		Description: "Creates or replaces the user's rating for a book",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRating",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/rating",
		Summary:     "Get a book's rating",
		Description: "Returns the user's rating for a book",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteRating",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}/rating",
		Summary:     "Delete a book's rating",
		Description: "Removes the user's rating for a book",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteRating)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRatings",
		Method:      http.MethodGet,
		Path:        "/api/v1/ratings",
		Summary:     "List ratings",
		Description: "Returns all of the user's ratings, most recently updated first",
		Tags:        []string{"Ratings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListRatings)
}

// === DTOs ===

// RateBookRequest is the request body for rating a book.
type RateBookRequest struct {
	Value  int    `json:"value" validate:"required,min=1,max=5" doc:"Star rating, 1-5"`
	Review string `json:"review,omitempty" validate:"max=2000" doc:"Optional short review"`
}

// RateBookInput wraps the rating request for Huma.
type RateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          RateBookRequest
}

// RatingOutput wraps a rating for Huma.
type RatingOutput struct {
	Body *domain.Rating
}

// ListRatingsInput contains parameters for listing ratings.
type ListRatingsInput struct {
	Authorization string `header:"Authorization"`
}

// ListRatingsResponse contains the user's ratings.
type ListRatingsResponse struct {
	Ratings []*domain.Rating `json:"ratings" doc:"Ratings, most recently updated first"`
}

// ListRatingsOutput wraps the list for Huma.
type ListRatingsOutput struct {
	Body ListRatingsResponse
}

// === Handlers ===

func (s *Server) handleRateBook(ctx context.Context, input *RateBookInput) (*RatingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	rating, err := s.services.Rating.RateBook(ctx, userID, input.ID, input.Body.Value, input.Body.Review)
	if err != nil {
		return nil, err
	}
	return &RatingOutput{Body: rating}, nil
}

func (s *Server) handleGetRating(ctx context.Context, input *GetBookInput) (*RatingOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	rating, err := s.services.Rating.GetRating(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &RatingOutput{Body: rating}, nil
}

func (s *Server) handleDeleteRating(ctx context.Context, input *GetBookInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Rating.DeleteRating(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleListRatings(ctx context.Context, _ *ListRatingsInput) (*ListRatingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	ratings, err := s.services.Rating.ListRatings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListRatingsOutput{Body: ListRatingsResponse{Ratings: ratings}}, nil
}
