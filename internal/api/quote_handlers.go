package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kitaplik/kitaplik-server/internal/domain"
)

func (s *Server) registerQuoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listQuotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/quotes",
		Summary:     "List quotes",
		Description: "Returns all of the user's saved quotes, newest first",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListQuotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookQuotes",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/quotes",
		Summary:     "List a book's quotes",
		Description: "Returns the user's quotes for one book, oldest first",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBookQuotes)

	huma.Register(s.api, huma.Operation{
		OperationID: "addQuote",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/quotes",
		Summary:     "Save a quote",
		Description: "Saves a passage from a book; HTML input is converted to markdown",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddQuote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteQuote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/quotes/{id}",
		Summary:     "Delete a quote",
		Description: "Removes a saved quote",
		Tags:        []string{"Quotes"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteQuote)
}

// === DTOs ===

// ListQuotesInput contains parameters for listing quotes.
type ListQuotesInput struct {
	Authorization string `header:"Authorization"`
}

// ListQuotesResponse contains the user's quotes.
type ListQuotesResponse struct {
	Quotes []*domain.Quote `json:"quotes" doc:"Saved quotes"`
}

// ListQuotesOutput wraps the list for Huma.
type ListQuotesOutput struct {
	Body ListQuotesResponse
}

// AddQuoteRequest is the request body for saving a quote.
type AddQuoteRequest struct {
	Text string `json:"text" validate:"required,min=1" doc:"Quote text; plain text or HTML"`
	Page *int   `json:"page,omitempty" validate:"omitempty,gt=0" doc:"Page the quote is from"`
}

// AddQuoteInput wraps the quote request for Huma.
type AddQuoteInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          AddQuoteRequest
}

// QuoteOutput wraps a single quote for Huma.
type QuoteOutput struct {
	Body *domain.Quote
}

// DeleteQuoteInput contains parameters for deleting a quote.
type DeleteQuoteInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Quote ID"`
}

// === Handlers ===

func (s *Server) handleListQuotes(ctx context.Context, _ *ListQuotesInput) (*ListQuotesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	quotes, err := s.services.Quote.ListQuotes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListQuotesOutput{Body: ListQuotesResponse{Quotes: quotes}}, nil
}

func (s *Server) handleListBookQuotes(ctx context.Context, input *GetBookInput) (*ListQuotesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	quotes, err := s.services.Quote.ListBookQuotes(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &ListQuotesOutput{Body: ListQuotesResponse{Quotes: quotes}}, nil
}

func (s *Server) handleAddQuote(ctx context.Context, input *AddQuoteInput) (*QuoteOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	quote, err := s.services.Quote.AddQuote(ctx, userID, input.ID, input.Body.Text, input.Body.Page)
	if err != nil {
		return nil, err
	}
	return &QuoteOutput{Body: quote}, nil
}

func (s *Server) handleDeleteQuote(ctx context.Context, input *DeleteQuoteInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Quote.DeleteQuote(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
