package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/match"
	"github.com/kitaplik/kitaplik-server/internal/service"
)

// Extension routes serve the browser extension. They authenticate with an
// API key instead of a bearer token and are rate-limited per key.

func (s *Server) registerExtensionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "extLookupBook",
		Method:      http.MethodPost,
		Path:        "/ext/v1/lookup",
		Summary:     "Look up a book",
		Description: "Finds the closest book in the key owner's library for a title and optional author",
		Tags:        []string{"Extension"},
		Security:    []map[string][]string{{"apiKey": {}}},
	}, s.handleExtLookup)

	huma.Register(s.api, huma.Operation{
		OperationID: "extImportBook",
		Method:      http.MethodPost,
		Path:        "/ext/v1/books",
		Summary:     "Import a book",
		Description: "Adds a book to the key owner's library",
		Tags:        []string{"Extension"},
		Security:    []map[string][]string{{"apiKey": {}}},
	}, s.handleExtImportBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "extSubmitQuote",
		Method:      http.MethodPost,
		Path:        "/ext/v1/quotes",
		Summary:     "Submit a quote",
		Description: "Saves a quote to one of the key owner's books; HTML input is converted to markdown",
		Tags:        []string{"Extension"},
		Security:    []map[string][]string{{"apiKey": {}}},
	}, s.handleExtSubmitQuote)
}

// authenticateExtension verifies the presented API key and applies the
// per-key rate limit.
func (s *Server) authenticateExtension(ctx context.Context, presented string) (*domain.APIKey, error) {
	if presented == "" {
		return nil, huma.Error401Unauthorized("missing api key")
	}
	key, err := s.services.APIKey.Authenticate(ctx, presented)
	if err != nil {
		return nil, err
	}
	if !s.extLimiter.Allow(key.ID) {
		return nil, huma.Error429TooManyRequests("rate limit exceeded")
	}
	return key, nil
}

// === DTOs ===

// ExtLookupRequest is the request body for a library lookup.
type ExtLookupRequest struct {
	Title  string `json:"title" validate:"required,min=1" doc:"Title as seen on the page"`
	Author string `json:"author,omitempty" doc:"Author as seen on the page"`
}

// ExtLookupInput wraps the lookup request for Huma.
type ExtLookupInput struct {
	APIKey string `header:"X-API-Key"`
	Body   ExtLookupRequest
}

// ExtLookupResponse is the lookup verdict. Book is null when nothing in the
// library scores at or above the low-confidence threshold.
type ExtLookupResponse struct {
	Book       *domain.Book      `json:"book" doc:"Best-matching book, if any"`
	Confidence *match.Confidence `json:"confidence" doc:"How confident the match is"`
}

// ExtLookupOutput wraps the lookup response for Huma.
type ExtLookupOutput struct {
	Body ExtLookupResponse
}

// ExtImportBookRequest is the request body for importing a book.
type ExtImportBookRequest struct {
	Title     string `json:"title" validate:"required,min=1,max=500" doc:"Book title"`
	Author    string `json:"author,omitempty" validate:"max=300" doc:"Book author"`
	PageCount *int   `json:"page_count,omitempty" validate:"omitempty,gt=0" doc:"Total pages"`
}

// ExtImportBookInput wraps the import request for Huma.
type ExtImportBookInput struct {
	APIKey string `header:"X-API-Key"`
	Body   ExtImportBookRequest
}

// ExtSubmitQuoteRequest is the request body for submitting a quote.
type ExtSubmitQuoteRequest struct {
	BookID string `json:"book_id" validate:"required" doc:"Book to attach the quote to"`
	Text   string `json:"text" validate:"required,min=1" doc:"Quote text; plain text or HTML"`
	Page   *int   `json:"page,omitempty" validate:"omitempty,gt=0" doc:"Page the quote is from"`
}

// ExtSubmitQuoteInput wraps the quote request for Huma.
type ExtSubmitQuoteInput struct {
	APIKey string `header:"X-API-Key"`
	Body   ExtSubmitQuoteRequest
}

// === Handlers ===

func (s *Server) handleExtLookup(ctx context.Context, input *ExtLookupInput) (*ExtLookupOutput, error) {
	key, err := s.authenticateExtension(ctx, input.APIKey)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	books, err := s.services.Book.ListBooks(ctx, key.UserID)
	if err != nil {
		return nil, err
	}

	var best *domain.Book
	var bestConf match.Confidence
	for _, book := range books {
		titleScore := match.MatchTitle(book.Title, input.Body.Title)
		var authorScore *float64
		if input.Body.Author != "" && book.Author != "" {
			score := match.MatchAuthor(book.Author, input.Body.Author)
			authorScore = &score
		}
		conf := match.Classify(titleScore, authorScore)
		if conf.Tier == match.TierNone {
			continue
		}
		if best == nil || conf.Score > bestConf.Score {
			best = book
			bestConf = conf
		}
	}

	resp := ExtLookupResponse{}
	if best != nil {
		resp.Book = best
		resp.Confidence = &bestConf
	}
	return &ExtLookupOutput{Body: resp}, nil
}

func (s *Server) handleExtImportBook(ctx context.Context, input *ExtImportBookInput) (*BookOutput, error) {
	key, err := s.authenticateExtension(ctx, input.APIKey)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Book.CreateBook(ctx, key.UserID, service.CreateBookInput{
		Title:     input.Body.Title,
		Author:    input.Body.Author,
		PageCount: input.Body.PageCount,
	})
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleExtSubmitQuote(ctx context.Context, input *ExtSubmitQuoteInput) (*QuoteOutput, error) {
	key, err := s.authenticateExtension(ctx, input.APIKey)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	quote, err := s.services.Quote.AddQuote(ctx, key.UserID, input.Body.BookID, input.Body.Text, input.Body.Page)
	if err != nil {
		return nil, err
	}
	return &QuoteOutput{Body: quote}, nil
}
