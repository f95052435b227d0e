package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	domainerrors "github.com/kitaplik/kitaplik-server/internal/errors"
	"github.com/kitaplik/kitaplik-server/internal/id"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// htmlTagPattern matches common HTML tags to detect if a quote was captured
// as markup. The browser extension submits selection HTML verbatim.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// containsHTML checks if a string appears to contain HTML markup.
func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// htmlToMarkdown converts HTML content to Markdown. Plain text is returned
// unchanged, and so is input the converter cannot handle.
func htmlToMarkdown(s string) string {
	if s == "" || !containsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}

	return strings.TrimSpace(markdown)
}

// QuoteService manages saved passages. Quotes are stored as markdown.
type QuoteService struct {
	store  store.Store
	logger *slog.Logger
}

// NewQuoteService creates a new quote service.
func NewQuoteService(st store.Store, logger *slog.Logger) *QuoteService {
	return &QuoteService{store: st, logger: logger}
}

// AddQuote saves a passage from one of the user's books. Text may arrive as
// HTML from the browser extension; it is normalized to markdown before it is
// stored.
func (s *QuoteService) AddQuote(ctx context.Context, userID, bookID, text string, page *int) (*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != userID {
		return nil, domainerrors.NotFound("book not found")
	}

	text = htmlToMarkdown(strings.TrimSpace(text))
	if text == "" {
		return nil, domainerrors.Validation("quote text cannot be empty")
	}
	if page != nil && *page <= 0 {
		return nil, domainerrors.Validation("quote page must be positive")
	}

	quoteID, err := id.Generate("quote")
	if err != nil {
		return nil, fmt.Errorf("generate quote ID: %w", err)
	}

	quote := &domain.Quote{
		CreatedAt: time.Now(),
		ID:        quoteID,
		OwnerID:   userID,
		BookID:    bookID,
		Text:      text,
		Page:      page,
	}

	if err := s.store.CreateQuote(ctx, quote); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}

	s.logger.Info("quote saved",
		"quote_id", quoteID,
		"user_id", userID,
		"book_id", bookID,
	)
	return quote, nil
}

// GetQuote retrieves a quote, enforcing ownership.
func (s *QuoteService) GetQuote(ctx context.Context, userID, quoteID string) (*domain.Quote, error) {
	quote, err := s.store.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.OwnerID != userID {
		return nil, domainerrors.NotFound("quote not found")
	}
	return quote, nil
}

// ListBookQuotes returns the user's quotes for one book, oldest first.
func (s *QuoteService) ListBookQuotes(ctx context.Context, userID, bookID string) ([]*domain.Quote, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.OwnerID != userID {
		return nil, domainerrors.NotFound("book not found")
	}
	return s.store.ListQuotesByBook(ctx, bookID)
}

// ListQuotes returns all of the user's quotes, newest first.
func (s *QuoteService) ListQuotes(ctx context.Context, userID string) ([]*domain.Quote, error) {
	return s.store.ListQuotesByOwner(ctx, userID)
}

// DeleteQuote removes a quote. Requires ownership.
func (s *QuoteService) DeleteQuote(ctx context.Context, userID, quoteID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := s.GetQuote(ctx, userID, quoteID); err != nil {
		return err
	}

	if err := s.store.DeleteQuote(ctx, quoteID); err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}

	s.logger.Info("quote deleted", "quote_id", quoteID, "user_id", userID)
	return nil
}
