package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns all books in the current user's library",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books",
		Summary:     "Create book",
		Description: "Adds a book to the current user's library",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Updates book metadata; omitted fields are left unchanged",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book, its links, ratings, and quotes",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "setBookProgress",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}/progress",
		Summary:     "Set reading progress",
		Description: "Updates the current page; reaching the final page completes the book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "setBookGoal",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/goal",
		Summary:     "Set reading goal",
		Description: "Configures or clears the book's reading goal",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetGoal)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookGoal",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/goal",
		Summary:     "Get reading goal status",
		Description: "Returns the derived reading-pace status; null when no goal is set",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGoal)
}

// === DTOs ===

// ListBooksInput contains parameters for listing books.
type ListBooksInput struct {
	Authorization string `header:"Authorization"`
}

// ListBooksResponse contains the user's library.
type ListBooksResponse struct {
	Books []*domain.Book `json:"books" doc:"Books in the library"`
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// CreateBookRequest is the request body for creating a book.
type CreateBookRequest struct {
	Title     string  `json:"title" validate:"required,min=1,max=500" doc:"Book title"`
	Author    string  `json:"author,omitempty" validate:"max=500" doc:"Author name"`
	PageCount *int    `json:"page_count,omitempty" validate:"omitempty,gt=0" doc:"Total pages"`
	Status    string  `json:"status,omitempty" doc:"Reading status (default: to-read)"`
	ShelfID   *string `json:"shelf_id,omitempty" doc:"Shelf to place the book on"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateBookRequest
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// UpdateBookRequest is the request body for updating a book.
// Omitted fields are left unchanged.
type UpdateBookRequest struct {
	Title      *string `json:"title,omitempty" validate:"omitempty,min=1,max=500" doc:"New title"`
	Author     *string `json:"author,omitempty" validate:"omitempty,max=500" doc:"New author"`
	PageCount  *int    `json:"page_count,omitempty" validate:"omitempty,gt=0" doc:"New page count"`
	Status     *string `json:"status,omitempty" doc:"New reading status"`
	ShelfID    *string `json:"shelf_id,omitempty" doc:"Shelf to move the book to"`
	ClearShelf bool    `json:"clear_shelf,omitempty" doc:"Remove the book from its shelf"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          UpdateBookRequest
}

// SetProgressRequest is the request body for updating progress.
type SetProgressRequest struct {
	Page int `json:"page" validate:"gte=0" doc:"Current page (0 resets)"`
}

// SetProgressInput wraps the progress request for Huma.
type SetProgressInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          SetProgressRequest
}

// SetGoalRequest is the request body for configuring a goal.
// Both fields null clears the goal.
type SetGoalRequest struct {
	Start *time.Time `json:"start" doc:"Goal start date"`
	Days  *int       `json:"days" validate:"omitempty,gt=0" doc:"Days to finish the book in"`
}

// SetGoalInput wraps the goal request for Huma.
type SetGoalInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          SetGoalRequest
}

// GoalOutput wraps the goal status response for Huma. Body is null when the
// book has no goal configured.
type GoalOutput struct {
	Body *domain.GoalInfo
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *ListBooksInput) (*ListBooksOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Book.ListBooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListBooksOutput{Body: ListBooksResponse{Books: books}}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Book.CreateBook(ctx, userID, service.CreateBookInput{
		Title:     input.Body.Title,
		Author:    input.Body.Author,
		PageCount: input.Body.PageCount,
		Status:    domain.ReadingStatus(input.Body.Status),
		ShelfID:   input.Body.ShelfID,
	})
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.GetBook(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	update := service.UpdateBookInput{
		Title:      input.Body.Title,
		Author:     input.Body.Author,
		PageCount:  input.Body.PageCount,
		ShelfID:    input.Body.ShelfID,
		ClearShelf: input.Body.ClearShelf,
	}
	if input.Body.Status != nil {
		status := domain.ReadingStatus(*input.Body.Status)
		update.Status = &status
	}

	book, err := s.services.Book.UpdateBook(ctx, userID, input.ID, update)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *GetBookInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Book.DeleteBook(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleSetProgress(ctx context.Context, input *SetProgressInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Book.SetProgress(ctx, userID, input.ID, input.Body.Page)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleSetGoal(ctx context.Context, input *SetGoalInput) (*BookOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Book.SetGoal(ctx, userID, input.ID, input.Body.Start, input.Body.Days)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleGetGoal(ctx context.Context, input *GetBookInput) (*GoalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	goal, err := s.services.Book.GetGoal(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &GoalOutput{Body: goal}, nil
}
