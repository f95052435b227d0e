package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kitaplik/kitaplik-server/internal/domain"
	"github.com/kitaplik/kitaplik-server/internal/service"
)

func (s *Server) registerReadingListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listReadingLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/reading-lists",
		Summary:     "List reading lists",
		Description: "Returns all curated reading lists",
		Tags:        []string{"Reading Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListReadingLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReadingListProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/reading-lists/{slug}",
		Summary:     "Get reading list with progress",
		Description: "Returns a list with the current user's link state per entry",
		Tags:        []string{"Reading Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetReadingListProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolveReadingList",
		Method:      http.MethodPost,
		Path:        "/api/v1/reading-lists/{slug}/resolve",
		Summary:     "Resolve list entries against the library",
		Description: "Batch-matches unlinked entries to unlinked books; confident matches are linked, the rest returned as suggestions",
		Tags:        []string{"Reading Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResolveReadingList)

	huma.Register(s.api, huma.Operation{
		OperationID: "linkEntry",
		Method:      http.MethodPost,
		Path:        "/api/v1/reading-lists/entries/{entryId}/link",
		Summary:     "Link an entry",
		Description: "Links a catalog entry to one of the user's books, or acknowledges it without a copy",
		Tags:        []string{"Reading Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLinkEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlinkEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/reading-lists/entries/{entryId}/link",
		Summary:     "Unlink an entry",
		Description: "Removes the user's link for a catalog entry",
		Tags:        []string{"Reading Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnlinkEntry)
}

// === DTOs ===

// ListReadingListsInput contains parameters for listing reading lists.
type ListReadingListsInput struct {
	Authorization string `header:"Authorization"`
}

// ListReadingListsResponse contains all curated lists.
type ListReadingListsResponse struct {
	Lists []*domain.ReadingList `json:"lists" doc:"Curated reading lists"`
}

// ListReadingListsOutput wraps the response for Huma.
type ListReadingListsOutput struct {
	Body ListReadingListsResponse
}

// GetReadingListInput contains parameters for getting a list.
type GetReadingListInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" doc:"List slug"`
}

// ListProgressOutput wraps a list with per-user progress for Huma.
type ListProgressOutput struct {
	Body *service.ListProgress
}

// ResolveInput contains parameters for a resolution run.
type ResolveInput struct {
	Authorization string `header:"Authorization"`
	Slug          string `path:"slug" doc:"List slug"`
	DryRun        bool   `query:"dry_run" doc:"Report matches without persisting links"`
}

// ResolveOutput wraps the resolution report for Huma.
type ResolveOutput struct {
	Body *service.ResolveReport
}

// LinkEntryRequest is the request body for linking an entry.
type LinkEntryRequest struct {
	BookID *string `json:"book_id" doc:"Book to link; null acknowledges the entry without a copy"`
}

// LinkEntryInput wraps the link request for Huma.
type LinkEntryInput struct {
	Authorization string `header:"Authorization"`
	EntryID       string `path:"entryId" doc:"Catalog entry ID"`
	Body          LinkEntryRequest
}

// LinkOutput wraps a created link for Huma.
type LinkOutput struct {
	Body *domain.CatalogLink
}

// UnlinkEntryInput contains parameters for unlinking an entry.
type UnlinkEntryInput struct {
	Authorization string `header:"Authorization"`
	EntryID       string `path:"entryId" doc:"Catalog entry ID"`
}

// === Handlers ===

func (s *Server) handleListReadingLists(ctx context.Context, _ *ListReadingListsInput) (*ListReadingListsOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	lists, err := s.services.ReadingList.Lists(ctx)
	if err != nil {
		return nil, err
	}
	return &ListReadingListsOutput{Body: ListReadingListsResponse{Lists: lists}}, nil
}

func (s *Server) handleGetReadingListProgress(ctx context.Context, input *GetReadingListInput) (*ListProgressOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.services.ReadingList.GetProgress(ctx, userID, input.Slug)
	if err != nil {
		return nil, err
	}
	return &ListProgressOutput{Body: progress}, nil
}

func (s *Server) handleResolveReadingList(ctx context.Context, input *ResolveInput) (*ResolveOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.services.Resolver.Resolve(ctx, userID, input.Slug, service.ResolveOptions{
		DryRun: input.DryRun,
	})
	if err != nil {
		return nil, err
	}
	return &ResolveOutput{Body: report}, nil
}

func (s *Server) handleLinkEntry(ctx context.Context, input *LinkEntryInput) (*LinkOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	link, err := s.services.ReadingList.LinkBook(ctx, userID, input.EntryID, input.Body.BookID)
	if err != nil {
		return nil, err
	}
	return &LinkOutput{Body: link}, nil
}

func (s *Server) handleUnlinkEntry(ctx context.Context, input *UnlinkEntryInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.ReadingList.UnlinkBook(ctx, userID, input.EntryID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
