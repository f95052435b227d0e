package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kitaplik/kitaplik-server/internal/domain"
)

func (s *Server) registerAPIKeyRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createAPIKey",
		Method:      http.MethodPost,
		Path:        "/api/v1/keys",
		Summary:     "Create API key",
		Description: "Creates an extension API key; the plaintext key is returned once and never stored",
		Tags:        []string{"API Keys"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateAPIKey)

	huma.Register(s.api, huma.Operation{
		OperationID: "listAPIKeys",
		Method:      http.MethodGet,
		Path:        "/api/v1/keys",
		Summary:     "List API keys",
		Description: "Returns the user's API keys without secrets",
		Tags:        []string{"API Keys"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListAPIKeys)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAPIKey",
		Method:      http.MethodDelete,
		Path:        "/api/v1/keys/{id}",
		Summary:     "Revoke API key",
		Description: "Deletes an API key; extension requests using it stop authenticating immediately",
		Tags:        []string{"API Keys"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAPIKey)
}

// === DTOs ===

// CreateAPIKeyRequest is the request body for creating an API key.
type CreateAPIKeyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100" doc:"Label for the key, e.g. the device it lives on"`
}

// CreateAPIKeyInput wraps the create request for Huma.
type CreateAPIKeyInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateAPIKeyRequest
}

// CreateAPIKeyResponse returns the new key. The plaintext key appears only
// in this response.
type CreateAPIKeyResponse struct {
	Key       *domain.APIKey `json:"key" doc:"Key metadata"`
	Plaintext string         `json:"plaintext" doc:"The API key itself; shown only once"`
}

// CreateAPIKeyOutput wraps the create response for Huma.
type CreateAPIKeyOutput struct {
	Body CreateAPIKeyResponse
}

// ListAPIKeysInput contains parameters for listing keys.
type ListAPIKeysInput struct {
	Authorization string `header:"Authorization"`
}

// ListAPIKeysResponse contains the user's keys.
type ListAPIKeysResponse struct {
	Keys []*domain.APIKey `json:"keys" doc:"API keys, newest first"`
}

// ListAPIKeysOutput wraps the list for Huma.
type ListAPIKeysOutput struct {
	Body ListAPIKeysResponse
}

// DeleteAPIKeyInput contains parameters for revoking a key.
type DeleteAPIKeyInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"API key ID"`
}

// === Handlers ===

func (s *Server) handleCreateAPIKey(ctx context.Context, input *CreateAPIKeyInput) (*CreateAPIKeyOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	key, plaintext, err := s.services.APIKey.CreateKey(ctx, userID, input.Body.Name)
	if err != nil {
		return nil, err
	}
	return &CreateAPIKeyOutput{Body: CreateAPIKeyResponse{Key: key, Plaintext: plaintext}}, nil
}

func (s *Server) handleListAPIKeys(ctx context.Context, _ *ListAPIKeysInput) (*ListAPIKeysOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	keys, err := s.services.APIKey.ListKeys(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListAPIKeysOutput{Body: ListAPIKeysResponse{Keys: keys}}, nil
}

func (s *Server) handleDeleteAPIKey(ctx context.Context, input *DeleteAPIKeyInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.APIKey.DeleteKey(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}
