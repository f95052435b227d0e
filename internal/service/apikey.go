package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kitaplik/kitaplik-server/internal/auth"
	"github.com/kitaplik/kitaplik-server/internal/domain"
	domainerrors "github.com/kitaplik/kitaplik-server/internal/errors"
	"github.com/kitaplik/kitaplik-server/internal/id"
	"github.com/kitaplik/kitaplik-server/internal/store"
)

// APIKeyService manages extension API keys and authenticates requests
// presenting them.
type APIKeyService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAPIKeyService creates a new API key service.
func NewAPIKeyService(st store.Store, logger *slog.Logger) *APIKeyService {
	return &APIKeyService{store: st, logger: logger}
}

// CreateKey mints a new key for the user. The plaintext is returned exactly
// once; only the bcrypt hash is stored.
func (s *APIKeyService) CreateKey(ctx context.Context, userID, name string) (*domain.APIKey, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	if name == "" {
		return nil, "", domainerrors.Validation("key name cannot be empty")
	}

	keyID, err := id.Generate("key")
	if err != nil {
		return nil, "", fmt.Errorf("generate key ID: %w", err)
	}

	plaintext, hash, err := auth.GenerateAPIKey(keyID)
	if err != nil {
		return nil, "", err
	}

	key := &domain.APIKey{
		CreatedAt: time.Now(),
		ID:        keyID,
		UserID:    userID,
		Name:      name,
		KeyHash:   hash,
	}
	if err := s.store.CreateAPIKey(ctx, key); err != nil {
		return nil, "", fmt.Errorf("create api key: %w", err)
	}

	s.logger.Info("api key created", "key_id", keyID, "user_id", userID, "name", name)
	return key, plaintext, nil
}

// ListKeys returns the user's keys. Hashes never leave the service layer.
func (s *APIKeyService) ListKeys(ctx context.Context, userID string) ([]*domain.APIKey, error) {
	return s.store.ListAPIKeysByUser(ctx, userID)
}

// DeleteKey revokes a key. Requires ownership.
func (s *APIKeyService) DeleteKey(ctx context.Context, userID, keyID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := s.store.GetAPIKey(ctx, keyID)
	if err != nil {
		return err
	}
	if key.UserID != userID {
		return domainerrors.NotFound("key not found")
	}

	if err := s.store.DeleteAPIKey(ctx, keyID); err != nil {
		return err
	}

	s.logger.Info("api key deleted", "key_id", keyID, "user_id", userID)
	return nil
}

// Authenticate resolves a presented key to its record. The embedded key ID
// selects a single stored hash; a missing key and a wrong secret are
// indistinguishable to the caller.
func (s *APIKeyService) Authenticate(ctx context.Context, presented string) (*domain.APIKey, error) {
	keyID, ok := auth.ParseAPIKeyID(presented)
	if !ok {
		return nil, domainerrors.Unauthorized("invalid api key")
	}

	key, err := s.store.GetAPIKey(ctx, keyID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.Unauthorized("invalid api key")
		}
		return nil, err
	}

	if !auth.VerifyAPIKey(key.KeyHash, presented) {
		return nil, domainerrors.Unauthorized("invalid api key")
	}

	if err := s.store.TouchAPIKey(ctx, keyID, time.Now()); err != nil {
		s.logger.Warn("failed to record key use", "key_id", keyID, "error", err)
	}
	return key, nil
}
