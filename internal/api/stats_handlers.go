package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/kitaplik/kitaplik-server/internal/service"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get library statistics",
		Description: "Returns aggregate statistics for the user's library",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetStats)
}

// GetStatsInput contains parameters for the stats aggregate.
type GetStatsInput struct {
	Authorization string `header:"Authorization"`
}

// StatsOutput wraps the aggregate statistics for Huma.
type StatsOutput struct {
	Body *service.UserStats
}

func (s *Server) handleGetStats(ctx context.Context, _ *GetStatsInput) (*StatsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.GetStats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &StatsOutput{Body: stats}, nil
}
