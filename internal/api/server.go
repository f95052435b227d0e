// Package api provides the HTTP API server and handlers for the Kitaplık application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kitaplik/kitaplik-server/internal/auth"
	"github.com/kitaplik/kitaplik-server/internal/ratelimit"
	"github.com/kitaplik/kitaplik-server/internal/search"
	"github.com/kitaplik/kitaplik-server/internal/store"
	"github.com/kitaplik/kitaplik-server/internal/validation"
)

// Options configures the HTTP server.
type Options struct {
	Store       store.Store
	Services    *Services
	Index       *search.Index
	Verifier    *auth.Verifier
	CORSOrigins []string
	// Extension API rate limiting, keyed by API key ID.
	ExtensionRPS   float64
	ExtensionBurst int
	Logger         *slog.Logger
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      store.Store
	services   *Services
	index      *search.Index
	validator  *validation.Validator
	extLimiter *ratelimit.KeyedRateLimiter
	router     *chi.Mux
	api        huma.API
	logger     *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(opts.Verifier, opts.Store))

	humaConfig := huma.DefaultConfig("Kitaplık API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
		"apiKey": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-Key",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:      opts.Store,
		services:   opts.Services,
		index:      opts.Index,
		validator:  validation.New(),
		extLimiter: ratelimit.New(opts.ExtensionRPS, opts.ExtensionBurst),
		router:     router,
		api:        api,
		logger:     opts.Logger,
	}

	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerShelfRoutes()
	s.registerReadingListRoutes()
	s.registerChallengeRoutes()
	s.registerRatingRoutes()
	s.registerQuoteRoutes()
	s.registerStatsRoutes()
	s.registerSearchRoutes()
	s.registerAPIKeyRoutes()
	s.registerExtensionRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
