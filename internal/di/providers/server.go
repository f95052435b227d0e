package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/kitaplik/kitaplik-server/internal/api"
	"github.com/kitaplik/kitaplik-server/internal/auth"
	"github.com/kitaplik/kitaplik-server/internal/config"
	"github.com/kitaplik/kitaplik-server/internal/logger"
	"github.com/kitaplik/kitaplik-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts it in the background.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	verifier := do.MustInvoke[*auth.Verifier](i)

	services := &api.Services{
		Book:        do.MustInvoke[*service.BookService](i),
		Shelf:       do.MustInvoke[*service.ShelfService](i),
		ReadingList: do.MustInvoke[*service.ReadingListService](i),
		Resolver:    do.MustInvoke[*service.ResolverService](i),
		Challenge:   do.MustInvoke[*service.ChallengeService](i),
		Rating:      do.MustInvoke[*service.RatingService](i),
		Quote:       do.MustInvoke[*service.QuoteService](i),
		Stats:       do.MustInvoke[*service.StatsService](i),
		APIKey:      do.MustInvoke[*service.APIKeyService](i),
	}

	handler := api.NewServer(api.Options{
		Store:          storeHandle.Store,
		Services:       services,
		Index:          indexHandle.Index,
		Verifier:       verifier,
		CORSOrigins:    cfg.Server.CORSOrigins,
		ExtensionRPS:   cfg.Extension.RateLimitRPS,
		ExtensionBurst: cfg.Extension.RateLimitBurst,
		Logger:         log.Logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}
