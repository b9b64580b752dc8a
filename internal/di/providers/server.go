package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/kansouapp/kansou-server/internal/api"
	"github.com/kansouapp/kansou-server/internal/config"
	"github.com/kansouapp/kansou-server/internal/logger"
	"github.com/kansouapp/kansou-server/internal/service"
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

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	searchService := do.MustInvoke[*service.SearchService](i)
	bookService := do.MustInvoke[*service.BookService](i)
	suggestService := do.MustInvoke[*service.SuggestService](i)
	metadataService := do.MustInvoke[*service.MetadataService](i)
	sessionHandle := do.MustInvoke[*SessionManagerHandle](i)

	handler := api.NewServer(searchService, bookService, suggestService, metadataService, sessionHandle.Manager, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
