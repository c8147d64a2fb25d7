package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fascani/amabot/internal/api"
	"github.com/fascani/amabot/internal/api/handlers"
	"github.com/fascani/amabot/internal/api/middleware"
)

type RouterConfig struct {
	AskHandler     *handlers.AskHandler
	RefreshHandler *handlers.RefreshHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 64 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/ask", cfg.AskHandler.Ask)
	r.Post("/refresh", cfg.RefreshHandler.Refresh)

	return r
}
