package handlers

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"SecureMemo/internal/cli/model"
	"SecureMemo/internal/cli/service"
	"SecureMemo/internal/config"
	"SecureMemo/internal/middleware"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров локального API. id — идентичность,
// под которой сервер разблокирован при старте.
func NewHandler(
	memos service.MemoService,
	auth service.AuthService,
	id model.Identity,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	memoHandler := NewMemoHandler(memos, auth, id, logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(memoHandler.requireSession)

		r.Get("/status", memoHandler.Status)
		r.Get("/partitions", memoHandler.Partitions)

		r.Get("/memos", memoHandler.List)
		r.Post("/memos", memoHandler.Create)
		r.Get("/memos/{id}", memoHandler.Get)
		r.Put("/memos/{id}", memoHandler.Update)
		r.Delete("/memos/{id}", memoHandler.Delete)
	})

	return &Handler{Router: r}
}
