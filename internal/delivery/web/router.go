package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// PublicPaths bypass the Basic-Auth gate.
var PublicPaths = []string{"/healthz"}

type RouterConfig struct {
	Handler       *Handler
	Logger        *zap.Logger
	BasicAuthUser string
	BasicAuthPass string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(BasicAuth(cfg.BasicAuthUser, cfg.BasicAuthPass, PublicPaths))

	r.Get("/healthz", cfg.Handler.Healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/banks", cfg.Handler.ListBanks)
		r.Mount("/quizzes", quizRoutes(cfg.Handler))
		r.Get("/progress", cfg.Handler.Progress)
		r.Delete("/progress", cfg.Handler.ResetProgress)
		r.Get("/circuit", cfg.Handler.Circuit)
	})

	return r
}

func quizRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.StartQuiz)
	r.Get("/{id}", h.GetQuiz)
	r.Delete("/{id}", h.DiscardQuiz)
	r.Post("/{id}/answer", h.Answer)
	r.Post("/{id}/advance", h.Advance)
	return r
}
