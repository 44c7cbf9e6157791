package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/tubebrief/tubebrief/internal/config"
	"github.com/tubebrief/tubebrief/internal/handler"
	"github.com/tubebrief/tubebrief/internal/middleware"
	"github.com/tubebrief/tubebrief/internal/pipeline"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	runner *pipeline.Runner
}

// New creates a new Server
func New(cfg *config.Config, runner *pipeline.Runner) *Server {
	return &Server{
		cfg:    cfg,
		runner: runner,
	}
}

// Router returns the configured chi router
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(s.cfg.APIKeyHash))

		analyzeHandler := handler.NewAnalyzeHandler(s.runner)
		r.Post("/api/analyze", analyzeHandler.AnalyzeVideo)
		r.Post("/api/analyze/playlist", analyzeHandler.AnalyzePlaylist)

		exportHandler := handler.NewExportHandler()
		r.Post("/api/export/{format}", exportHandler.Export)
	})

	return r
}
