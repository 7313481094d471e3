package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/TimelordUK/logpage/internal/config"
	"github.com/TimelordUK/logpage/internal/pager"
)

// Server is the HTTP API over the pager.
type Server struct {
	router chi.Router
	reader *pager.Reader
	log    *slog.Logger
	cfg    *config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(reader *pager.Reader, log *slog.Logger, cfg *config.Config) *Server {
	s := &Server{
		reader: reader,
		log:    log,
		cfg:    cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(CORS(s.cfg.Server.CORSOrigins))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.handleRoot)
		r.Get("/files", s.handleListFiles)
		r.Get("/get_log_page", s.handleGetPage)
		r.Get("/search", s.handleSearch)
		r.Get("/search_next", s.handleSearchNext)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the logpage API!"})
}
