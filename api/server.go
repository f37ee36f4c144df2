// Package api exposes the catalog search service over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/batiwork/batisearch/catalog"
	"github.com/batiwork/batisearch/dict"
	"github.com/batiwork/batisearch/search"
)

// Server is the HTTP API server for the catalog search service.
type Server struct {
	router     chi.Router
	engine     *search.Engine
	manager    *catalog.Manager
	dictionary *dict.Dictionary
	headings   *dict.HeadingDictionary
	log        *slog.Logger
}

// NewServer creates and configures the HTTP server.
func NewServer(engine *search.Engine, manager *catalog.Manager, dictionary *dict.Dictionary, headings *dict.HeadingDictionary, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		engine:     engine,
		manager:    manager,
		dictionary: dictionary,
		headings:   headings,
		log:        log,
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

	r.Get("/health", s.handleHealth)
	r.Get("/status", s.handleStatus)
	r.Get("/libraries", s.handleLibraries)
	r.Get("/search", s.handleSearch)
	r.Get("/hierarchy", s.handleHierarchy)
	r.Get("/count", s.handleCount)
	r.Post("/reload", s.handleReload)

	r.Get("/dictionary", s.handleGetDictionary)
	r.Post("/dictionary", s.handleUpdateDictionary)
	r.Post("/dictionary/synonyms", s.handleAddSynonym)

	r.Get("/title_dictionary", s.handleGetHeadings)
	r.Post("/title_dictionary", s.handleUpdateHeadings)

	s.router = r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
