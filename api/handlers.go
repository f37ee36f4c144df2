package api

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/batiwork/batisearch/core"
	"github.com/batiwork/batisearch/dict"
	"github.com/batiwork/batisearch/search"
)

// searchResultDTO is the wire shape of a search result. Field names follow
// the catalog's French column vocabulary consumed by existing clients.
type searchResultDTO struct {
	Designation  string   `json:"designation"`
	Price        string   `json:"prix"`
	Unit         string   `json:"unite"`
	Code         string   `json:"code,omitempty"`
	Score        float64  `json:"score"`
	Match        string   `json:"match_type"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
}

func toDTO(results []core.SearchResult) []searchResultDTO {
	dtos := make([]searchResultDTO, len(results))
	for i, r := range results {
		dtos[i] = searchResultDTO{
			Designation:  r.Designation,
			Price:        r.Price,
			Unit:         r.Unit,
			Code:         r.Code,
			Score:        math.Round(r.Score*100) / 100,
			Match:        r.Match.String(),
			MatchedTerms: r.MatchedTerms,
		}
	}
	return dtos
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	available, err := s.manager.ListLibraries()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":              "online",
		"available_libraries": available,
		"cached_libraries":    s.manager.Loaded(),
		"dictionary_entries":  s.dictionary.Len(),
		"title_entries":       s.headings.Len(),
	})
}

func (s *Server) handleLibraries(w http.ResponseWriter, r *http.Request) {
	available, err := s.manager.ListLibraries()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, available)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "le parametre 'q' est requis")
		return
	}
	library := r.URL.Query().Get("library")
	if library == "" {
		s.writeError(w, http.StatusBadRequest, "le parametre 'library' est requis")
		return
	}

	var titles []string
	if raw := r.URL.Query().Get("titles"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &titles); err != nil {
			s.writeError(w, http.StatusBadRequest, "le parametre 'titles' doit etre un tableau JSON")
			return
		}
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "le parametre 'limit' doit etre un entier")
			return
		}
		limit = parsed
	}

	results, err := s.engine.Search(r.Context(), search.Request{
		Library:  library,
		Query:    query,
		Price:    core.ParsePriceKind(r.URL.Query().Get("price_type")),
		Titles:   titles,
		Subtitle: r.URL.Query().Get("subtitle"),
		Limit:    limit,
	})
	if err != nil {
		s.writeLibraryError(w, library, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toDTO(results))
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	library := r.URL.Query().Get("library")
	if library == "" {
		s.writeError(w, http.StatusBadRequest, "le parametre 'library' est requis")
		return
	}
	lib, err := s.manager.Library(r.Context(), library)
	if err != nil {
		s.writeLibraryError(w, library, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"library": lib.Name,
		"titles":  lib.Tree.Outline(),
	})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	library := r.URL.Query().Get("library")
	if library == "" {
		s.writeError(w, http.StatusBadRequest, "le parametre 'library' est requis")
		return
	}

	count, expanded, err := s.engine.Count(r.Context(), library, query)
	if err != nil {
		s.writeLibraryError(w, library, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"count":          count,
		"query":          query,
		"library":        library,
		"expanded_terms": expanded,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	library := r.URL.Query().Get("library")
	if library == "" {
		s.writeError(w, http.StatusBadRequest, "le parametre 'library' est requis")
		return
	}
	lib, err := s.manager.Reload(r.Context(), library)
	if err != nil {
		s.writeLibraryError(w, library, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "reloaded",
		"library": lib.Name,
		"entries": len(lib.Entries),
	})
}

func (s *Server) handleGetDictionary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.dictionary.Snapshot())
}

func (s *Server) handleUpdateDictionary(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term     string   `json:"term"`
		Synonyms []string `json:"synonyms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Term == "" {
		s.writeError(w, http.StatusBadRequest, "corps attendu: {\"term\": ..., \"synonyms\": [...]}")
		return
	}
	if err := s.dictionary.SetTerm(body.Term, body.Synonyms); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated", "term": body.Term})
}

func (s *Server) handleAddSynonym(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Term    string `json:"term"`
		Synonym string `json:"synonym"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Term == "" || body.Synonym == "" {
		s.writeError(w, http.StatusBadRequest, "corps attendu: {\"term\": ..., \"synonym\": ...}")
		return
	}
	added, err := s.dictionary.AddSynonym(body.Term, body.Synonym)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"added": added, "term": body.Term})
}

func (s *Server) handleGetHeadings(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.headings.Snapshot())
}

func (s *Server) handleUpdateHeadings(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Label     string              `json:"label"`
		Patterns  []string            `json:"patterns"`
		Subtitles map[string][]string `json:"subtitles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Label == "" {
		s.writeError(w, http.StatusBadRequest, "corps attendu: {\"label\": ..., \"patterns\": [...], \"subtitles\": {...}}")
		return
	}
	cfg := dict.HeadingConfig{Patterns: body.Patterns, Subtitles: body.Subtitles}
	if err := s.headings.Set(body.Label, cfg); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated", "label": body.Label})
}

func (s *Server) writeLibraryError(w http.ResponseWriter, library string, err error) {
	if errors.Is(err, core.ErrLibraryNotFound) {
		s.writeError(w, http.StatusNotFound, "bibliotheque introuvable: "+library)
		return
	}
	s.log.Error("library operation failed", "library", library, "err", err)
	s.writeError(w, http.StatusInternalServerError, err.Error())
}
