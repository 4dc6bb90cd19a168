package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"vegly/internal/core"
)

// SearchRequest queries the knowledge base index.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

// SearchResponse lists the closest knowledge base entries.
type SearchResponse struct {
	Query   string        `json:"query"`
	Results []core.RAGHit `json:"results"`
}

// ParseRequest asks for a raw LLM completion. Upstream menu parsers use
// this when their regex extraction comes up empty.
type ParseRequest struct {
	Prompt string `json:"prompt"`
}

// ParseResponse carries the raw LLM output.
type ParseResponse struct {
	Result string `json:"result"`
}

// handleSearch handles POST /api/search
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "Query is required")
		return
	}
	if req.TopK <= 0 {
		req.TopK = 5
	}

	results, err := s.deps.Store.Search(r.Context(), req.Query, req.TopK)
	if err != nil {
		s.log.Error("Knowledge base search failed", "query", req.Query, "error", err)
		s.respondError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	s.respondJSON(w, http.StatusOK, SearchResponse{
		Query:   req.Query,
		Results: results,
	})
}

// handleParse handles POST /api/parse
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Prompt) == "" {
		s.respondError(w, http.StatusBadRequest, "Prompt is required")
		return
	}

	result, err := s.deps.Provider.Generate(r.Context(), req.Prompt, "")
	if err != nil {
		s.log.Error("LLM parse generation failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "LLM generation failed")
		return
	}

	s.respondJSON(w, http.StatusOK, ParseResponse{Result: result})
}
