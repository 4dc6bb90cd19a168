package server

import (
	"encoding/json"
	"net/http"
	"time"

	"vegly/internal/vectorstore"
)

const (
	serviceName   = "vegly"
	serverVersion = "v1.0.0"
)

// Health check response
type HealthResponse struct {
	Status      string            `json:"status"`
	Service     string            `json:"service"`
	VectorStore vectorstore.Stats `json:"vectorstore"`
}

// Status response
type StatusResponse struct {
	Version        string            `json:"version"`
	Uptime         string            `json:"uptime"`
	Provider       ProviderStatus    `json:"provider"`
	KnowledgeBase  vectorstore.Stats `json:"knowledge_base"`
	PendingReviews int               `json:"pending_reviews"`
}

// ProviderStatus identifies the active LLM backend
type ProviderStatus struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

var serverStartTime = time.Now()

// handleHealth handles the /health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.deps.Store.Stats()

	if stats.TotalDocuments == 0 || !s.deps.Provider.Available(r.Context()) {
		s.respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:      "unhealthy",
			Service:     serviceName,
			VectorStore: stats,
		})
		return
	}

	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Service:     serviceName,
		VectorStore: stats,
	})
}

// handleStatus handles the /api/status endpoint
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(serverStartTime)

	s.respondJSON(w, http.StatusOK, StatusResponse{
		Version: serverVersion,
		Uptime:  uptime.String(),
		Provider: ProviderStatus{
			Name:  s.deps.Provider.Name(),
			Model: s.deps.Provider.Model(),
		},
		KnowledgeBase:  s.deps.Store.Stats(),
		PendingReviews: s.deps.Reviews.Len(),
	})
}

// respondJSON writes a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError writes an error response in the standard envelope
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"status":  status,
			"message": message,
		},
	})
}
