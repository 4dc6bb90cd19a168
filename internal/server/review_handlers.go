package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"vegly/internal/core"
	"vegly/internal/menu"

	"github.com/go-chi/chi/v5"
)

// ReviewRequest carries human corrections for a pending review.
type ReviewRequest struct {
	RequestID   string            `json:"request_id"`
	Corrections []core.Correction `json:"corrections"`
}

// ReviewResponse is the recomputed result after corrections.
type ReviewResponse struct {
	RequestID          string                `json:"request_id"`
	VegetarianItems    []core.ClassifiedItem `json:"vegetarian_items"`
	TotalSum           float64               `json:"total_sum"`
	AppliedCorrections int                   `json:"applied_corrections"`
}

// handleSubmitReview handles POST /api/review
func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.RequestID == "" {
		s.respondError(w, http.StatusBadRequest, "request_id is required")
		return
	}

	pending, ok := s.deps.Reviews.Get(req.RequestID)
	if !ok {
		s.respondError(w, http.StatusNotFound,
			fmt.Sprintf("No pending review found for request_id: %s", req.RequestID))
		return
	}

	s.log.Info("Received review corrections",
		"request_id", req.RequestID,
		"corrections", len(req.Corrections))

	// Feedback write failure must not block the review.
	if err := s.deps.Feedback.Append(req.RequestID, req.Corrections); err != nil {
		s.log.Warn("Failed to log feedback", "error", err)
	}

	result := menu.Recompute(pending.Items, req.Corrections)
	s.deps.Reviews.Clear(req.RequestID)

	s.respondJSON(w, http.StatusOK, ReviewResponse{
		RequestID:          req.RequestID,
		VegetarianItems:    result.VegetarianItems,
		TotalSum:           result.TotalSum,
		AppliedCorrections: result.CorrectionsApplied,
	})
}

// handleGetReview handles GET /api/review/{requestID}
func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	record, ok := s.deps.Reviews.Get(requestID)
	if !ok {
		s.respondError(w, http.StatusNotFound,
			fmt.Sprintf("No pending review found for request_id: %s", requestID))
		return
	}

	s.respondJSON(w, http.StatusOK, record)
}

// handleFeedbackStats handles GET /api/review/feedback/stats
func (s *Server) handleFeedbackStats(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.deps.Feedback.Stats())
}
