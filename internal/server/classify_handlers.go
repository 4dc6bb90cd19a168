package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"vegly/internal/core"
	"vegly/internal/menu"

	"github.com/google/uuid"
)

// ClassifyRequest is a menu submitted for classification.
type ClassifyRequest struct {
	RequestID string          `json:"request_id"`
	Items     []core.MenuItem `json:"items"`
}

// ClassifyResponse is the result when every item cleared the review
// threshold.
type ClassifyResponse struct {
	RequestID       string                `json:"request_id"`
	VegetarianItems []core.ClassifiedItem `json:"vegetarian_items"`
	TotalSum        float64               `json:"total_sum"`
	Status          string                `json:"status"`
	AllItems        []core.DetailedItem   `json:"all_items"`
}

// NeedsReviewResponse asks the caller to confirm low-confidence items
// before a final total can be computed. The pending review is stored
// under the request id until corrections arrive.
type NeedsReviewResponse struct {
	RequestID      string                `json:"request_id"`
	Status         string                `json:"status"`
	Message        string                `json:"message"`
	UncertainItems []core.UncertainItem  `json:"uncertain_items"`
	ConfidentItems []core.ClassifiedItem `json:"confident_items"`
	PartialSum     float64               `json:"partial_sum"`
	AllItems       []core.DetailedItem   `json:"all_items"`
}

// handleClassify handles POST /api/classify
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	for i := range req.Items {
		item := &req.Items[i]
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Item %d has an empty name", i+1))
			return
		}
		if item.Price < 0 {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Item %q has a negative price", item.Name))
			return
		}
		if item.SourceImage == 0 {
			item.SourceImage = 1
		}
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	result := s.deps.Service.ClassifyItems(r.Context(), req.Items, req.RequestID)

	if len(result.UncertainItems) > 0 {
		partial := menu.Total(result.VegetarianItems)
		s.deps.Reviews.Put(req.RequestID, result.AllItems, &core.NeedsReviewResult{
			ConfidentItems: result.VegetarianItems,
			UncertainItems: result.UncertainItems,
			PartialSum:     partial.TotalSum,
		})
		s.log.Info("Stored pending review",
			"request_id", req.RequestID,
			"uncertain", len(result.UncertainItems))

		s.respondJSON(w, http.StatusOK, NeedsReviewResponse{
			RequestID:      req.RequestID,
			Status:         "needs_review",
			Message:        "Some items have low classification confidence",
			UncertainItems: result.UncertainItems,
			ConfidentItems: result.VegetarianItems,
			PartialSum:     partial.TotalSum,
			AllItems:       result.AllItems,
		})
		return
	}

	total := menu.Total(result.VegetarianItems)
	s.respondJSON(w, http.StatusOK, ClassifyResponse{
		RequestID:       req.RequestID,
		VegetarianItems: result.VegetarianItems,
		TotalSum:        total.TotalSum,
		Status:          "success",
		AllItems:        result.AllItems,
	})
}
