package handlers

import (
	"net/http"

	"perfect-match-backend/internal/models"
	"perfect-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// RatingHandler handles rating HTTP requests
type RatingHandler struct {
	ratingService *services.RatingService
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// Submit handles POST /ratings
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.RatingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Missing data", http.StatusBadRequest)
		return
	}

	attractiveness, err := h.ratingService.Submit(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, envelope{
		"message":           "Rating saved",
		"newAttractiveness": attractiveness,
	})
}

// ListByRater handles GET /ratings/user/{userId}
func (h *RatingHandler) ListByRater(w http.ResponseWriter, r *http.Request) {
	ratings, err := h.ratingService.ListByRater(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, envelope{"ratings": ratings})
}
