package handlers

import (
	"net/http"

	"perfect-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// MatchHandler handles match listing HTTP requests
type MatchHandler struct {
	matchService *services.MatchService
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// ListCandidates handles GET /matches/{userId}
func (h *MatchHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	matches, err := h.matchService.ListCandidates(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Debug().
		Str("user_id", userID).
		Int("matches", len(matches)).
		Msg("Candidates scored")

	respondJSON(w, envelope{"matches": matches})
}

// ListReciprocalMatches handles GET /messages/matches/{userId}
func (h *MatchHandler) ListReciprocalMatches(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	matches, err := h.matchService.ListReciprocalMatches(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, envelope{"matches": matches})
}
