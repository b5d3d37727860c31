package handlers

import (
	"net/http"

	"perfect-match-backend/internal/models"
	"perfect-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// CreateProfile handles POST /users
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	profile, err := h.profileService.CreateProfile(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().
		Str("user_id", profile.ID).
		Str("gender", profile.Gender).
		Msg("Profile created")

	respondJSON(w, envelope{"userId": profile.ID})
}

// GetProfile handles GET /users/{userId}
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.GetProfile(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, envelope{"user": profile})
}

// GetProfiles handles POST /users/batch
func (h *ProfileHandler) GetProfiles(w http.ResponseWriter, r *http.Request) {
	var req models.BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid input", http.StatusBadRequest)
		return
	}

	profiles, err := h.profileService.GetProfiles(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, envelope{"users": profiles})
}

// SubmitAnswers handles POST /users/answers/{userId}
func (h *ProfileHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req models.AnswersRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.profileService.SubmitAnswers(r.Context(), userID, req); err != nil {
		respondServiceError(w, r, err)
		return
	}

	log.Info().Str("user_id", userID).Msg("Answers submitted")

	respondJSON(w, envelope{"message": "Answers submitted successfully"})
}
