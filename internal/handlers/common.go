package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"perfect-match-backend/internal/services"

	"github.com/rs/zerolog/log"
)

const serverErrorMessage = "Server error"

// envelope is the body of every JSON response
type envelope map[string]any

// respondJSON sends a success envelope merged with payload
func respondJSON(w http.ResponseWriter, payload envelope) {
	body := envelope{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, envelope{"success": false, "message": message})
}

// respondServiceError maps a service error to a status code. Persistence and
// unexpected failures are logged and hidden behind a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *services.Error
	message := serverErrorMessage
	if errors.As(err, &svcErr) {
		message = svcErr.Message
	}

	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		respondError(w, message, http.StatusBadRequest)
	case errors.Is(err, services.ErrNotFound):
		respondError(w, message, http.StatusNotFound)
	default:
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondError(w, serverErrorMessage, http.StatusInternalServerError)
	}
}

// decodeJSON reads a JSON request body into dst
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
