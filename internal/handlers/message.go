package handlers

import (
	"net/http"

	"perfect-match-backend/internal/models"
	"perfect-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

// MessageHandler handles message HTTP requests
type MessageHandler struct {
	router *services.DeliveryRouter
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(router *services.DeliveryRouter) *MessageHandler {
	return &MessageHandler{
		router: router,
	}
}

// Send handles POST /messages/send
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	msg, err := h.router.Send(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, envelope{
		"message": "Message sent successfully!",
		"data":    msg,
	})
}

// Conversation handles GET /messages/{userId}/{matchId}
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	messages, err := h.router.Conversation(r.Context(), chi.URLParam(r, "userId"), chi.URLParam(r, "matchId"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, envelope{"messages": messages})
}
