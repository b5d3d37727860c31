package handlers

import (
	"github.com/go-chi/chi/v5"
)

// Handlers groups every HTTP boundary of the service
type Handlers struct {
	Profile   *ProfileHandler
	Photo     *PhotoHandler
	Match     *MatchHandler
	Message   *MessageHandler
	Rating    *RatingHandler
	WebSocket *WebSocketHandler
}

// Mount registers all routes on r
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.Profile.CreateProfile)
		r.Post("/batch", h.Profile.GetProfiles)
		r.Post("/answers/{userId}", h.Profile.SubmitAnswers)
		r.Post("/upload-photo/{userId}", h.Photo.UploadPhoto)
		r.Get("/{userId}", h.Profile.GetProfile)
	})

	r.Get("/matches/{userId}", h.Match.ListCandidates)

	r.Route("/messages", func(r chi.Router) {
		r.Get("/matches/{userId}", h.Match.ListReciprocalMatches)
		r.Post("/send", h.Message.Send)
		r.Get("/{userId}/{matchId}", h.Message.Conversation)
	})

	r.Route("/ratings", func(r chi.Router) {
		r.Post("/", h.Rating.Submit)
		r.Get("/user/{userId}", h.Rating.ListByRater)
	})

	// WebSocket route
	r.Get("/ws", h.WebSocket.HandleWebSocket)
}
