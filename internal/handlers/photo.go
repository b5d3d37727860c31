package handlers

import (
	"errors"
	"io"
	"net/http"

	"perfect-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
)

const (
	photoField          = "photo"
	defaultMaxPhotoSize = 10 << 20
)

// PhotoHandler handles photo-related HTTP requests
type PhotoHandler struct {
	photoService *services.PhotoService
	maxBytes     int64
}

// NewPhotoHandler creates a new photo handler. Uploads larger than maxBytes
// are rejected.
func NewPhotoHandler(photoService *services.PhotoService, maxBytes int64) *PhotoHandler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxPhotoSize
	}
	return &PhotoHandler{
		photoService: photoService,
		maxBytes:     maxBytes,
	}
}

// UploadPhoto handles POST /users/upload-photo/{userId}
func (h *PhotoHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, "No file uploaded", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(photoField)
	if err != nil {
		respondError(w, "No file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	profile, err := h.photoService.UploadPhoto(r.Context(), userID, data, contentType)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, envelope{
		"message":  "Photo uploaded successfully!",
		"photoUrl": profile.PhotoURL,
	})
}
