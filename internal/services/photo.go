package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"perfect-match-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// PhotoService handles profile photo uploads
type PhotoService struct {
	profiles ProfileStore
	files    FileStore
}

// NewPhotoService creates a new photo service
func NewPhotoService(profiles ProfileStore, files FileStore) *PhotoService {
	return &PhotoService{
		profiles: profiles,
		files:    files,
	}
}

// UploadPhoto stores data as userID's profile photo. The profile's
// attractiveness is reset to the default since the new photo has no ratings.
func (s *PhotoService) UploadPhoto(ctx context.Context, userID string, data []byte, contentType string) (*models.Profile, error) {
	if len(data) == 0 {
		return nil, validationError("No file uploaded")
	}

	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := photoExtensions[contentType]
	if !ok {
		return nil, validationError(fmt.Sprintf("Unsupported photo type %q", contentType))
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fromStore("get profile", err, "User not found")
	}

	// Generate key: profiles/{user_id}/{photo_id}.{ext}
	key := path.Join("profiles", userID, uuid.New().String()+ext)

	url, err := s.files.Store(ctx, key, data, contentType)
	if err != nil {
		return nil, persistenceError("store photo", err)
	}

	if err := s.profiles.SetPhoto(ctx, userID, url, models.DefaultAttractiveness); err != nil {
		return nil, fromStore("set photo", err, "User not found")
	}
	profile.PhotoURL = url
	profile.Attractiveness = models.DefaultAttractiveness

	log.Info().
		Str("user_id", userID).
		Str("photo_url", url).
		Int("bytes", len(data)).
		Msg("Photo uploaded")

	return profile, nil
}
