package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"perfect-match-backend/internal/models"
	"perfect-match-backend/internal/repository"

	"github.com/google/uuid"
)

// ProfileService handles profile-related business logic
type ProfileService struct {
	profiles ProfileStore
}

// NewProfileService creates a new profile service
func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{
		profiles: profiles,
	}
}

// CreateProfile creates a new profile with no photo, no answers and the
// default attractiveness
func (s *ProfileService) CreateProfile(ctx context.Context, req models.CreateProfileRequest) (*models.Profile, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := models.Validate(req); err != nil {
		return nil, validationError(err.Error())
	}

	profile := &models.Profile{
		ID:             uuid.New().String(),
		Email:          req.Email,
		Gender:         req.Gender,
		LookingFor:     req.LookingFor,
		Answers:        []int{},
		Attractiveness: models.DefaultAttractiveness,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, conflictError("User already exists", err)
		}
		return nil, persistenceError("create profile", err)
	}

	return profile, nil
}

// GetProfile retrieves a profile by ID
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fromStore("get profile", err, "User not found")
	}
	return profile, nil
}

// GetProfiles retrieves the profiles for ids, skipping unknown ones
func (s *ProfileService) GetProfiles(ctx context.Context, req models.BatchRequest) ([]*models.Profile, error) {
	if err := models.Validate(req); err != nil {
		return nil, validationError("Invalid input")
	}

	profiles, err := s.profiles.GetByIDs(ctx, req.IDs)
	if err != nil {
		return nil, persistenceError("get profiles", err)
	}
	if profiles == nil {
		profiles = []*models.Profile{}
	}
	return profiles, nil
}

// SubmitAnswers replaces the questionnaire answers of userID
func (s *ProfileService) SubmitAnswers(ctx context.Context, userID string, req models.AnswersRequest) error {
	if err := models.Validate(req); err != nil {
		return validationError(err.Error())
	}

	if err := s.profiles.SetAnswers(ctx, userID, req.Answers); err != nil {
		return fromStore("set answers", err, "User not found")
	}
	return nil
}
