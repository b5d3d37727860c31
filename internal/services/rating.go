package services

import (
	"context"
	"errors"
	"time"

	"perfect-match-backend/internal/metrics"
	"perfect-match-backend/internal/models"
	"perfect-match-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const duplicateRatingMessage = "You have already rated this user"

// RatingService records ratings and keeps attractiveness scores current
type RatingService struct {
	profiles ProfileStore
	ratings  RatingStore
	metrics  *metrics.Metrics
}

// NewRatingService creates a new rating service
func NewRatingService(profiles ProfileStore, ratings RatingStore, m *metrics.Metrics) *RatingService {
	return &RatingService{
		profiles: profiles,
		ratings:  ratings,
		metrics:  m,
	}
}

// Submit records req.UserID's rating of req.MatchID and returns the rated
// user's recomputed attractiveness
func (s *RatingService) Submit(ctx context.Context, req models.RatingRequest) (float64, error) {
	if err := models.Validate(req); err != nil {
		return 0, validationError(err.Error())
	}

	if _, err := s.profiles.GetByID(ctx, req.UserID); err != nil {
		return 0, fromStore("get rater", err, "User not found")
	}
	if _, err := s.profiles.GetByID(ctx, req.MatchID); err != nil {
		return 0, fromStore("get rated user", err, "User not found")
	}

	exists, err := s.ratings.Exists(ctx, req.UserID, req.MatchID)
	if err != nil {
		return 0, persistenceError("check rating", err)
	}
	if exists {
		return 0, conflictError(duplicateRatingMessage, nil)
	}

	rating := &models.Rating{
		ID:        uuid.New().String(),
		Rater:     req.UserID,
		RatedUser: req.MatchID,
		Value:     req.Rating,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// lost a race with a concurrent rating of the same pair
			return 0, conflictError(duplicateRatingMessage, err)
		}
		return 0, persistenceError("create rating", err)
	}
	s.metrics.Rated()

	values, err := s.ratings.ValuesFor(ctx, req.MatchID)
	if err != nil {
		return 0, persistenceError("list rating values", err)
	}

	attractiveness := Attractiveness(values)
	if err := s.profiles.SetAttractiveness(ctx, req.MatchID, attractiveness); err != nil {
		return 0, fromStore("set attractiveness", err, "User not found")
	}

	log.Info().
		Str("rater_id", req.UserID).
		Str("rated_user_id", req.MatchID).
		Int("value", req.Rating).
		Float64("attractiveness", attractiveness).
		Msg("Rating saved")

	return attractiveness, nil
}

// ListByRater returns the ratings userID has authored
func (s *RatingService) ListByRater(ctx context.Context, userID string) ([]*models.Rating, error) {
	if userID == "" {
		return nil, validationError("userId is required")
	}

	ratings, err := s.ratings.ListByRater(ctx, userID)
	if err != nil {
		return nil, persistenceError("list ratings", err)
	}
	if ratings == nil {
		ratings = []*models.Rating{}
	}
	return ratings, nil
}

// Attractiveness is the mean of the baseline score and every received rating.
// The result is not clamped.
func Attractiveness(values []int) float64 {
	total := models.DefaultAttractiveness
	for _, v := range values {
		total += float64(v)
	}
	return total / float64(len(values)+1)
}
