package services

import (
	"context"
	"sort"

	"perfect-match-backend/internal/models"
)

// ReciprocalThreshold is the minimum score a rated profile needs to be listed
// as a match in the messages view
const ReciprocalThreshold = 80.0

// CandidateMatch is one entry of GET /matches/{userId}
type CandidateMatch struct {
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	PhotoURL        string `json:"photoUrl"`
	MatchPercentage string `json:"matchPercentage"`

	score float64
}

// ReciprocalMatch is one entry of GET /messages/matches/{userId}
type ReciprocalMatch struct {
	UserID          string  `json:"userId"`
	PhotoURL        string  `json:"photoUrl"`
	MatchPercentage float64 `json:"matchPercentage"`
}

// MatchService scores candidate profiles against a user
type MatchService struct {
	profiles ProfileStore
	ratings  RatingStore
}

// NewMatchService creates a new match service
func NewMatchService(profiles ProfileStore, ratings RatingStore) *MatchService {
	return &MatchService{
		profiles: profiles,
		ratings:  ratings,
	}
}

// ListCandidates scores every eligible profile against userID and returns
// them best first
func (s *MatchService) ListCandidates(ctx context.Context, userID string) ([]CandidateMatch, error) {
	user, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fromStore("get profile", err, "User not found")
	}

	candidates, err := s.profiles.FindCandidates(ctx, user)
	if err != nil {
		return nil, fromStore("find candidates", err, "User not found")
	}

	matches := make([]CandidateMatch, 0, len(candidates))
	for _, other := range candidates {
		if !profileEligible(user, other) {
			continue
		}
		score := Score(user, other, CandidatePoints)
		matches = append(matches, CandidateMatch{
			UserID:          other.ID,
			Email:           other.Email,
			PhotoURL:        other.PhotoURL,
			MatchPercentage: FormatScore(score),
			score:           score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	return matches, nil
}

// ListReciprocalMatches scores the profiles userID has rated and keeps those
// at or above ReciprocalThreshold, best first
func (s *MatchService) ListReciprocalMatches(ctx context.Context, userID string) ([]ReciprocalMatch, error) {
	user, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, fromStore("get profile", err, "User not found")
	}

	ratings, err := s.ratings.ListByRater(ctx, user.ID)
	if err != nil {
		return nil, fromStore("list ratings", err, "User not found")
	}
	if len(ratings) == 0 {
		return []ReciprocalMatch{}, nil
	}

	ratedIDs := make([]string, 0, len(ratings))
	for _, r := range ratings {
		ratedIDs = append(ratedIDs, r.RatedUser)
	}

	rated, err := s.profiles.GetByIDs(ctx, ratedIDs)
	if err != nil {
		return nil, fromStore("get rated profiles", err, "User not found")
	}

	matches := make([]ReciprocalMatch, 0, len(rated))
	for _, other := range rated {
		score := Score(user, other, ReciprocalPoints)
		if score < ReciprocalThreshold {
			continue
		}
		matches = append(matches, ReciprocalMatch{
			UserID:          other.ID,
			PhotoURL:        other.PhotoURL,
			MatchPercentage: score,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercentage > matches[j].MatchPercentage
	})

	return matches, nil
}

// profileEligible reports whether other may be listed as a candidate for user
func profileEligible(user, other *models.Profile) bool {
	return other.ID != user.ID &&
		other.HasPhoto() &&
		user.Wants(other.Gender) &&
		other.Wants(user.Gender)
}
