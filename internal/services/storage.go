package services

import (
	"context"

	"perfect-match-backend/internal/models"
)

// ProfileStore is the persistence interface for profiles
type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.Profile, error)
	FindCandidates(ctx context.Context, p *models.Profile) ([]*models.Profile, error)
	// Field-scoped writes so concurrent updates of other fields survive
	SetAnswers(ctx context.Context, id string, answers []int) error
	SetPhoto(ctx context.Context, id, photoURL string, attractiveness float64) error
	SetAttractiveness(ctx context.Context, id string, value float64) error
}

// MessageStore is the persistence interface for messages
type MessageStore interface {
	Create(ctx context.Context, m *models.Message) error
	Conversation(ctx context.Context, a, b string) ([]*models.Message, error)
}

// RatingStore is the persistence interface for ratings.
// Create must fail with repository.ErrConflict on a duplicate pair.
type RatingStore interface {
	Create(ctx context.Context, r *models.Rating) error
	Exists(ctx context.Context, rater, ratedUser string) (bool, error)
	ListByRater(ctx context.Context, rater string) ([]*models.Rating, error)
	ValuesFor(ctx context.Context, ratedUser string) ([]int, error)
}

// FileStore stores uploaded bytes and returns the URL they are served from
type FileStore interface {
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
