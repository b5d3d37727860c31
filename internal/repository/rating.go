package repository

import (
	"context"
	"fmt"

	"perfect-match-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RatingRepository handles database operations for ratings
type RatingRepository struct {
	db *pgxpool.Pool
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts a rating. A second rating for the same (rater, rated user)
// pair fails with ErrConflict.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO ratings (id, rater_id, rated_user_id, value, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, rating.ID, rating.Rater, rating.RatedUser, rating.Value, rating.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("rating %s -> %s: %w", rating.Rater, rating.RatedUser, ErrConflict)
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}
	return nil
}

// Exists checks if rater has already rated ratedUser
func (r *RatingRepository) Exists(ctx context.Context, rater, ratedUser string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ratings WHERE rater_id = $1 AND rated_user_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, rater, ratedUser).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check rating existence: %w", err)
	}
	return exists, nil
}

// ListByRater returns every rating authored by rater
func (r *RatingRepository) ListByRater(ctx context.Context, rater string) ([]*models.Rating, error) {
	query := `
		SELECT id, rater_id, rated_user_id, value, created_at
		FROM ratings
		WHERE rater_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, rater)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*models.Rating
	for rows.Next() {
		var rt models.Rating
		if err := rows.Scan(&rt.ID, &rt.Rater, &rt.RatedUser, &rt.Value, &rt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, &rt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}

// ValuesFor returns the value of every rating ratedUser has received
func (r *RatingRepository) ValuesFor(ctx context.Context, ratedUser string) ([]int, error) {
	query := `SELECT value FROM ratings WHERE rated_user_id = $1`
	rows, err := r.db.Query(ctx, query, ratedUser)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating values: %w", err)
	}
	defer rows.Close()

	var values []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan rating value: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rating values: %w", err)
	}

	return values, nil
}
