package repository

import (
	"context"
	"errors"
	"fmt"

	"perfect-match-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const profileColumns = `id, email, gender, looking_for, photo_url, answers, attractiveness, created_at`

// uniqueViolation is the postgres SQLSTATE for a unique constraint failure
const uniqueViolation = "23505"

// ProfileRepository handles database operations for profiles
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.Email, p.Gender, p.LookingFor, p.PhotoURL, answersOrEmpty(p.Answers), p.Attractiveness, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("profile with email %s already exists: %w", p.Email, ErrConflict)
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetByIDs retrieves every profile whose ID is in ids; unknown IDs are skipped
func (r *ProfileRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = ANY($1) ORDER BY created_at`
	return r.query(ctx, query, ids)
}

// FindCandidates returns profiles that mutually match p's gender preference,
// have a photo and are not p itself
func (r *ProfileRepository) FindCandidates(ctx context.Context, p *models.Profile) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE id <> $1
		  AND gender = ANY($2)
		  AND $3 = ANY(looking_for)
		  AND photo_url <> ''
		ORDER BY created_at
	`
	return r.query(ctx, query, p.ID, p.LookingFor, p.Gender)
}

// SetAnswers replaces the questionnaire answers of profile id
func (r *ProfileRepository) SetAnswers(ctx context.Context, id string, answers []int) error {
	query := `UPDATE profiles SET answers = $2 WHERE id = $1`
	return r.update(ctx, "set answers", query, id, answersOrEmpty(answers))
}

// SetPhoto sets the photo URL of profile id together with the attractiveness
// the new photo starts with
func (r *ProfileRepository) SetPhoto(ctx context.Context, id, photoURL string, attractiveness float64) error {
	query := `UPDATE profiles SET photo_url = $2, attractiveness = $3 WHERE id = $1`
	return r.update(ctx, "set photo", query, id, photoURL, attractiveness)
}

// SetAttractiveness updates only the attractiveness of profile id
func (r *ProfileRepository) SetAttractiveness(ctx context.Context, id string, value float64) error {
	query := `UPDATE profiles SET attractiveness = $2 WHERE id = $1`
	return r.update(ctx, "set attractiveness", query, id, value)
}

func (r *ProfileRepository) update(ctx context.Context, op, query, id string, args ...any) error {
	result, err := r.db.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *ProfileRepository) query(ctx context.Context, query string, args ...any) ([]*models.Profile, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID, &p.Email, &p.Gender, &p.LookingFor, &p.PhotoURL,
		&p.Answers, &p.Attractiveness, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func answersOrEmpty(answers []int) []int {
	if answers == nil {
		return []int{}
	}
	return answers
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
