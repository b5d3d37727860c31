package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"perfect-match-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// newTestPool connects to TEST_DATABASE_DSN and applies the schema.
// The test is skipped when the variable is not set.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, EnsureSchema(ctx, db))
	return db
}

func newTestProfile(gender string, lookingFor ...string) *models.Profile {
	id := uuid.New().String()
	return &models.Profile{
		ID:             id,
		Email:          id + "@example.com",
		Gender:         gender,
		LookingFor:     lookingFor,
		PhotoURL:       "https://cdn.example.com/" + id + ".jpg",
		Answers:        []int{1, 2, 3},
		Attractiveness: models.DefaultAttractiveness,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestPostgres_ProfilesAndRatings(t *testing.T) {
	db := newTestPool(t)
	ctx := context.Background()

	profiles := NewProfileRepository(db)
	ratings := NewRatingRepository(db)
	messages := NewMessageRepository(db)

	alice := newTestProfile("female", "male")
	bob := newTestProfile("male", "female")
	require.NoError(t, profiles.Create(ctx, alice))
	require.NoError(t, profiles.Create(ctx, bob))

	got, err := profiles.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, alice.LookingFor, got.LookingFor)
	require.Equal(t, alice.Answers, got.Answers)

	_, err = profiles.GetByID(ctx, uuid.New().String())
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, profiles.SetAnswers(ctx, bob.ID, []int{5, 5}))
	require.NoError(t, profiles.SetAttractiveness(ctx, bob.ID, 8))
	got, err = profiles.GetByID(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, []int{5, 5}, got.Answers)
	require.Equal(t, 8.0, got.Attractiveness)
	require.Equal(t, bob.PhotoURL, got.PhotoURL)
	require.ErrorIs(t, profiles.SetAttractiveness(ctx, uuid.New().String(), 1), ErrNotFound)

	candidates, err := profiles.FindCandidates(ctx, alice)
	require.NoError(t, err)
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	require.Contains(t, ids, bob.ID)
	require.NotContains(t, ids, alice.ID)

	rating := &models.Rating{ID: uuid.New().String(), Rater: alice.ID, RatedUser: bob.ID, Value: 6, CreatedAt: time.Now().UTC()}
	require.NoError(t, ratings.Create(ctx, rating))

	dup := *rating
	dup.ID = uuid.New().String()
	require.ErrorIs(t, ratings.Create(ctx, &dup), ErrConflict)

	values, err := ratings.ValuesFor(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, []int{6}, values)

	msg := &models.Message{ID: uuid.New().String(), Sender: alice.ID, Recipient: bob.ID, Content: "hi", CreatedAt: time.Now().UTC()}
	require.NoError(t, messages.Create(ctx, msg))

	conv, err := messages.Conversation(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, conv, 1)
	require.Equal(t, "hi", conv[0].Content)
}
