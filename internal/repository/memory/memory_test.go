package memory

import (
	"context"
	"testing"
	"time"

	"perfect-match-backend/internal/models"
	"perfect-match-backend/internal/repository"

	"github.com/stretchr/testify/require"
)

func profile(id, gender, photo string, lookingFor ...string) *models.Profile {
	return &models.Profile{
		ID:             id,
		Email:          id + "@example.com",
		Gender:         gender,
		LookingFor:     lookingFor,
		PhotoURL:       photo,
		Attractiveness: models.DefaultAttractiveness,
		CreatedAt:      time.Now(),
	}
}

func TestProfileStore_FindCandidates(t *testing.T) {
	ctx := context.Background()
	ps := New().Profiles()

	me := profile("me", "male", "me.jpg", "female")
	require.NoError(t, ps.Create(ctx, me))
	require.NoError(t, ps.Create(ctx, profile("match", "female", "m.jpg", "male")))
	require.NoError(t, ps.Create(ctx, profile("no-photo", "female", "", "male")))
	require.NoError(t, ps.Create(ctx, profile("not-into-me", "female", "n.jpg", "female")))
	require.NoError(t, ps.Create(ctx, profile("wrong-gender", "male", "w.jpg", "male")))

	candidates, err := ps.FindCandidates(ctx, me)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, "match", candidates[0].ID)
}

func TestProfileStore_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	ps := New().Profiles()

	p := profile("a", "male", "", "female")
	require.NoError(t, ps.Create(ctx, p))

	dup := profile("b", "male", "", "female")
	dup.Email = p.Email
	require.ErrorIs(t, ps.Create(ctx, dup), repository.ErrConflict)

	got, err := ps.GetByID(ctx, "a")
	require.NoError(t, err)
	got.Attractiveness = 7.5
	got.LookingFor[0] = "mutated"

	again, err := ps.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, models.DefaultAttractiveness, again.Attractiveness)
	require.Equal(t, "female", again.LookingFor[0])

	require.NoError(t, ps.SetAttractiveness(ctx, "a", got.Attractiveness))
	again, err = ps.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, 7.5, again.Attractiveness)
	require.Equal(t, "female", again.LookingFor[0])

	_, err = ps.GetByID(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, ps.SetAttractiveness(ctx, "missing", 1), repository.ErrNotFound)
	require.ErrorIs(t, ps.SetAnswers(ctx, "missing", []int{1}), repository.ErrNotFound)
	require.ErrorIs(t, ps.SetPhoto(ctx, "missing", "x.jpg", 10), repository.ErrNotFound)

	batch, err := ps.GetByIDs(ctx, []string{"a", "missing", "a"})
	require.NoError(t, err)
	require.Len(t, batch, 1)
}

func TestProfileStore_FieldScopedUpdates(t *testing.T) {
	ctx := context.Background()
	ps := New().Profiles()
	require.NoError(t, ps.Create(ctx, profile("a", "male", "old.jpg", "female")))

	in := []int{1, 2, 3}
	require.NoError(t, ps.SetAnswers(ctx, "a", in))
	in[0] = 9
	require.NoError(t, ps.SetAttractiveness(ctx, "a", 4.5))

	got, err := ps.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, got.Answers)
	require.Equal(t, 4.5, got.Attractiveness)
	require.Equal(t, "old.jpg", got.PhotoURL)

	require.NoError(t, ps.SetPhoto(ctx, "a", "new.jpg", models.DefaultAttractiveness))
	got, err = ps.GetByID(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "new.jpg", got.PhotoURL)
	require.Equal(t, models.DefaultAttractiveness, got.Attractiveness)
	require.Equal(t, []int{1, 2, 3}, got.Answers)
}

func TestRatingStore_UniquePair(t *testing.T) {
	ctx := context.Background()
	rs := New().Ratings()

	require.NoError(t, rs.Create(ctx, &models.Rating{ID: "1", Rater: "a", RatedUser: "b", Value: 6}))
	require.ErrorIs(t, rs.Create(ctx, &models.Rating{ID: "2", Rater: "a", RatedUser: "b", Value: 9}), repository.ErrConflict)
	require.NoError(t, rs.Create(ctx, &models.Rating{ID: "3", Rater: "b", RatedUser: "a", Value: 4}))
	require.NoError(t, rs.Create(ctx, &models.Rating{ID: "4", Rater: "c", RatedUser: "b", Value: 2}))

	exists, err := rs.Exists(ctx, "a", "b")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = rs.Exists(ctx, "b", "c")
	require.NoError(t, err)
	require.False(t, exists)

	values, err := rs.ValuesFor(ctx, "b")
	require.NoError(t, err)
	require.ElementsMatch(t, []int{6, 2}, values)

	byA, err := rs.ListByRater(ctx, "a")
	require.NoError(t, err)
	require.Len(t, byA, 1)
	require.Equal(t, "b", byA[0].RatedUser)
}

func TestMessageStore_ConversationOrder(t *testing.T) {
	ctx := context.Background()
	ms := New().Messages()
	base := time.Now()

	require.NoError(t, ms.Create(ctx, &models.Message{ID: "2", Sender: "b", Recipient: "a", Content: "second", CreatedAt: base.Add(time.Second)}))
	require.NoError(t, ms.Create(ctx, &models.Message{ID: "1", Sender: "a", Recipient: "b", Content: "first", CreatedAt: base}))
	require.NoError(t, ms.Create(ctx, &models.Message{ID: "3", Sender: "a", Recipient: "c", Content: "other", CreatedAt: base}))

	conv, err := ms.Conversation(ctx, "a", "b")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	require.Equal(t, "first", conv[0].Content)
	require.Equal(t, "second", conv[1].Content)
}

func TestPhotoStore(t *testing.T) {
	ps := New().Photos()

	url, err := ps.Store(context.Background(), "profiles/a/p.jpg", []byte{1, 2, 3}, "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "memory://profiles/a/p.jpg", url)

	data, ok := ps.Photo("profiles/a/p.jpg")
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, data)
}
