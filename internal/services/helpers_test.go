package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"perfect-match-backend/internal/models"
	"perfect-match-backend/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

// fakeConn records every frame pushed to it
type fakeConn struct {
	id       string
	failSend bool

	mu       sync.Mutex
	received []WSMessage
	closed   bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(msg WSMessage) error {
	if c.failSend {
		return errors.New("connection broken")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.received = append(c.received, msg)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// messages decodes every receiveMessage frame pushed to c
func (c *fakeConn) messages(t *testing.T) []models.Message {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []models.Message
	for _, frame := range c.received {
		require.Equal(t, EventReceiveMessage, frame.Type)
		var m models.Message
		require.NoError(t, json.Unmarshal(frame.Data, &m))
		out = append(out, m)
	}
	return out
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// failingMessageStore fails every write
type failingMessageStore struct {
	MessageStore
}

func (failingMessageStore) Create(context.Context, *models.Message) error {
	return errors.New("store unavailable")
}

// answers returns n copies of v
func answers(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

var profileSeq int

// seedProfile stores a profile with a photo and default attractiveness
func seedProfile(t *testing.T, store *memory.Store, id, gender string, lookingFor ...string) *models.Profile {
	t.Helper()
	profileSeq++

	p := &models.Profile{
		ID:             id,
		Email:          id + "@example.com",
		Gender:         gender,
		LookingFor:     lookingFor,
		PhotoURL:       "https://cdn.example.com/" + id + ".jpg",
		Answers:        answers(models.AnswerCount, 3),
		Attractiveness: models.DefaultAttractiveness,
		CreatedAt:      time.Unix(int64(profileSeq), 0).UTC(),
	}
	require.NoError(t, store.Profiles().Create(context.Background(), p))
	return p
}

// updateProfile applies fn to the stored profile id
func updateProfile(t *testing.T, store *memory.Store, id string, fn func(p *models.Profile)) {
	t.Helper()
	ctx := context.Background()

	p, err := store.Profiles().GetByID(ctx, id)
	require.NoError(t, err)
	fn(p)
	require.NoError(t, store.Profiles().SetAnswers(ctx, id, p.Answers))
	require.NoError(t, store.Profiles().SetPhoto(ctx, id, p.PhotoURL, p.Attractiveness))
}
