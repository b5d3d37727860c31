// Package memory provides process-local stores for development and tests.
// Data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"perfect-match-backend/internal/models"
	"perfect-match-backend/internal/repository"
)

// Store keeps profiles, messages, ratings and photos in maps
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile
	messages []*models.Message
	ratings  []*models.Rating
	photos   map[string][]byte
}

// New creates an empty store
func New() *Store {
	return &Store{
		profiles: make(map[string]*models.Profile),
		photos:   make(map[string][]byte),
	}
}

// Profiles returns the store as a profile store
func (s *Store) Profiles() *ProfileStore { return &ProfileStore{s} }

// Messages returns the store as a message store
func (s *Store) Messages() *MessageStore { return &MessageStore{s} }

// Ratings returns the store as a rating store
func (s *Store) Ratings() *RatingStore { return &RatingStore{s} }

// Photos returns the store as a photo store
func (s *Store) Photos() *PhotoStore { return &PhotoStore{s} }

// ProfileStore is the profile view of Store
type ProfileStore struct{ s *Store }

// Create inserts a new profile
func (ps *ProfileStore) Create(_ context.Context, p *models.Profile) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	if _, exists := ps.s.profiles[p.ID]; exists {
		return fmt.Errorf("profile %s: %w", p.ID, repository.ErrConflict)
	}
	for _, other := range ps.s.profiles {
		if other.Email == p.Email {
			return fmt.Errorf("profile with email %s already exists: %w", p.Email, repository.ErrConflict)
		}
	}

	ps.s.profiles[p.ID] = cloneProfile(p)
	return nil
}

// GetByID retrieves a profile by ID
func (ps *ProfileStore) GetByID(_ context.Context, id string) (*models.Profile, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	p, ok := ps.s.profiles[id]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", id, repository.ErrNotFound)
	}
	return cloneProfile(p), nil
}

// GetByIDs retrieves every profile whose ID is in ids; unknown IDs are skipped
func (ps *ProfileStore) GetByIDs(_ context.Context, ids []string) ([]*models.Profile, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	var out []*models.Profile
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := ps.s.profiles[id]; ok {
			out = append(out, cloneProfile(p))
		}
	}
	sortProfiles(out)
	return out, nil
}

// FindCandidates returns profiles that mutually match p's gender preference,
// have a photo and are not p itself
func (ps *ProfileStore) FindCandidates(_ context.Context, p *models.Profile) ([]*models.Profile, error) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	var out []*models.Profile
	for _, other := range ps.s.profiles {
		if other.ID == p.ID || !other.HasPhoto() {
			continue
		}
		if !p.Wants(other.Gender) || !other.Wants(p.Gender) {
			continue
		}
		out = append(out, cloneProfile(other))
	}
	sortProfiles(out)
	return out, nil
}

// SetAnswers replaces the questionnaire answers of profile id
func (ps *ProfileStore) SetAnswers(_ context.Context, id string, answers []int) error {
	return ps.update(id, func(p *models.Profile) {
		p.Answers = append([]int{}, answers...)
	})
}

// SetPhoto sets the photo URL and attractiveness of profile id
func (ps *ProfileStore) SetPhoto(_ context.Context, id, photoURL string, attractiveness float64) error {
	return ps.update(id, func(p *models.Profile) {
		p.PhotoURL = photoURL
		p.Attractiveness = attractiveness
	})
}

// SetAttractiveness updates only the attractiveness of profile id
func (ps *ProfileStore) SetAttractiveness(_ context.Context, id string, value float64) error {
	return ps.update(id, func(p *models.Profile) {
		p.Attractiveness = value
	})
}

// update applies fn to the stored profile id in place
func (ps *ProfileStore) update(id string, fn func(p *models.Profile)) error {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	p, ok := ps.s.profiles[id]
	if !ok {
		return fmt.Errorf("profile %s: %w", id, repository.ErrNotFound)
	}
	fn(p)
	return nil
}

// MessageStore is the message view of Store
type MessageStore struct{ s *Store }

// Create appends a message
func (ms *MessageStore) Create(_ context.Context, m *models.Message) error {
	ms.s.mu.Lock()
	defer ms.s.mu.Unlock()

	cp := *m
	ms.s.messages = append(ms.s.messages, &cp)
	return nil
}

// Conversation returns every message exchanged between a and b, oldest first
func (ms *MessageStore) Conversation(_ context.Context, a, b string) ([]*models.Message, error) {
	ms.s.mu.RLock()
	defer ms.s.mu.RUnlock()

	var out []*models.Message
	for _, m := range ms.s.messages {
		if (m.Sender == a && m.Recipient == b) || (m.Sender == b && m.Recipient == a) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// RatingStore is the rating view of Store
type RatingStore struct{ s *Store }

// Create appends a rating, rejecting a second rating for the same pair
func (rs *RatingStore) Create(_ context.Context, r *models.Rating) error {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	for _, existing := range rs.s.ratings {
		if existing.Rater == r.Rater && existing.RatedUser == r.RatedUser {
			return fmt.Errorf("rating %s -> %s: %w", r.Rater, r.RatedUser, repository.ErrConflict)
		}
	}

	cp := *r
	rs.s.ratings = append(rs.s.ratings, &cp)
	return nil
}

// Exists checks if rater has already rated ratedUser
func (rs *RatingStore) Exists(_ context.Context, rater, ratedUser string) (bool, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	for _, r := range rs.s.ratings {
		if r.Rater == rater && r.RatedUser == ratedUser {
			return true, nil
		}
	}
	return false, nil
}

// ListByRater returns every rating authored by rater
func (rs *RatingStore) ListByRater(_ context.Context, rater string) ([]*models.Rating, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	var out []*models.Rating
	for _, r := range rs.s.ratings {
		if r.Rater == rater {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ValuesFor returns the value of every rating ratedUser has received
func (rs *RatingStore) ValuesFor(_ context.Context, ratedUser string) ([]int, error) {
	rs.s.mu.RLock()
	defer rs.s.mu.RUnlock()

	var values []int
	for _, r := range rs.s.ratings {
		if r.RatedUser == ratedUser {
			values = append(values, r.Value)
		}
	}
	return values, nil
}

// PhotoStore is the file storage view of Store
type PhotoStore struct{ s *Store }

// Store keeps data under key and returns a memory:// URL for it
func (ps *PhotoStore) Store(_ context.Context, key string, data []byte, _ string) (string, error) {
	ps.s.mu.Lock()
	defer ps.s.mu.Unlock()

	ps.s.photos[key] = append([]byte(nil), data...)
	return "memory://" + key, nil
}

// Photo returns the bytes stored under key
func (ps *PhotoStore) Photo(key string) ([]byte, bool) {
	ps.s.mu.RLock()
	defer ps.s.mu.RUnlock()

	data, ok := ps.s.photos[key]
	return data, ok
}

func cloneProfile(p *models.Profile) *models.Profile {
	cp := *p
	cp.LookingFor = append([]string(nil), p.LookingFor...)
	cp.Answers = append([]int(nil), p.Answers...)
	return &cp
}

func sortProfiles(profiles []*models.Profile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].CreatedAt.Equal(profiles[j].CreatedAt) {
			return profiles[i].ID < profiles[j].ID
		}
		return profiles[i].CreatedAt.Before(profiles[j].CreatedAt)
	})
}
