package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"perfect-match-backend/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Realtime event types
const (
	EventJoinRoom       = "joinRoom"
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
)

// WSMessage is one realtime frame
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewWSMessage builds a frame of the given type carrying payload
func NewWSMessage(eventType string, payload any) (WSMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return WSMessage{}, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	return WSMessage{Type: eventType, Data: data}, nil
}

// Connection is one live realtime session. A user may hold several.
type Connection interface {
	ID() string
	Send(msg WSMessage) error
	Close() error
}

// PresenceRegistry maps user IDs to their live connections
type PresenceRegistry struct {
	mu      sync.RWMutex
	users   map[string]map[string]Connection
	metrics *metrics.Metrics
}

// NewPresenceRegistry creates an empty registry
func NewPresenceRegistry(m *metrics.Metrics) *PresenceRegistry {
	return &PresenceRegistry{
		users:   make(map[string]map[string]Connection),
		metrics: m,
	}
}

// Register adds conn to the set of userID's connections. Registering the same
// pair twice is a no-op and an empty userID is ignored.
func (r *PresenceRegistry) Register(userID string, conn Connection) {
	if userID == "" || conn == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	conns, exists := r.users[userID]
	if !exists {
		conns = make(map[string]Connection)
		r.users[userID] = conns
	}
	conns[conn.ID()] = conn
	r.recordLocked()

	log.Info().
		Str("user_id", userID).
		Str("connection_id", conn.ID()).
		Int("connections", len(conns)).
		Msg("Connection joined room")
}

// Unregister removes connID from every user holding it and deletes users
// left without connections
func (r *PresenceRegistry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, conns := range r.users {
		if _, ok := conns[connID]; !ok {
			continue
		}
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.users, userID)
			log.Info().Str("user_id", userID).Msg("User went offline")
		}
	}
	r.recordLocked()
}

// ConnectionsFor returns the IDs of userID's live connections, sorted.
// An empty result means the user is offline.
func (r *PresenceRegistry) ConnectionsFor(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.users[userID]
	ids := make([]string, 0, len(conns))
	for id := range conns {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsOnline checks if a user has at least one live connection
func (r *PresenceRegistry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.users[userID]
	return exists
}

// Stats returns the number of online users and distinct live connections
func (r *PresenceRegistry) Stats() (users, connections int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.statsLocked()
}

// CloseAll closes every registered connection and empties the registry
func (r *PresenceRegistry) CloseAll() {
	r.mu.Lock()
	all := r.users
	r.users = make(map[string]map[string]Connection)
	r.recordLocked()
	r.mu.Unlock()

	closed := make(map[string]struct{})
	for _, conns := range all {
		for id, conn := range conns {
			if _, done := closed[id]; done {
				continue
			}
			closed[id] = struct{}{}
			if err := conn.Close(); err != nil {
				log.Debug().Err(err).Str("connection_id", id).Msg("Failed to close connection")
			}
		}
	}
}

// connections resolves the union of live connections of userIDs
func (r *PresenceRegistry) connections(userIDs ...string) []Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []Connection
	for _, userID := range userIDs {
		for id, conn := range r.users[userID] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, conn)
		}
	}
	return out
}

func (r *PresenceRegistry) statsLocked() (users, connections int) {
	seen := make(map[string]struct{})
	for _, conns := range r.users {
		for id := range conns {
			seen[id] = struct{}{}
		}
	}
	return len(r.users), len(seen)
}

func (r *PresenceRegistry) recordLocked() {
	if r.metrics == nil {
		return
	}
	r.metrics.SetPresence(r.statsLocked())
}
