package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"perfect-match-backend/internal/metrics"
	"perfect-match-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DropReason explains why a realtime message was dropped
type DropReason string

const (
	DropInvalid     DropReason = "validation"
	DropPersistence DropReason = "persistence"
)

// DeliveryResult is the outcome of a realtime send. When Dropped is set the
// message was neither persisted nor pushed; the caller only logs it.
type DeliveryResult struct {
	Message *models.Message
	Pushed  int
	Dropped bool
	Reason  DropReason
	Err     error
}

// DeliveryRouter persists messages and pushes them to every live connection
// of both sender and recipient
type DeliveryRouter struct {
	messages MessageStore
	profiles ProfileStore
	presence *PresenceRegistry
	metrics  *metrics.Metrics
	now      func() time.Time

	// last is the most recent timestamp handed out by nextTimestamp
	mu   sync.Mutex
	last time.Time
}

// NewDeliveryRouter creates a new delivery router
func NewDeliveryRouter(messages MessageStore, profiles ProfileStore, presence *PresenceRegistry, m *metrics.Metrics) *DeliveryRouter {
	return &DeliveryRouter{
		messages: messages,
		profiles: profiles,
		presence: presence,
		metrics:  m,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// DispatchPayload decodes the data of a sendMessage event and dispatches it.
// Undecodable payloads are dropped like invalid ones.
func (d *DeliveryRouter) DispatchPayload(ctx context.Context, data json.RawMessage) DeliveryResult {
	var in models.SocketMessage
	if err := json.Unmarshal(data, &in); err != nil {
		d.metrics.Dropped(string(DropInvalid))
		return DeliveryResult{Dropped: true, Reason: DropInvalid, Err: validationError("Invalid message payload")}
	}
	return d.Dispatch(ctx, in)
}

// Dispatch handles a sendMessage event from a realtime connection. It never
// fails: invalid payloads and persistence failures come back as a dropped
// result.
func (d *DeliveryRouter) Dispatch(ctx context.Context, in models.SocketMessage) DeliveryResult {
	if err := models.Validate(in); err != nil {
		d.metrics.Dropped(string(DropInvalid))
		return DeliveryResult{Dropped: true, Reason: DropInvalid, Err: validationError(err.Error())}
	}

	msg, err := d.persist(ctx, in.Sender, in.Recipient, in.Content)
	if err != nil {
		d.metrics.Dropped(string(DropPersistence))
		return DeliveryResult{Dropped: true, Reason: DropPersistence, Err: err}
	}

	return DeliveryResult{Message: msg, Pushed: d.push(msg)}
}

// Send handles POST /messages/send. Unlike Dispatch it reports failures and
// requires both parties to exist.
func (d *DeliveryRouter) Send(ctx context.Context, req models.SendMessageRequest) (*models.Message, error) {
	if err := models.Validate(req); err != nil {
		return nil, validationError(err.Error())
	}

	for _, id := range []string{req.SenderID, req.RecipientID} {
		if _, err := d.profiles.GetByID(ctx, id); err != nil {
			return nil, fromStore("get profile", err, "Sender or recipient not found")
		}
	}

	msg, err := d.persist(ctx, req.SenderID, req.RecipientID, req.Content)
	if err != nil {
		return nil, err
	}

	d.push(msg)
	return msg, nil
}

// Conversation returns the messages between userID and matchID, oldest first
func (d *DeliveryRouter) Conversation(ctx context.Context, userID, matchID string) ([]*models.Message, error) {
	if userID == "" || matchID == "" {
		return nil, validationError("userId and matchId are required")
	}

	messages, err := d.messages.Conversation(ctx, userID, matchID)
	if err != nil {
		return nil, fromStore("get messages", err, "Messages not found")
	}
	if messages == nil {
		messages = []*models.Message{}
	}
	return messages, nil
}

func (d *DeliveryRouter) persist(ctx context.Context, sender, recipient, content string) (*models.Message, error) {
	msg := &models.Message{
		ID:        uuid.New().String(),
		Sender:    sender,
		Recipient: recipient,
		Content:   content,
		CreatedAt: d.nextTimestamp(),
	}

	if err := d.messages.Create(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("sender_id", sender).
			Str("recipient_id", recipient).
			Msg("Failed to persist message")
		return nil, persistenceError("create message", err)
	}

	d.metrics.Delivered()
	return msg, nil
}

// nextTimestamp returns the current time at millisecond precision, the
// resolution every store keeps. Timestamps are strictly increasing so
// conversation order matches send order.
func (d *DeliveryRouter) nextTimestamp() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.now().Truncate(time.Millisecond)
	if !t.After(d.last) {
		t = d.last.Add(time.Millisecond)
	}
	d.last = t
	return t
}

// push sends msg to every live connection of its sender and recipient.
// Offline parties are skipped. Returns the number of successful pushes.
func (d *DeliveryRouter) push(msg *models.Message) int {
	frame, err := NewWSMessage(EventReceiveMessage, msg)
	if err != nil {
		log.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to encode message")
		return 0
	}

	pushed := 0
	for _, conn := range d.presence.connections(msg.Sender, msg.Recipient) {
		if err := conn.Send(frame); err != nil {
			d.metrics.Pushed(false)
			log.Warn().
				Err(err).
				Str("connection_id", conn.ID()).
				Str("message_id", msg.ID).
				Msg("Failed to push message")
			continue
		}
		d.metrics.Pushed(true)
		pushed++
	}

	log.Debug().
		Str("message_id", msg.ID).
		Str("sender_id", msg.Sender).
		Str("recipient_id", msg.Recipient).
		Int("pushed", pushed).
		Msg("Message delivered")

	return pushed
}
