package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"perfect-match-backend/internal/services"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxFrameSize   = 64 << 10
	sendBufferSize = 16
)

var (
	errConnectionClosed = errors.New("connection closed")
	errSendBufferFull   = errors.New("send buffer full")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // clients are not authenticated, any origin may connect
	},
}

// wsConn is a services.Connection backed by a websocket. Writes go through
// a buffered channel drained by writePump so Send never blocks the caller.
type wsConn struct {
	id   string
	conn *websocket.Conn
	send chan services.WSMessage

	done      chan struct{}
	closeOnce sync.Once
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan services.WSMessage, sendBufferSize),
		done: make(chan struct{}),
	}
}

func (c *wsConn) ID() string { return c.id }

// Send queues msg for delivery. It fails instead of blocking when the
// client is not keeping up.
func (c *wsConn) Send(msg services.WSMessage) error {
	select {
	case <-c.done:
		return errConnectionClosed
	default:
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return errConnectionClosed
	default:
		return errSendBufferFull
	}
}

// Close sends a close frame and tears the socket down. Safe to call more
// than once.
func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
			time.Now().Add(writeWait),
		)
		err = c.conn.Close()
	})
	return err
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Warn().Err(err).Str("connection_id", c.id).Msg("Failed to write WebSocket message")
				_ = c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	presence *services.PresenceRegistry
	router   *services.DeliveryRouter
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(presence *services.PresenceRegistry, router *services.DeliveryRouter) *WebSocketHandler {
	return &WebSocketHandler{
		presence: presence,
		router:   router,
	}
}

// HandleWebSocket handles GET /ws
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Upgrade connection
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	conn := newWSConn(ws)
	defer func() {
		h.presence.Unregister(conn.id)
		_ = conn.Close()
		log.Info().Str("connection_id", conn.id).Msg("WebSocket connection closed")
	}()

	go conn.writePump()

	log.Info().
		Str("connection_id", conn.id).
		Str("remote_addr", r.RemoteAddr).
		Msg("WebSocket connection established")

	ws.SetReadLimit(maxFrameSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := r.Context()

	// Handle messages
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("connection_id", conn.id).Msg("WebSocket error")
			}
			return
		}

		var msg services.WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Str("connection_id", conn.id).Msg("Failed to parse WebSocket message")
			continue
		}

		h.handleMessage(ctx, conn, msg)
	}
}

// handleMessage processes one inbound frame. Problems are logged, never
// reported back to the client.
func (h *WebSocketHandler) handleMessage(ctx context.Context, conn *wsConn, msg services.WSMessage) {
	switch msg.Type {
	case services.EventJoinRoom:
		h.handleJoinRoom(conn, msg)
	case services.EventSendMessage:
		h.handleSendMessage(ctx, conn, msg)
	default:
		log.Debug().
			Str("connection_id", conn.id).
			Str("type", msg.Type).
			Msg("Unknown WebSocket message type")
	}
}

// handleJoinRoom registers conn under the user ID carried by the frame
func (h *WebSocketHandler) handleJoinRoom(conn *wsConn, msg services.WSMessage) {
	var userID string
	if err := json.Unmarshal(msg.Data, &userID); err != nil || userID == "" {
		log.Warn().
			Str("connection_id", conn.id).
			Msg("joinRoom without a user id")
		return
	}

	h.presence.Register(userID, conn)
}

// handleSendMessage persists and fans out a sendMessage frame
func (h *WebSocketHandler) handleSendMessage(ctx context.Context, conn *wsConn, msg services.WSMessage) {
	res := h.router.DispatchPayload(ctx, msg.Data)
	if res.Dropped {
		log.Warn().
			Err(res.Err).
			Str("connection_id", conn.id).
			Str("reason", string(res.Reason)).
			Msg("Message dropped")
		return
	}

	log.Debug().
		Str("connection_id", conn.id).
		Str("message_id", res.Message.ID).
		Int("pushed", res.Pushed).
		Msg("Message dispatched")
}
