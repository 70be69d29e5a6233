package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 256
	opTimeout      = 10 * time.Second
)

// Gateway is the slice of the message service the socket layer needs: room
// authorization for joins and the persistence path for socket-originated
// sends. Socket sends go through the same guard and validation as HTTP ones;
// there is no unauthenticated broadcast path.
type Gateway interface {
	Authorize(ctx context.Context, actor *domain.User, ticketID string) error
	Send(ctx context.Context, actor *domain.User, ticketID, body string, attachments []string) (*domain.ChatMessage, error)
}

// ClientEvent is the envelope for client-originated socket events.
type ClientEvent struct {
	Event       string   `json:"event"`
	TicketID    string   `json:"ticketId"`
	Message     string   `json:"message,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
}

// ServerEvent is the envelope for server-originated socket events.
type ServerEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Session is one authenticated websocket connection. It implements
// RoomMember; the hub delivers room payloads into its send channel.
type Session struct {
	user    *domain.User
	conn    *websocket.Conn
	hub     *Hub
	gateway Gateway
	logger  *zap.Logger
	send    chan []byte
}

// NewSession wraps an upgraded connection.
func NewSession(user *domain.User, conn *websocket.Conn, hub *Hub, gateway Gateway, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		user:    user,
		conn:    conn,
		hub:     hub,
		gateway: gateway,
		logger:  logger,
		send:    make(chan []byte, sendBuffer),
	}
}

// Deliver queues a payload for the client. Returns false when the session's
// buffer is full; the payload is dropped rather than blocking the room.
func (s *Session) Deliver(payload []byte) bool {
	select {
	case s.send <- payload:
		return true
	default:
		s.logger.Warn("dropping message for slow socket client",
			zap.String("user_id", s.user.ID))
		return false
	}
}

// Run pumps the connection until it closes. On return the session has left
// all rooms.
func (s *Session) Run() {
	done := make(chan struct{})
	go s.writePump(done)
	s.readPump()
	close(done)
	s.hub.Disconnect(s)
}

func (s *Session) readPump() {
	defer s.conn.Close()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		var event ClientEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			s.sendError("malformed event")
			continue
		}
		s.handleEvent(event)
	}
}

func (s *Session) handleEvent(event ClientEvent) {
	if event.TicketID == "" {
		s.sendError("ticketId required")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	switch event.Event {
	case "join-ticket":
		if err := s.gateway.Authorize(ctx, s.user, event.TicketID); err != nil {
			s.sendError(err.Error())
			return
		}
		s.hub.Join(s, event.TicketID)
	case "leave-ticket":
		s.hub.Leave(s, event.TicketID)
	case "send-message":
		// Socket sends take the persistence path; the broadcast comes
		// back through the message-created event, never directly from
		// the raw client payload.
		if _, err := s.gateway.Send(ctx, s.user, event.TicketID, event.Message, event.Attachments); err != nil {
			s.sendError(err.Error())
		}
	default:
		s.sendError("unknown event")
	}
}

func (s *Session) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (s *Session) sendError(message string) {
	payload, err := json.Marshal(ServerEvent{Event: "error", Error: message})
	if err != nil {
		return
	}
	s.Deliver(payload)
}
