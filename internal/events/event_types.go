package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventMessageCreated      EventType = "message_created"
	EventMessageDeleted      EventType = "message_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	Category domain.TicketCategory `json:"category"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// MessageCreatedPayload carries the persisted message with its sender
// resolved for display; this is what room members receive as "new-message".
type MessageCreatedPayload struct {
	MessageID   string              `json:"id"`
	TicketID    string              `json:"ticketId"`
	Body        string              `json:"message"`
	Attachments []string            `json:"attachments"`
	Sender      *domain.UserDisplay `json:"sender"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// MessageDeletedPayload payload.
type MessageDeletedPayload struct {
	MessageID string `json:"id"`
	TicketID  string `json:"ticketId"`
}
