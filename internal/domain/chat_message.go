package domain

import "time"

// ChatMessage is one entry in a ticket's conversation thread. Messages are
// immutable once created; the only mutation allowed is a hard delete by
// staff.
type ChatMessage struct {
	ID          string
	TicketID    string
	SenderID    string
	Body        string
	Attachments []string
	CreatedAt   time.Time

	// Sender carries resolved display fields when the message was loaded
	// with its author. Never the full user record.
	Sender *UserDisplay
}
