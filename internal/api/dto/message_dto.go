package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// SendMessageRequest payload. The field is named "message" on the wire to
// match the client contract.
type SendMessageRequest struct {
	Message     string   `json:"message"`
	Attachments []string `json:"attachments"`
}

// MessageResponse represents one thread message with its sender resolved.
type MessageResponse struct {
	ID          string              `json:"id"`
	TicketID    string              `json:"ticket_id"`
	Message     string              `json:"message"`
	Attachments []string            `json:"attachments"`
	Sender      *domain.UserDisplay `json:"sender"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewMessageResponse projects a domain message.
func NewMessageResponse(msg *domain.ChatMessage) MessageResponse {
	return MessageResponse{
		ID:          msg.ID,
		TicketID:    msg.TicketID,
		Message:     msg.Body,
		Attachments: msg.Attachments,
		Sender:      msg.Sender,
		CreatedAt:   msg.CreatedAt,
	}
}

// UploadResponse returns the stored attachment reference.
type UploadResponse struct {
	FileURL string `json:"fileUrl"`
}
