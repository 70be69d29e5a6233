package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	CustomerID  string                `json:"customer_id"`
	CompanyID   *string               `json:"company_id"`
	Tags        []string              `json:"tags"`
}

// UpdateTicketRequest payload; nil fields stay unchanged.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Status      *domain.TicketStatus   `json:"status"`
	Priority    *domain.TicketPriority `json:"priority"`
	Category    *domain.TicketCategory `json:"category"`
	AssigneeID  *string                `json:"assignee_id"`
	Tags        []string               `json:"tags"`
}

// TicketResponse is the API projection of a ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Category    domain.TicketCategory `json:"category"`
	CustomerID  string                `json:"customer_id"`
	AssigneeID  *string               `json:"assignee_id,omitempty"`
	CompanyID   *string               `json:"company_id,omitempty"`
	Tags        []string              `json:"tags"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
	ResolvedAt  *time.Time            `json:"resolved_at,omitempty"`
	ClosedAt    *time.Time            `json:"closed_at,omitempty"`
}

// NewTicketResponse projects a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Category:    ticket.Category,
		CustomerID:  ticket.CustomerID,
		AssigneeID:  ticket.AssigneeID,
		CompanyID:   ticket.CompanyID,
		Tags:        ticket.Tags,
		CreatedAt:   ticket.CreatedAt,
		UpdatedAt:   ticket.UpdatedAt,
		ResolvedAt:  ticket.ResolvedAt,
		ClosedAt:    ticket.ClosedAt,
	}
}

// DashboardResponse aggregates counts for the caller's scope.
type DashboardResponse struct {
	Total      int64                           `json:"total"`
	ByStatus   map[domain.TicketStatus]int64   `json:"by_status"`
	ByPriority map[domain.TicketPriority]int64 `json:"by_priority"`
}
