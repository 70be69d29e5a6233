package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. A pending ticket is
// waiting on the customer; their next reply moves it back to open.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status belongs to the known set.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusPending, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// Valid reports whether the priority belongs to the known set.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// TicketCategory classifies the subject of a ticket.
type TicketCategory string

const (
	CategoryTechnical      TicketCategory = "technical"
	CategoryBilling        TicketCategory = "billing"
	CategoryGeneral        TicketCategory = "general"
	CategoryFeatureRequest TicketCategory = "feature-request"
	CategoryBug            TicketCategory = "bug"
)

// Valid reports whether the category belongs to the known set.
func (c TicketCategory) Valid() bool {
	switch c {
	case CategoryTechnical, CategoryBilling, CategoryGeneral, CategoryFeatureRequest, CategoryBug:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Status      TicketStatus
	Priority    TicketPriority
	Category    TicketCategory
	CustomerID  string
	AssigneeID  *string
	CompanyID   *string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
	ClosedAt    *time.Time
}

// SetStatus transitions the ticket to newStatus and stamps ResolvedAt or
// ClosedAt on the first transition into the corresponding state. Setting the
// current status again is a no-op, so existing timestamps are never
// overwritten.
func (t *Ticket) SetStatus(newStatus TicketStatus, now time.Time) {
	if newStatus == t.Status {
		return
	}
	switch newStatus {
	case TicketStatusResolved:
		if t.ResolvedAt == nil {
			t.ResolvedAt = &now
		}
	case TicketStatusClosed:
		if t.ClosedAt == nil {
			t.ClosedAt = &now
		}
	}
	t.Status = newStatus
}
