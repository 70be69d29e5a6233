package domain

import (
	"testing"
	"time"
)

func TestSetStatusStampsFirstTransitionOnly(t *testing.T) {
	first := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	ticket := &Ticket{Status: TicketStatusOpen}

	ticket.SetStatus(TicketStatusResolved, first)
	if ticket.Status != TicketStatusResolved {
		t.Fatalf("status = %s, want resolved", ticket.Status)
	}
	if ticket.ResolvedAt == nil || !ticket.ResolvedAt.Equal(first) {
		t.Fatalf("ResolvedAt = %v, want %v", ticket.ResolvedAt, first)
	}

	// Leaving and re-entering resolved keeps the original stamp.
	ticket.SetStatus(TicketStatusOpen, later)
	ticket.SetStatus(TicketStatusResolved, later)
	if !ticket.ResolvedAt.Equal(first) {
		t.Fatalf("ResolvedAt overwritten: %v, want %v", ticket.ResolvedAt, first)
	}

	ticket.SetStatus(TicketStatusClosed, later)
	if ticket.ClosedAt == nil || !ticket.ClosedAt.Equal(later) {
		t.Fatalf("ClosedAt = %v, want %v", ticket.ClosedAt, later)
	}
}

func TestSetStatusSameStatusNoOp(t *testing.T) {
	stamp := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	ticket := &Ticket{Status: TicketStatusResolved}
	ticket.SetStatus(TicketStatusResolved, stamp)
	if ticket.ResolvedAt != nil {
		t.Fatal("setting the current status must not stamp ResolvedAt")
	}
}

func TestStatusPriorityCategoryValid(t *testing.T) {
	if !TicketStatusPending.Valid() || TicketStatus("junk").Valid() {
		t.Fatal("status validity wrong")
	}
	if !TicketPriorityUrgent.Valid() || TicketPriority("junk").Valid() {
		t.Fatal("priority validity wrong")
	}
	if !CategoryFeatureRequest.Valid() || TicketCategory("junk").Valid() {
		t.Fatal("category validity wrong")
	}
}
