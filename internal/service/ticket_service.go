package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Category    domain.TicketCategory
	CustomerID  string
	CompanyID   *string
	Tags        []string
}

// TicketUpdateInput carries optional field updates; nil means unchanged.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
	Priority    *domain.TicketPriority
	Category    *domain.TicketCategory
	AssigneeID  *string
	Tags        []string
}

// TicketListInput describes listing filters before role scoping.
type TicketListInput struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Categories []domain.TicketCategory
	SearchTerm *string
	Limit      int
	Offset     int
}

// DashboardStats aggregates ticket counts for the caller's scope.
type DashboardStats struct {
	Total      int64
	ByStatus   map[domain.TicketStatus]int64
	ByPriority map[domain.TicketPriority]int64
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create opens a ticket. Customers always own the tickets they create and
// inherit their company; staff may open a ticket on a customer's behalf.
func (s *TicketService) Create(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	customerID := input.CustomerID
	companyID := input.CompanyID
	if actor.Role == domain.RoleCustomer {
		customerID = actor.ID
		companyID = actor.CompanyID
	} else if customerID == "" {
		return nil, apperrors.NewValidationError("customer id required", nil)
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    input.Priority,
		Category:    input.Category,
		CustomerID:  customerID,
		CompanyID:   companyID,
		Tags:        input.Tags,
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}
	if ticket.Category == "" {
		ticket.Category = domain.CategoryGeneral
	}
	if !ticket.Priority.Valid() {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": ticket.Priority})
	}
	if !ticket.Category.Valid() {
		return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": ticket.Category})
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Category: ticket.Category,
		},
	})
	return ticket, nil
}

// Get fetches a ticket the actor may access.
func (s *TicketService) Get(ctx context.Context, actor *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("not authorized to access this ticket")
	}
	return ticket, nil
}

// List returns tickets scoped by role: customers see their own, agents see
// their queue (assigned to them or unassigned), admins see everything.
func (s *TicketService) List(ctx context.Context, actor *domain.User, input TicketListInput) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{
		Statuses:   input.Statuses,
		Priorities: input.Priorities,
		Categories: input.Categories,
		SearchTerm: input.SearchTerm,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	s.applyScope(&filter, actor)
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// Update applies field changes. Customers may only touch title, description
// and priority of their own tickets; staff may change everything. Status
// changes stamp resolvedAt/closedAt on first transition only.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("not authorized to update this ticket")
	}

	if actor.Role == domain.RoleCustomer {
		input.Status = nil
		input.AssigneeID = nil
		input.Category = nil
		input.Tags = nil
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		ticket.Title = title
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, apperrors.NewValidationError("description cannot be empty", nil)
		}
		ticket.Description = description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		ticket.Priority = *input.Priority
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, apperrors.NewValidationError("unknown category", map[string]any{"category": *input.Category})
		}
		ticket.Category = *input.Category
	}
	if input.AssigneeID != nil {
		if *input.AssigneeID == "" {
			ticket.AssigneeID = nil
		} else {
			ticket.AssigneeID = input.AssigneeID
		}
	}
	if input.Tags != nil {
		ticket.Tags = input.Tags
	}

	oldStatus := ticket.Status
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		ticket.SetStatus(*input.Status, time.Now())
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, err
	}

	if ticket.Status != oldStatus {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			ActorID:  actor.ID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// Delete removes a ticket. Admin only.
func (s *TicketService) Delete(ctx context.Context, actor *domain.User, ticketID string) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket")
		}
		return err
	}
	return nil
}

// Stats aggregates ticket counts by status and priority within the actor's
// scope.
func (s *TicketService) Stats(ctx context.Context, actor *domain.User) (*DashboardStats, error) {
	filter := repository.TicketFilter{}
	s.applyScope(&filter, actor)

	byStatus, err := s.tickets.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.tickets.CountByPriority(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		ByStatus:   make(map[domain.TicketStatus]int64),
		ByPriority: make(map[domain.TicketPriority]int64),
	}
	for _, entry := range byStatus {
		stats.ByStatus[entry.Status] = entry.Count
		stats.Total += entry.Count
	}
	for _, entry := range byPriority {
		stats.ByPriority[entry.Priority] = entry.Count
	}
	return stats, nil
}

func (s *TicketService) applyScope(filter *repository.TicketFilter, actor *domain.User) {
	switch actor.Role {
	case domain.RoleCustomer:
		id := actor.ID
		filter.CustomerID = &id
	case domain.RoleAgent:
		id := actor.ID
		filter.AgentID = &id
	case domain.RoleAdmin:
		// unrestricted
	}
}

func (s *TicketService) load(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
