package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// MessageService orchestrates the ticket conversation thread: authorized
// reads, validated appends with their ticket side effects, and staff-only
// deletes.
type MessageService struct {
	tickets    repository.TicketRepository
	messages   repository.ChatMessageRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// MessageDependencies bundles collaborators for the message service.
type MessageDependencies struct {
	TicketRepo  repository.TicketRepository
	MessageRepo repository.ChatMessageRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// NewMessageService constructs the service.
func NewMessageService(deps MessageDependencies) *MessageService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{
		tickets:    deps.TicketRepo,
		messages:   deps.MessageRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns the ticket's messages oldest first with senders resolved to
// display fields. No side effects.
func (s *MessageService) List(ctx context.Context, actor *domain.User, ticketID string) ([]domain.ChatMessage, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("not authorized to access these messages")
	}
	msgs, err := s.messages.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return msgs, nil
}

// Send validates and persists a message, then applies the ticket side
// effects and emits the room event. Validation and the access check happen
// before any write. Once the message row is committed, a failure of the
// ticket update or the broadcast is logged and does not fail the call.
func (s *MessageService) Send(ctx context.Context, actor *domain.User, ticketID, body string, attachments []string) (*domain.ChatMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewValidationError("message body is empty", nil)
	}

	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccessTicket(actor, ticket) {
		return nil, apperrors.NewForbidden("not authorized to post messages on this ticket")
	}

	if attachments == nil {
		attachments = []string{}
	}
	msg := &domain.ChatMessage{
		TicketID:    ticket.ID,
		SenderID:    actor.ID,
		Body:        body,
		Attachments: attachments,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	sender := actor.Display()
	msg.Sender = &sender

	s.applyTicketSideEffects(ctx, actor, ticket)
	s.publishMessageCreated(ctx, actor, msg)

	return msg, nil
}

// Delete hard-deletes a message. Staff only; the gate is on the role alone,
// not on access to the message's ticket.
func (s *MessageService) Delete(ctx context.Context, actor *domain.User, messageID string) error {
	if actor == nil || !actor.Role.IsStaff() {
		return apperrors.NewForbidden("admin or agent role required")
	}
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("message")
		}
		return err
	}
	if err := s.messages.Delete(ctx, messageID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("message")
		}
		return err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventMessageDeleted,
		TicketID: msg.TicketID,
		ActorID:  actor.ID,
		Payload: events.MessageDeletedPayload{
			MessageID: msg.ID,
			TicketID:  msg.TicketID,
		},
	})
	return nil
}

// Authorize reports whether the actor may participate in the ticket's room.
// Used by the realtime layer before a join.
func (s *MessageService) Authorize(ctx context.Context, actor *domain.User, ticketID string) error {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if !domain.CanAccessTicket(actor, ticket) {
		return apperrors.NewForbidden("not authorized for this ticket")
	}
	return nil
}

func (s *MessageService) loadTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket")
		}
		return nil, err
	}
	return ticket, nil
}

// applyTicketSideEffects touches the ticket's activity timestamp and, when
// the owning customer replies to a pending ticket, moves it back to open.
// Staff replies never change status. Best-effort: the message is already
// committed.
func (s *MessageService) applyTicketSideEffects(ctx context.Context, actor *domain.User, ticket *domain.Ticket) {
	oldStatus := ticket.Status
	if actor.Role == domain.RoleCustomer && actor.ID == ticket.CustomerID && ticket.Status == domain.TicketStatusPending {
		ticket.SetStatus(domain.TicketStatusOpen, time.Now())
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		s.logger.Error("message saved, ticket update failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
		return
	}
	// Broadcast the transition only once it is on disk.
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
}

func (s *MessageService) publishMessageCreated(ctx context.Context, actor *domain.User, msg *domain.ChatMessage) {
	s.publishEvent(ctx, events.Event{
		Type:     events.EventMessageCreated,
		TicketID: msg.TicketID,
		ActorID:  actor.ID,
		Payload: events.MessageCreatedPayload{
			MessageID:   msg.ID,
			TicketID:    msg.TicketID,
			Body:        msg.Body,
			Attachments: msg.Attachments,
			Sender:      msg.Sender,
			CreatedAt:   msg.CreatedAt,
		},
	})
}

func (s *MessageService) publishEvent(ctx context.Context, event events.Event) {
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
