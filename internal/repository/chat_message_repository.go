package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// ChatMessageRepository manages ticket conversation messages.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.ChatMessage, error)
	GetByID(ctx context.Context, id string) (*domain.ChatMessage, error)
	Delete(ctx context.Context, id string) error
}

type chatMessageRepository struct {
	pool *pgxpool.Pool
}

// NewChatMessageRepository builds repository.
func NewChatMessageRepository(pool *pgxpool.Pool) ChatMessageRepository {
	return &chatMessageRepository{pool: pool}
}

func (r *chatMessageRepository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	const query = `
        INSERT INTO chat_messages (ticket_id, sender_id, body, attachments)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		msg.TicketID,
		msg.SenderID,
		msg.Body,
		msg.Attachments,
	).Scan(&msg.ID, &msg.CreatedAt)
}

// ListByTicket returns the ticket's messages oldest first, with the sender
// resolved to display fields. The seq column breaks creation-time ties so
// the order is total.
func (r *chatMessageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ChatMessage, error) {
	const query = `
        SELECT m.id, m.ticket_id, m.sender_id, m.body, m.attachments, m.created_at,
               u.id, u.name, u.email, u.role
        FROM chat_messages m
        JOIN users u ON u.id = m.sender_id
        WHERE m.ticket_id=$1
        ORDER BY m.created_at ASC, m.seq ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		var sender domain.UserDisplay
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.SenderID,
			&msg.Body,
			&msg.Attachments,
			&msg.CreatedAt,
			&sender.ID,
			&sender.Name,
			&sender.Email,
			&sender.Role,
		); err != nil {
			return nil, err
		}
		msg.Sender = &sender
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *chatMessageRepository) GetByID(ctx context.Context, id string) (*domain.ChatMessage, error) {
	const query = `
        SELECT id, ticket_id, sender_id, body, attachments, created_at
        FROM chat_messages WHERE id=$1`
	var msg domain.ChatMessage
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID,
		&msg.TicketID,
		&msg.SenderID,
		&msg.Body,
		&msg.Attachments,
		&msg.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatMessageRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM chat_messages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
