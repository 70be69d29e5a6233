package realtime

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
)

const relayChannel = "helpdesk:room-events"

// Relay turns domain events into room broadcasts. Locally it publishes to
// the hub in the order events arrive, which is the order persistence
// commits completed because the dispatcher is synchronous. With a Redis
// client it additionally relays each broadcast across instances so room
// members connected elsewhere receive it too.
type Relay struct {
	hub      *Hub
	rdb      *redis.Client
	logger   *zap.Logger
	originID string
}

type relayEnvelope struct {
	Origin   string          `json:"origin"`
	TicketID string          `json:"ticket_id"`
	Payload  json.RawMessage `json:"payload"`
}

// NewRelay constructs the relay. rdb may be nil for single-instance
// deployments.
func NewRelay(hub *Hub, rdb *redis.Client, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		hub:      hub,
		rdb:      rdb,
		logger:   logger,
		originID: uuid.NewString(),
	}
}

// Register subscribes the relay to the message events it broadcasts.
func (r *Relay) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventMessageCreated, r.handleMessageCreated)
	dispatcher.Subscribe(events.EventMessageDeleted, r.handleMessageDeleted)
}

// Start begins consuming cross-instance broadcasts until ctx is cancelled.
// No-op without a Redis client.
func (r *Relay) Start(ctx context.Context) {
	if r.rdb == nil {
		return
	}
	sub := r.rdb.Subscribe(ctx, relayChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var envelope relayEnvelope
				if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
					r.logger.Warn("malformed relay envelope", zap.Error(err))
					continue
				}
				// Our own broadcasts were already delivered locally.
				if envelope.Origin == r.originID {
					continue
				}
				r.hub.Publish(envelope.TicketID, envelope.Payload)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (r *Relay) handleMessageCreated(ctx context.Context, event events.Event) error {
	return r.broadcast(ctx, event.TicketID, "new-message", event.Payload)
}

func (r *Relay) handleMessageDeleted(ctx context.Context, event events.Event) error {
	return r.broadcast(ctx, event.TicketID, "message-deleted", event.Payload)
}

func (r *Relay) broadcast(ctx context.Context, ticketID, name string, data interface{}) error {
	payload, err := json.Marshal(ServerEvent{Event: name, Data: data})
	if err != nil {
		return err
	}

	r.hub.Publish(ticketID, payload)

	if r.rdb != nil {
		envelope, err := json.Marshal(relayEnvelope{
			Origin:   r.originID,
			TicketID: ticketID,
			Payload:  payload,
		})
		if err != nil {
			return err
		}
		if err := r.rdb.Publish(ctx, relayChannel, envelope).Err(); err != nil {
			r.logger.Error("cross-instance relay failed",
				zap.String("ticket_id", ticketID),
				zap.Error(err))
		}
	}
	return nil
}
