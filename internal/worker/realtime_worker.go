package worker

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/realtime"
)

// StartRealtimeRelay wires the relay into the dispatcher and begins the
// cross-instance subscription.
func StartRealtimeRelay(ctx context.Context, relay *realtime.Relay, dispatcher events.Dispatcher) {
	if relay == nil || dispatcher == nil {
		return
	}
	relay.Register(dispatcher)
	relay.Start(ctx)
}
