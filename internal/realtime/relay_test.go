package realtime

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spec-kit/helpdesk/internal/events"
)

func TestRelayBroadcastsMessageEventsToRoom(t *testing.T) {
	hub := NewHub()
	member := &fakeMember{}
	hub.Join(member, "t1")

	dispatcher := events.NewInMemoryDispatcher()
	relay := NewRelay(hub, nil, nil)
	relay.Register(dispatcher)

	payload := events.MessageCreatedPayload{
		MessageID: "m1",
		TicketID:  "t1",
		Body:      "hi",
	}
	if err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventMessageCreated,
		TicketID: "t1",
		Payload:  payload,
	}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(member.received) != 1 {
		t.Fatalf("room received %d payloads, want 1", len(member.received))
	}
	var got ServerEvent
	if err := json.Unmarshal(member.received[0], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Event != "new-message" {
		t.Fatalf("event = %q, want new-message", got.Event)
	}
	data, ok := got.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data type %T", got.Data)
	}
	if data["id"] != "m1" || data["message"] != "hi" {
		t.Fatalf("data = %v", data)
	}
}

func TestRelayDeleteEventUsesDeletedName(t *testing.T) {
	hub := NewHub()
	member := &fakeMember{}
	hub.Join(member, "t1")

	dispatcher := events.NewInMemoryDispatcher()
	relay := NewRelay(hub, nil, nil)
	relay.Register(dispatcher)

	_ = dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventMessageDeleted,
		TicketID: "t1",
		Payload:  events.MessageDeletedPayload{MessageID: "m1", TicketID: "t1"},
	})

	var got ServerEvent
	if err := json.Unmarshal(member.received[0], &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Event != "message-deleted" {
		t.Fatalf("event = %q, want message-deleted", got.Event)
	}
}

func TestRelayPreservesPublishOrder(t *testing.T) {
	hub := NewHub()
	member := &fakeMember{}
	hub.Join(member, "t1")

	dispatcher := events.NewInMemoryDispatcher()
	relay := NewRelay(hub, nil, nil)
	relay.Register(dispatcher)

	for _, id := range []string{"m1", "m2", "m3"} {
		_ = dispatcher.Publish(context.Background(), events.Event{
			Type:     events.EventMessageCreated,
			TicketID: "t1",
			Payload:  events.MessageCreatedPayload{MessageID: id, TicketID: "t1"},
		})
	}

	if len(member.received) != 3 {
		t.Fatalf("received %d payloads, want 3", len(member.received))
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		var got ServerEvent
		_ = json.Unmarshal(member.received[i], &got)
		data := got.Data.(map[string]interface{})
		if data["id"] != want {
			t.Fatalf("payload %d is %v, want id %s", i, data["id"], want)
		}
	}
}
