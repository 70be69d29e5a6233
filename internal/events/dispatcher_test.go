package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherInvokesSubscribersInOrder(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var order []string
	dispatcher.Subscribe(EventMessageCreated, func(_ context.Context, _ Event) error {
		order = append(order, "first")
		return nil
	})
	dispatcher.Subscribe(EventMessageCreated, func(_ context.Context, _ Event) error {
		order = append(order, "second")
		return nil
	})
	dispatcher.Subscribe(EventMessageDeleted, func(_ context.Context, _ Event) error {
		order = append(order, "other-type")
		return nil
	})

	if err := dispatcher.Publish(context.Background(), Event{Type: EventMessageCreated}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("handler order = %v", order)
	}
}

func TestDispatcherFailingHandlerDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var called bool
	dispatcher.Subscribe(EventTicketStatusChanged, func(_ context.Context, _ Event) error {
		return errors.New("handler failed")
	})
	dispatcher.Subscribe(EventTicketStatusChanged, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	_ = dispatcher.Publish(context.Background(), Event{Type: EventTicketStatusChanged})
	if !called {
		t.Fatal("second handler skipped after a failing one")
	}
}

func TestDispatcherNoSubscribersIsNoOp(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	if err := dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
		t.Fatalf("publish without subscribers: %v", err)
	}
}
