package realtime

import (
	"testing"
)

type fakeMember struct {
	received [][]byte
	full     bool
}

func (m *fakeMember) Deliver(payload []byte) bool {
	if m.full {
		return false
	}
	m.received = append(m.received, payload)
	return true
}

func TestHubPublishReachesOnlyRoomMembers(t *testing.T) {
	hub := NewHub()
	inRoom := &fakeMember{}
	other := &fakeMember{}

	hub.Join(inRoom, "t1")
	hub.Join(other, "t2")

	hub.Publish("t1", []byte("hello"))

	if len(inRoom.received) != 1 || string(inRoom.received[0]) != "hello" {
		t.Fatalf("room member received %v", inRoom.received)
	}
	if len(other.received) != 0 {
		t.Fatal("member of another room received the payload")
	}
}

func TestHubJoinIsIdempotent(t *testing.T) {
	hub := NewHub()
	member := &fakeMember{}

	hub.Join(member, "t1")
	hub.Join(member, "t1")

	if size := hub.RoomSize("t1"); size != 1 {
		t.Fatalf("RoomSize = %d, want 1", size)
	}
	hub.Publish("t1", []byte("x"))
	if len(member.received) != 1 {
		t.Fatalf("double join delivered %d copies, want 1", len(member.received))
	}
}

func TestHubLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	member := &fakeMember{}

	hub.Join(member, "t1")
	hub.Leave(member, "t1")
	hub.Publish("t1", []byte("x"))

	if len(member.received) != 0 {
		t.Fatal("left member still received payload")
	}
	// Leaving again is a no-op.
	hub.Leave(member, "t1")
	if size := hub.RoomSize("t1"); size != 0 {
		t.Fatalf("RoomSize = %d, want 0", size)
	}
}

func TestHubDisconnectLeavesAllRooms(t *testing.T) {
	hub := NewHub()
	member := &fakeMember{}
	stayer := &fakeMember{}

	hub.Join(member, "t1")
	hub.Join(member, "t2")
	hub.Join(stayer, "t1")

	hub.Disconnect(member)

	hub.Publish("t1", []byte("a"))
	hub.Publish("t2", []byte("b"))

	if len(member.received) != 0 {
		t.Fatal("disconnected member still received payloads")
	}
	if len(stayer.received) != 1 {
		t.Fatalf("remaining member received %d payloads, want 1", len(stayer.received))
	}
}

func TestHubSlowMemberDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	slow := &fakeMember{full: true}
	healthy := &fakeMember{}

	hub.Join(slow, "t1")
	hub.Join(healthy, "t1")

	hub.Publish("t1", []byte("x"))

	if len(healthy.received) != 1 {
		t.Fatal("healthy member missed payload because of a slow peer")
	}
	if size := hub.RoomSize("t1"); size != 2 {
		t.Fatalf("RoomSize = %d, want 2; a full buffer is not an eviction", size)
	}
}
