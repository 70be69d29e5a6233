package realtime

import "sync"

// RoomMember receives payloads published to rooms it has joined. Delivery is
// best-effort: a member that cannot accept immediately is skipped.
type RoomMember interface {
	Deliver(payload []byte) bool
}

// Hub tracks ephemeral room membership keyed by ticket id and fans out
// published payloads to current members. Membership lives only in memory;
// a restart loses it and clients must re-join. The maps never leave the hub —
// callers interact only through Join, Leave, Disconnect and Publish.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[RoomMember]struct{}
	members map[RoomMember]map[string]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[RoomMember]struct{}),
		members: make(map[RoomMember]map[string]struct{}),
	}
}

// Join adds the member to the ticket's room. Idempotent.
func (h *Hub) Join(member RoomMember, ticketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[ticketID]
	if !ok {
		room = make(map[RoomMember]struct{})
		h.rooms[ticketID] = room
	}
	room[member] = struct{}{}

	joined, ok := h.members[member]
	if !ok {
		joined = make(map[string]struct{})
		h.members[member] = joined
	}
	joined[ticketID] = struct{}{}
}

// Leave removes the member from the ticket's room. Idempotent; a no-op when
// not a member.
func (h *Hub) Leave(member RoomMember, ticketID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(member, ticketID)
}

// Disconnect removes the member from every room it joined.
func (h *Hub) Disconnect(member RoomMember) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ticketID := range h.members[member] {
		h.leaveLocked(member, ticketID)
	}
	delete(h.members, member)
}

// Publish delivers the payload to every current member of the ticket's room,
// at most once per member. No retry, no buffering beyond the member's own.
func (h *Hub) Publish(ticketID string, payload []byte) {
	h.mu.RLock()
	room := h.rooms[ticketID]
	targets := make([]RoomMember, 0, len(room))
	for member := range room {
		targets = append(targets, member)
	}
	h.mu.RUnlock()

	for _, member := range targets {
		member.Deliver(payload)
	}
}

// RoomSize reports the current member count of a room.
func (h *Hub) RoomSize(ticketID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[ticketID])
}

func (h *Hub) leaveLocked(member RoomMember, ticketID string) {
	if room, ok := h.rooms[ticketID]; ok {
		delete(room, member)
		if len(room) == 0 {
			delete(h.rooms, ticketID)
		}
	}
	if joined, ok := h.members[member]; ok {
		delete(joined, ticketID)
		if len(joined) == 0 {
			delete(h.members, member)
		}
	}
}
