package core

// Room is a named set of live connections used for broadcast scoping. Rooms
// are created on first join and deleted by the hub once the member count
// reaches zero. All access happens on the hub goroutine.
type Room struct {
	Name    string
	members map[*Client]struct{}
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		members: make(map[*Client]struct{}),
	}
}

// Add inserts a client into the room. Returns true if newly added, so
// joining twice leaves the member set unchanged.
func (r *Room) Add(c *Client) bool {
	if _, exists := r.members[c]; exists {
		return false
	}
	r.members[c] = struct{}{}
	return true
}

// Remove deletes a client from the room. Returns true if it was a member.
func (r *Room) Remove(c *Client) bool {
	if _, exists := r.members[c]; !exists {
		return false
	}
	delete(r.members, c)
	return true
}

// Size returns the current member count.
func (r *Room) Size() int {
	return len(r.members)
}

// Empty returns true if no clients remain in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Broadcast queues the event for every member except skip. Each recipient's
// channel preserves the order events were queued in; slow consumers drop.
func (r *Room) Broadcast(event *Event, skip *Client) {
	for member := range r.members {
		if member == skip {
			continue
		}
		select {
		case member.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}
