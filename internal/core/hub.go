package core

import (
	"context"

	"github.com/rs/zerolog"
)

// Hub owns all mutable registry state: the identity registry, the room set
// and the live client table. A single goroutine started by Run processes
// registrations, disconnects and commands, so room and binding mutations are
// never concurrent and a disconnect cleanup is atomic from the point of view
// of every other connection.
type Hub struct {
	identities *IdentityRegistry
	rooms      map[string]*Room
	clients    map[string]*Client

	register   chan *Client
	unregister chan *Client
	ingress    chan submission

	notifyUnavailable bool
	log               zerolog.Logger
}

type submission struct {
	client *Client
	cmd    *Command
}

// Options tunes hub behavior.
type Options struct {
	// NotifyUnavailable makes the signaling broker tell a sender when its
	// target has no live connection instead of dropping silently. Off by
	// default to keep the wire behavior deployed clients expect.
	NotifyUnavailable bool
	Logger            *zerolog.Logger
}

// NewHub creates a hub. Call Run to start processing.
func NewHub(opts Options) *Hub {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Hub{
		identities:        NewIdentityRegistry(),
		rooms:             make(map[string]*Room),
		clients:           make(map[string]*Client),
		register:          make(chan *Client),
		unregister:        make(chan *Client),
		ingress:           make(chan submission, 64),
		notifyUnavailable: opts.NotifyUnavailable,
		log:               logger,
	}
}

// Identities exposes the identity registry for read-side resolution.
func (h *Hub) Identities() *IdentityRegistry {
	return h.identities
}

// RegisterClient hands a new connection to the hub.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient runs the disconnect cleanup for a connection: the
// identity binding is removed and the handle leaves every room it joined.
// Safe to call for a client the hub no longer knows.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes hub traffic until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.addClient(c)
			go h.pump(c)
		case c := <-h.unregister:
			h.dropClient(c)
		case s := <-h.ingress:
			h.dispatch(s.client, s.cmd)
		case <-ctx.Done():
			return
		}
	}
}

// pump forwards one client's commands into the hub, preserving the order the
// connection sent them in.
func (h *Hub) pump(c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.ingress <- submission{client: c, cmd: cmd}:
			case <-c.done:
				return
			}
		case <-c.done:
			return
		}
	}
}

func (h *Hub) addClient(c *Client) {
	h.clients[c.ID] = c
	h.log.Debug().Str("handle", c.ID).Msg("client registered")
}

func (h *Hub) dropClient(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	identity, _ := h.identities.Identity(c.ID)
	h.identities.Unbind(c.ID)

	for name := range c.rooms {
		room, ok := h.rooms[name]
		if !ok {
			continue
		}
		room.Remove(c)
		room.Broadcast(&Event{Kind: EventUserLeft, Room: name, Identity: identity}, nil)
		if room.Empty() {
			delete(h.rooms, name)
			h.log.Debug().Str("room", name).Msg("room deleted")
		}
	}

	delete(h.clients, c.ID)
	close(c.done)
	close(c.Events)
	h.log.Info().Str("handle", c.ID).Str("identity", identity).Msg("client disconnected")
}

// dispatch routes one command. A handler panic must not take down the hub
// loop for every other connection.
func (h *Hub) dispatch(c *Client, cmd *Command) {
	// A command can still be queued when its connection is dropped; it
	// must not resurrect the handle.
	if _, ok := h.clients[c.ID]; !ok {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Str("handle", c.ID).Msg("command handler panicked")
			h.sendError(c, ErrCodeBadRequest, "internal error handling command")
		}
	}()

	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd)
	case CommandLeaveRoom:
		h.handleLeave(c, cmd)
	case CommandCallUser:
		h.handleCallUser(c, cmd)
	case CommandCallAccepted:
		h.handleCallAccepted(c, cmd)
	case CommandCallDisconnect:
		h.handleCallDisconnect(c, cmd)
	case CommandRelay:
		h.handleRelay(c, cmd)
	default:
		h.sendError(c, ErrCodeBadRequest, "unknown command")
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	prev, stolen := h.identities.Bind(cmd.Identity, c.ID)
	if stolen {
		// Last writer wins; the superseded handle is not notified.
		h.log.Debug().
			Str("identity", cmd.Identity).
			Str("old_handle", prev).
			Str("new_handle", c.ID).
			Msg("identity rebound")
	}

	room, ok := h.rooms[cmd.Room]
	if !ok {
		room = NewRoom(cmd.Room)
		h.rooms[cmd.Room] = room
		h.log.Debug().Str("room", cmd.Room).Msg("room created")
	}
	if room.Add(c) {
		c.rooms[cmd.Room] = struct{}{}
	}

	h.send(c, &Event{Kind: EventJoinedRoom, Room: cmd.Room})
	room.Broadcast(&Event{Kind: EventUserJoined, Room: cmd.Room, Identity: cmd.Identity}, c)
	h.log.Info().Str("identity", cmd.Identity).Str("room", cmd.Room).Msg("user joined room")
}

func (h *Hub) handleLeave(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		h.sendError(c, ErrCodeRoomNotFound, "room not found")
		return
	}
	if !room.Remove(c) {
		h.sendError(c, ErrCodeNotInRoom, "not in room")
		return
	}
	delete(c.rooms, cmd.Room)

	identity, _ := h.identities.Identity(c.ID)
	h.send(c, &Event{Kind: EventLeftRoom, Room: cmd.Room})
	room.Broadcast(&Event{Kind: EventUserLeft, Room: cmd.Room, Identity: identity}, c)
	if room.Empty() {
		delete(h.rooms, cmd.Room)
		h.log.Debug().Str("room", cmd.Room).Msg("room deleted")
	}
}

func (h *Hub) handleRelay(c *Client, cmd *Command) {
	room, ok := h.rooms[cmd.Room]
	if !ok {
		// Broadcasting to a room nobody joined is a no-op, not an error.
		return
	}
	room.Broadcast(&Event{
		Kind:  EventCollab,
		Room:  cmd.Room,
		Relay: cmd.Relay,
		Data:  cmd.Data,
	}, c)
}

func (h *Hub) handleCallUser(c *Client, cmd *Command) {
	from, _ := h.identities.Identity(c.ID)
	res := h.deliver(cmd.Target, &Event{
		Kind:     EventIncomingCall,
		Identity: from,
		Signal:   cmd.Signal,
	})
	if res != Delivered {
		h.reportUndelivered(c, cmd.Target, res)
	}
}

func (h *Hub) handleCallAccepted(c *Client, cmd *Command) {
	res := h.deliver(cmd.Target, &Event{
		Kind:   EventCallAccepted,
		Signal: cmd.Signal,
	})
	if res != Delivered {
		h.reportUndelivered(c, cmd.Target, res)
	}
}

func (h *Hub) handleCallDisconnect(c *Client, cmd *Command) {
	from, _ := h.identities.Identity(c.ID)
	res := h.deliver(cmd.Target, &Event{
		Kind:     EventCallDisconnected,
		Identity: from,
	})
	if res != Delivered {
		h.reportUndelivered(c, cmd.Target, res)
	}
}

// deliver routes an event to whichever handle is currently bound to the
// identity. No staleness detection: if the binding was stolen by a
// reconnect, the new handle receives the event.
func (h *Hub) deliver(identity string, event *Event) DeliveryResult {
	handle, ok := h.identities.Handle(identity)
	if !ok {
		return RecipientGone
	}
	target, ok := h.clients[handle]
	if !ok {
		return RecipientGone
	}
	select {
	case target.Events <- event:
		return Delivered
	default:
		return RecipientBusy
	}
}

func (h *Hub) reportUndelivered(c *Client, target string, res DeliveryResult) {
	h.log.Warn().
		Str("target", target).
		Str("from_handle", c.ID).
		Stringer("result", res).
		Msg("signaling event not delivered")
	if h.notifyUnavailable {
		h.send(c, &Event{Kind: EventTargetUnavailable, Identity: target})
	}
}

func (h *Hub) send(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
	}
}

func (h *Hub) sendError(c *Client, code, msg string) {
	h.send(c, &Event{Kind: EventError, Error: coreError(code, msg)})
}
