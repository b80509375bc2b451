package core

import "encoding/json"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventJoinedRoom acknowledges a join to the joining client.
	EventJoinedRoom EventKind = iota
	// EventUserJoined notifies room members about a new participant.
	EventUserJoined
	// EventLeftRoom acknowledges a leave to the leaving client.
	EventLeftRoom
	// EventUserLeft notifies room members about a departed participant.
	EventUserLeft
	// EventIncomingCall delivers a call offer to the target identity.
	EventIncomingCall
	// EventCallAccepted delivers the answer back to the caller.
	EventCallAccepted
	// EventCallDisconnected notifies the peer that the call was ended.
	EventCallDisconnected
	// EventCollab carries a relayed collaboration payload.
	EventCollab
	// EventTargetUnavailable tells a sender its signaling target had no
	// live connection. Only emitted when the hub is configured for it.
	EventTargetUnavailable
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to a single client to describe what happened.
type Event struct {
	Kind EventKind
	Room string
	// Identity names the user the event is about: the joiner, the leaver,
	// the caller, or the unavailable target.
	Identity string
	// Signal is the opaque offer/answer payload for call events.
	Signal json.RawMessage
	// Relay and Data are set for EventCollab.
	Relay RelayKind
	Data  json.RawMessage
	Error *CoreError
}

// DeliveryResult reports what happened to a directed event.
type DeliveryResult int

const (
	// Delivered means the event was queued on the recipient's channel.
	Delivered DeliveryResult = iota
	// RecipientGone means no live connection was bound to the target.
	RecipientGone
	// RecipientBusy means the recipient's queue was full and the event
	// was dropped.
	RecipientBusy
)

func (d DeliveryResult) String() string {
	switch d {
	case Delivered:
		return "delivered"
	case RecipientGone:
		return "recipient_gone"
	case RecipientBusy:
		return "recipient_busy"
	default:
		return "unknown"
	}
}
