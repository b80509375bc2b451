package core

import "encoding/json"

// CommandKind describes what the connection wants to do.
type CommandKind int

const (
	// CommandJoinRoom binds the sender's identity and subscribes it to a room.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom unsubscribes the sender from a room.
	CommandLeaveRoom
	// CommandCallUser asks the broker to deliver an offer to a target identity.
	CommandCallUser
	// CommandCallAccepted delivers an answer back to the caller.
	CommandCallAccepted
	// CommandCallDisconnect notifies the target that the call is over.
	CommandCallDisconnect
	// CommandRelay fans a collaboration payload out to a room.
	CommandRelay
)

// Command represents an action requested by a connection. Only the fields
// relevant to the Kind are set; the boundary layer validates them before the
// command reaches the hub.
type Command struct {
	Kind CommandKind

	// Room is the room name for join/leave/relay commands.
	Room string
	// Identity is the caller-supplied durable user id, set on join.
	Identity string

	// Target is the identity a signaling command is addressed to.
	Target string
	// Signal is the opaque offer/answer payload, relayed untouched.
	Signal json.RawMessage

	// Relay selects the collaboration stream for CommandRelay.
	Relay RelayKind
	// Data is the collaboration payload, relayed byte-for-byte.
	Data json.RawMessage
}

// RelayKind identifies one collaborative editing stream.
type RelayKind int

const (
	RelayMessage RelayKind = iota
	RelayCode
	RelayInput
	RelayOutput
	RelayLanguage
	RelayText
)
