// Package proto defines the wire contract for the interview socket. The
// event vocabulary is what deployed frontend clients already listen for and
// must be preserved exactly, including the historical "recieve-" spelling.
package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// Inbound event names.
const (
	InJoinRoom       = "join-room"
	InLeaveRoom      = "leave-room"
	InCallUser       = "call-user"
	InCallAccepted   = "call-accepted"
	InCallDisconnect = "call-disconnect"

	InMessage        = "message"
	InDisplayCode    = "display-code"
	InInputChange    = "input-change"
	InOutputChange   = "output-change"
	InChangeLanguage = "change-language"
	InTextChange     = "text-change"
)

// Outbound event names.
const (
	OutJoinedRoom       = "joined-room"
	OutUserJoined       = "user-joined"
	OutLeftRoom         = "left-room"
	OutUserLeft         = "user-left"
	OutIncomingCall     = "incoming-call"
	OutCallAccepted     = "call-accepted"
	OutCallDisconnected = "call-disconnected"

	OutReceiveMessage  = "recieve-message"
	OutReceiveCode     = "recieve-code"
	OutReceiveInput    = "recieve-input"
	OutReceiveOutput   = "recieve-output"
	OutReceiveLanguage = "recieve-language"
	OutReceiveText     = "recieve-text"

	OutTargetUnavailable = "target-unavailable"
	OutError             = "error"
)

// JoinRoomData asks to bind an identity and join a room.
type JoinRoomData struct {
	RoomID  string `json:"roomId"`
	EmailID string `json:"emailId"`
}

// LeaveRoomData asks to leave a room.
type LeaveRoomData struct {
	RoomID string `json:"roomId"`
}

// CallUserData carries an offer addressed to a target identity.
type CallUserData struct {
	EmailID string          `json:"emailId"`
	Offer   json.RawMessage `json:"offer"`
}

// CallAcceptedData carries the answer addressed back to the caller.
type CallAcceptedData struct {
	EmailID string          `json:"emailId"`
	Ans     json.RawMessage `json:"ans"`
}

// CallDisconnectData asks to notify a peer the call is over.
type CallDisconnectData struct {
	EmailID string `json:"emailId"`
}

// CollabData is the common shape of all collaboration events.
type CollabData struct {
	Room string          `json:"room"`
	Data json.RawMessage `json:"data"`
}

// JoinedRoomData acknowledges a join.
type JoinedRoomData struct {
	RoomID string `json:"roomId"`
}

// UserJoinedData notifies room members of a new participant.
type UserJoinedData struct {
	EmailID string `json:"emailId"`
}

// LeftRoomData acknowledges a leave.
type LeftRoomData struct {
	RoomID string `json:"roomId"`
}

// UserLeftData notifies room members of a departed participant.
type UserLeftData struct {
	EmailID string `json:"emailId"`
}

// IncomingCallData delivers an offer to the callee.
type IncomingCallData struct {
	From  string          `json:"from"`
	Offer json.RawMessage `json:"offer"`
}

// CallAnswerData delivers the answer to the caller.
type CallAnswerData struct {
	Ans json.RawMessage `json:"ans"`
}

// CallDisconnectedData notifies the peer the call was ended.
type CallDisconnectedData struct {
	From string `json:"from"`
}

// TargetUnavailableData tells a sender its signaling target is not connected.
type TargetUnavailableData struct {
	EmailID string `json:"emailId"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
