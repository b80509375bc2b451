package http

import (
	"encoding/json"

	"github.com/devhire/interview-server/internal/core"
	"github.com/devhire/interview-server/internal/proto"
)

// relayKinds maps each inbound collaboration event to its stream.
var relayKinds = map[string]core.RelayKind{
	proto.InMessage:        core.RelayMessage,
	proto.InDisplayCode:    core.RelayCode,
	proto.InInputChange:    core.RelayInput,
	proto.InOutputChange:   core.RelayOutput,
	proto.InChangeLanguage: core.RelayLanguage,
	proto.InTextChange:     core.RelayText,
}

// relayEventNames maps each stream to the outbound event deployed clients
// listen for.
var relayEventNames = map[core.RelayKind]string{
	core.RelayMessage:  proto.OutReceiveMessage,
	core.RelayCode:     proto.OutReceiveCode,
	core.RelayInput:    proto.OutReceiveInput,
	core.RelayOutput:   proto.OutReceiveOutput,
	core.RelayLanguage: proto.OutReceiveLanguage,
	core.RelayText:     proto.OutReceiveText,
}

// inboundToCommand validates an inbound frame and maps it to a core command.
// Validation failures come back as a protocol error for the sender; they
// never reach the hub and never close the connection.
func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Event {
	case proto.InJoinRoom:
		var join proto.JoinRoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed join-room payload"}
		}
		if join.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}
		}
		if join.EmailID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "emailId is required"}
		}
		return &core.Command{
			Kind:     core.CommandJoinRoom,
			Room:     join.RoomID,
			Identity: join.EmailID,
		}, nil

	case proto.InLeaveRoom:
		var leave proto.LeaveRoomData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed leave-room payload"}
		}
		if leave.RoomID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "roomId is required"}
		}
		return &core.Command{
			Kind: core.CommandLeaveRoom,
			Room: leave.RoomID,
		}, nil

	case proto.InCallUser:
		var call proto.CallUserData
		if err := json.Unmarshal(inbound.Data, &call); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed call-user payload"}
		}
		if call.EmailID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "emailId is required"}
		}
		return &core.Command{
			Kind:   core.CommandCallUser,
			Target: call.EmailID,
			Signal: call.Offer,
		}, nil

	case proto.InCallAccepted:
		var accepted proto.CallAcceptedData
		if err := json.Unmarshal(inbound.Data, &accepted); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed call-accepted payload"}
		}
		if accepted.EmailID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "emailId is required"}
		}
		return &core.Command{
			Kind:   core.CommandCallAccepted,
			Target: accepted.EmailID,
			Signal: accepted.Ans,
		}, nil

	case proto.InCallDisconnect:
		var disconnect proto.CallDisconnectData
		if err := json.Unmarshal(inbound.Data, &disconnect); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed call-disconnect payload"}
		}
		if disconnect.EmailID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "emailId is required"}
		}
		return &core.Command{
			Kind:   core.CommandCallDisconnect,
			Target: disconnect.EmailID,
		}, nil

	default:
		kind, ok := relayKinds[inbound.Event]
		if !ok {
			return nil, &proto.Error{Code: "unknown_event", Msg: "unknown event type"}
		}
		var collab proto.CollabData
		if err := json.Unmarshal(inbound.Data, &collab); err != nil {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed collaboration payload"}
		}
		if collab.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}
		}
		return &core.Command{
			Kind:  core.CommandRelay,
			Room:  collab.Room,
			Relay: kind,
			Data:  collab.Data,
		}, nil
	}
}

// outboundFromEvent maps a core event to its wire frame.
func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventJoinedRoom:
		return proto.Outbound{
			Event: proto.OutJoinedRoom,
			Data:  proto.JoinedRoomData{RoomID: event.Room},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Event: proto.OutUserJoined,
			Data:  proto.UserJoinedData{EmailID: event.Identity},
		}
	case core.EventLeftRoom:
		return proto.Outbound{
			Event: proto.OutLeftRoom,
			Data:  proto.LeftRoomData{RoomID: event.Room},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Event: proto.OutUserLeft,
			Data:  proto.UserLeftData{EmailID: event.Identity},
		}
	case core.EventIncomingCall:
		return proto.Outbound{
			Event: proto.OutIncomingCall,
			Data:  proto.IncomingCallData{From: event.Identity, Offer: event.Signal},
		}
	case core.EventCallAccepted:
		return proto.Outbound{
			Event: proto.OutCallAccepted,
			Data:  proto.CallAnswerData{Ans: event.Signal},
		}
	case core.EventCallDisconnected:
		return proto.Outbound{
			Event: proto.OutCallDisconnected,
			Data:  proto.CallDisconnectedData{From: event.Identity},
		}
	case core.EventCollab:
		return proto.Outbound{
			Event: relayEventNames[event.Relay],
			Data:  event.Data,
		}
	case core.EventTargetUnavailable:
		return proto.Outbound{
			Event: proto.OutTargetUnavailable,
			Data:  proto.TargetUnavailableData{EmailID: event.Identity},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Event: proto.OutError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Event: proto.OutError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Event: proto.OutError, Error: &proto.Error{Code: "unknown", Msg: "unmapped event"}}
	}
}
