// Command ws_smoke exercises a running server end to end: two connections
// join the same room, one relays a message and places a call, and the other
// must receive the renamed broadcast and the incoming offer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/devhire/interview-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "interview-smoke", "room name")
	text := flag.String("text", "hello from smoke test", "message text to relay")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	caller, err := connect(ctx, *addr, *room, "caller@smoke.test")
	if err != nil {
		return err
	}
	defer caller.Close(websocket.StatusNormalClosure, "bye")

	callee, err := connect(ctx, *addr, *room, "callee@smoke.test")
	if err != nil {
		return err
	}
	defer callee.Close(websocket.StatusNormalClosure, "bye")

	// The callee must be a room member before the relay fires.
	if _, err := readUntil(ctx, callee, proto.OutJoinedRoom); err != nil {
		return err
	}

	msg, _ := json.Marshal(*text)
	if err := send(ctx, caller, proto.InMessage, proto.CollabData{Room: *room, Data: msg}); err != nil {
		return err
	}

	frame, err := readUntil(ctx, callee, proto.OutReceiveMessage)
	if err != nil {
		return err
	}
	fmt.Printf("relay ok: %s\n", frame.Data)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0 smoke"}`)
	if err := send(ctx, caller, proto.InCallUser, proto.CallUserData{EmailID: "callee@smoke.test", Offer: offer}); err != nil {
		return err
	}

	frame, err = readUntil(ctx, callee, proto.OutIncomingCall)
	if err != nil {
		return err
	}
	var call proto.IncomingCallData
	if err := json.Unmarshal(frame.Data, &call); err != nil {
		return fmt.Errorf("unmarshal incoming-call: %w", err)
	}
	fmt.Printf("call ok: from=%s offer=%s\n", call.From, call.Offer)
	return nil
}

func connect(ctx context.Context, addr, room, email string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	if err := send(ctx, conn, proto.InJoinRoom, proto.JoinRoomData{RoomID: room, EmailID: email}); err != nil {
		conn.Close(websocket.StatusInternalError, "join failed")
		return nil, err
	}
	return conn, nil
}

func send(ctx context.Context, conn *websocket.Conn, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Event: event, Data: payload}); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}
	return nil
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func readUntil(ctx context.Context, conn *websocket.Conn, event string) (frame, error) {
	for {
		var f frame
		if err := wsjson.Read(ctx, conn, &f); err != nil {
			return f, fmt.Errorf("read waiting for %s: %w", event, err)
		}
		if f.Error != nil {
			return f, fmt.Errorf("server error: %s %s", f.Error.Code, f.Error.Msg)
		}
		if f.Event == event {
			return f, nil
		}
	}
}
