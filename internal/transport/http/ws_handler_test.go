package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/devhire/interview-server/internal/auth"
	"github.com/devhire/interview-server/internal/config"
	"github.com/devhire/interview-server/internal/core"
	"github.com/devhire/interview-server/internal/proto"
)

func startTestServer(t *testing.T, cfg config.Config, authCfg *auth.Config) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(core.Options{NotifyUnavailable: cfg.NotifyUnavailable})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := NewServer(hub, authCfg, cfg, &logger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts
}

func wsURL(ts *httptest.Server) string {
	return strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
}

func dial(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func send(t *testing.T, ctx context.Context, conn *websocket.Conn, event string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", event, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Event: event, Data: payload}); err != nil {
		t.Fatalf("send %s: %v", event, err)
	}
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// readUntil reads frames until one matching the wanted event arrives.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) frame {
	t.Helper()

	for {
		var f frame
		if err := wsjson.Read(ctx, conn, &f); err != nil {
			t.Fatalf("read waiting for %s: %v", event, err)
		}
		if f.Event == event {
			return f
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t, config.Default(), nil)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestJoinAndRelayOverWire(t *testing.T) {
	ts := startTestServer(t, config.Default(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dial(t, ctx, wsURL(ts))
	bob := dial(t, ctx, wsURL(ts))

	send(t, ctx, alice, proto.InJoinRoom, proto.JoinRoomData{RoomID: "interview-1", EmailID: "alice@corp.io"})
	ack := readUntil(t, ctx, alice, proto.OutJoinedRoom)

	var joined proto.JoinedRoomData
	if err := json.Unmarshal(ack.Data, &joined); err != nil || joined.RoomID != "interview-1" {
		t.Fatalf("unexpected join ack: %s (%v)", ack.Data, err)
	}

	send(t, ctx, bob, proto.InJoinRoom, proto.JoinRoomData{RoomID: "interview-1", EmailID: "bob@corp.io"})
	readUntil(t, ctx, bob, proto.OutJoinedRoom)

	notice := readUntil(t, ctx, alice, proto.OutUserJoined)
	var userJoined proto.UserJoinedData
	if err := json.Unmarshal(notice.Data, &userJoined); err != nil || userJoined.EmailID != "bob@corp.io" {
		t.Fatalf("unexpected join notice: %s (%v)", notice.Data, err)
	}

	send(t, ctx, alice, proto.InMessage, proto.CollabData{
		Room: "interview-1",
		Data: json.RawMessage(`"hi"`),
	})

	relayed := readUntil(t, ctx, bob, proto.OutReceiveMessage)
	if string(relayed.Data) != `"hi"` {
		t.Fatalf("relay payload modified: %s", relayed.Data)
	}
}

func TestCallSignalingOverWire(t *testing.T) {
	ts := startTestServer(t, config.Default(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	alice := dial(t, ctx, wsURL(ts))
	bob := dial(t, ctx, wsURL(ts))

	send(t, ctx, alice, proto.InJoinRoom, proto.JoinRoomData{RoomID: "interview-1", EmailID: "alice@corp.io"})
	readUntil(t, ctx, alice, proto.OutJoinedRoom)
	send(t, ctx, bob, proto.InJoinRoom, proto.JoinRoomData{RoomID: "interview-1", EmailID: "bob@corp.io"})
	readUntil(t, ctx, bob, proto.OutJoinedRoom)

	offer := json.RawMessage(`{"type":"offer","sdp":"v=0 offer"}`)
	send(t, ctx, alice, proto.InCallUser, proto.CallUserData{EmailID: "bob@corp.io", Offer: offer})

	incoming := readUntil(t, ctx, bob, proto.OutIncomingCall)
	var call proto.IncomingCallData
	if err := json.Unmarshal(incoming.Data, &call); err != nil {
		t.Fatalf("unmarshal incoming-call: %v", err)
	}
	if call.From != "alice@corp.io" {
		t.Fatalf("incoming call labeled with wrong sender: %+v", call)
	}
	if string(call.Offer) != string(offer) {
		t.Fatalf("offer payload modified: %s", call.Offer)
	}

	answer := json.RawMessage(`{"type":"answer","sdp":"v=0 answer"}`)
	send(t, ctx, bob, proto.InCallAccepted, proto.CallAcceptedData{EmailID: "alice@corp.io", Ans: answer})

	accepted := readUntil(t, ctx, alice, proto.OutCallAccepted)
	var ans proto.CallAnswerData
	if err := json.Unmarshal(accepted.Data, &ans); err != nil {
		t.Fatalf("unmarshal call-accepted: %v", err)
	}
	if string(ans.Ans) != string(answer) {
		t.Fatalf("answer payload modified: %s", ans.Ans)
	}

	send(t, ctx, alice, proto.InCallDisconnect, proto.CallDisconnectData{EmailID: "bob@corp.io"})
	disconnected := readUntil(t, ctx, bob, proto.OutCallDisconnected)
	var peer proto.CallDisconnectedData
	if err := json.Unmarshal(disconnected.Data, &peer); err != nil || peer.From != "alice@corp.io" {
		t.Fatalf("unexpected call-disconnected frame: %s (%v)", disconnected.Data, err)
	}
}

func TestValidationErrorKeepsConnectionAlive(t *testing.T) {
	ts := startTestServer(t, config.Default(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, wsURL(ts))

	send(t, ctx, conn, proto.InJoinRoom, proto.JoinRoomData{EmailID: "alice@corp.io"})
	errFrame := readUntil(t, ctx, conn, proto.OutError)
	if errFrame.Error == nil || errFrame.Error.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %+v", errFrame.Error)
	}

	// The same connection must still be usable after a rejected frame.
	send(t, ctx, conn, proto.InJoinRoom, proto.JoinRoomData{RoomID: "interview-1", EmailID: "alice@corp.io"})
	readUntil(t, ctx, conn, proto.OutJoinedRoom)
}

func TestUnknownEventRejected(t *testing.T) {
	ts := startTestServer(t, config.Default(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, wsURL(ts))

	send(t, ctx, conn, "launch-missiles", map[string]string{"room": "r1"})
	errFrame := readUntil(t, ctx, conn, proto.OutError)
	if errFrame.Error == nil || errFrame.Error.Code != "unknown_event" {
		t.Fatalf("expected unknown_event error, got %+v", errFrame.Error)
	}
}

func TestHandshakeTokenRequired(t *testing.T) {
	authCfg := &auth.Config{
		Secret:   []byte("test-secret"),
		Issuer:   "jobportal",
		Audience: "interview",
		TTL:      time.Hour,
	}
	ts := startTestServer(t, config.Default(), authCfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, _, err := websocket.Dial(ctx, wsURL(ts), nil); err == nil {
		t.Fatal("handshake without token must be rejected")
	}

	token, err := auth.GenerateToken(authCfg, "alice@corp.io")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	conn := dial(t, ctx, wsURL(ts)+"?token="+token)
	send(t, ctx, conn, proto.InJoinRoom, proto.JoinRoomData{RoomID: "interview-1", EmailID: "alice@corp.io"})
	readUntil(t, ctx, conn, proto.OutJoinedRoom)
}
