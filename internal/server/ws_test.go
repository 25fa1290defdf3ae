package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/detector"
)

func dial(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if kind != websocket.TextMessage {
		t.Fatalf("message type = %d, want text", kind)
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	return m
}

func TestSessionSocket_Commands(t *testing.T) {
	reg, _ := newRegistry(t)
	s := reg.Create()
	ts := httptest.NewServer(New(quietConfig(Config{Registry: reg})))
	defer ts.Close()

	conn := dial(t, ts, s.ID())

	if m := readMessage(t, conn); m.Type != "state" || m.State.ID != s.ID() {
		t.Fatalf("greeting = %+v, want the session state", m)
	}

	tests := []struct {
		name     string
		command  string
		wantType string
		check    func(m Message) bool
	}{
		{"select color", `{"action":"tool","color":"yellow"}`, "state",
			func(m Message) bool { return m.State.Color == "YELLOW" }},
		{"select eraser", `{"action":"tool","eraser":true}`, "state",
			func(m Message) bool { return m.State.Eraser }},
		{"brush size", `{"action":"tool","brush_thickness":3}`, "state",
			func(m Message) bool { return m.State.BrushThickness == 5 }},
		{"clear", `{"action":"clear"}`, "state", nil},
		{"state", `{"action":"state"}`, "state", nil},
		{"empty tool", `{"action":"tool"}`, "error", nil},
		{"unknown color", `{"action":"tool","color":"teal"}`, "error", nil},
		{"unknown action", `{"action":"undo"}`, "error", nil},
		{"malformed", `{"action"`, "error", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.command)); err != nil {
				t.Fatalf("WriteMessage() error = %v", err)
			}
			m := readMessage(t, conn)
			if m.Type != tt.wantType {
				t.Fatalf("reply = %+v, want type %q", m, tt.wantType)
			}
			if tt.check != nil && !tt.check(m) {
				t.Errorf("unexpected state %+v", m.State)
			}
		})
	}
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(30, 30, 30, 0), height, width, gocv.MatTypeCV8UC3)
	defer mat.Close()
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		t.Fatalf("IMEncode() error = %v", err)
	}
	defer buf.Close()
	return append([]byte(nil), buf.GetBytes()...)
}

func TestSessionSocket_Frames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	reg, det := newRegistry(t)
	det.SetHands([]detector.HandLandmarks{detector.PointAt(detector.PointingLandmarks(), 0.5, 0.5)})
	s := reg.Create()
	ts := httptest.NewServer(New(quietConfig(Config{Registry: reg, MaxFPS: 1})))
	defer ts.Close()

	conn := dial(t, ts, s.ID())
	readMessage(t, conn)

	snapshot := encodeJPEG(t, 320, 240)
	if err := conn.WriteMessage(websocket.BinaryMessage, snapshot); err != nil {
		t.Fatalf("WriteMessage() error = %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("reply type = %d, want binary", kind)
	}
	img, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		t.Fatalf("reply is not an image: %v", err)
	}
	defer img.Close()
	if img.Cols() != 320 || img.Rows() != 240 {
		t.Errorf("reply size = %dx%d, want 320x240", img.Cols(), img.Rows())
	}

	m := readMessage(t, conn)
	if m.Type != "state" || m.State.Frames != 1 || m.State.Mode != "DRAW" {
		t.Errorf("state after frame = %+v", m.State)
	}

	// One frame per second: an immediate second snapshot is dropped.
	conn.WriteMessage(websocket.BinaryMessage, snapshot)
	if m := readMessage(t, conn); m.Type != "dropped" {
		t.Errorf("second snapshot reply = %+v, want dropped", m)
	}

	conn.WriteMessage(websocket.BinaryMessage, []byte("garbage"))
	m = readMessage(t, conn)
	if m.Type != "error" && m.Type != "dropped" {
		t.Errorf("garbage snapshot reply = %+v, want error or dropped", m)
	}
}
