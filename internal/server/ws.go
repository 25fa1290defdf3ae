package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/ayusman/airdraw/internal/painter"
	"github.com/ayusman/airdraw/internal/server/api"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Message is a text frame sent to websocket clients.
type Message struct {
	Type  string         `json:"type"`
	State *painter.State `json:"state,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Command is a text frame sent by websocket clients. Action is "tool",
// "clear" or "state"; tool commands carry the same fields as the REST
// tool request.
type Command struct {
	Action string `json:"action"`
	api.ToolRequest
}

// SessionSocket drives one session over a websocket. Binary messages are
// encoded snapshots and are answered with the composited JPEG followed by
// a state message. Text messages are commands.
type SessionSocket struct {
	registry *painter.Registry
	maxFPS   int
	log      logrus.FieldLogger
}

// NewSessionSocket creates a handler that accepts at most maxFPS snapshots
// per second from each client.
func NewSessionSocket(registry *painter.Registry, maxFPS int, logger logrus.FieldLogger) *SessionSocket {
	return &SessionSocket{registry: registry, maxFPS: maxFPS, log: logger}
}

// ServeHTTP handles WebSocket upgrade requests at /api/sessions/{id}/ws.
func (h *SessionSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, api.SessionsPrefix+"/"), "/ws")
	session, err := h.registry.Get(id)
	if err != nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade error")
		return
	}
	defer conn.Close()

	log := h.log.WithField("session", id)
	log.Info("websocket connected")
	defer log.Info("websocket disconnected")

	c := &socketConn{
		conn:    conn,
		session: session,
		limiter: rate.NewLimiter(rate.Limit(h.maxFPS), 1),
		log:     log,
		done:    make(chan struct{}),
	}
	c.serve()
}

type socketConn struct {
	conn    *websocket.Conn
	session *painter.Session
	limiter *rate.Limiter
	log     logrus.FieldLogger
	// done stops the pinger. Only the read loop writes data frames.
	done chan struct{}
}

func (c *socketConn) serve() {
	c.conn.SetReadLimit(api.MaxFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.ping()
	defer close(c.done)

	c.sendState()
	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Debug("websocket read failed")
			}
			return
		}

		switch kind {
		case websocket.BinaryMessage:
			c.frame(data)
		case websocket.TextMessage:
			c.command(data)
		}
	}
}

func (c *socketConn) ping() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (c *socketConn) frame(data []byte) {
	if !c.limiter.Allow() {
		c.send(Message{Type: "dropped"})
		return
	}

	out, mode, err := api.Render(c.session, data)
	switch {
	case errors.Is(err, api.ErrBadImage):
		c.send(Message{Type: "error", Error: "snapshot is not a JPEG or PNG image"})
		return
	case out == nil:
		c.log.WithError(err).Error("Failed to encode frame")
		c.send(Message{Type: "error", Error: "failed to encode frame"})
		return
	case err != nil:
		c.log.WithError(err).Warn("Hand detection failed")
	}

	c.log.WithField("mode", mode).Trace("frame processed")
	if err := c.write(websocket.BinaryMessage, out); err != nil {
		return
	}
	c.sendState()
}

func (c *socketConn) command(data []byte) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.send(Message{Type: "error", Error: "invalid JSON command"})
		return
	}

	switch cmd.Action {
	case "tool":
		if err := cmd.ToolRequest.Apply(c.session); err != nil {
			c.send(Message{Type: "error", Error: err.Error()})
			return
		}
	case "clear":
		c.session.Clear()
	case "state":
	default:
		c.send(Message{Type: "error", Error: "unknown action: " + cmd.Action})
		return
	}
	c.sendState()
}

func (c *socketConn) sendState() {
	st := c.session.State()
	c.send(Message{Type: "state", State: &st})
}

func (c *socketConn) send(m Message) {
	msg, err := json.Marshal(m)
	if err != nil {
		return
	}
	c.write(websocket.TextMessage, msg)
}

func (c *socketConn) write(kind int, data []byte) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, data)
}
