package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/Flattop/internal/game"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	maxMessageSize = 1 << 16 // orders are tiny; anything bigger is abuse
	sendQueueSize  = 32
)

// Envelope is the JSON frame every message travels in, both directions.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type errorPayload struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The server is token-authenticated, not cookie-authenticated, so cross
	// origin upgrades carry no ambient authority.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// client is one seated player's live socket. Writes go through the buffered
// send queue; a queue overflow closes the connection rather than stalling the
// session under its lock.
type client struct {
	session *Session
	side    game.Side
	token   string

	ws      *websocket.Conn
	send    chan []byte
	metrics *Metrics

	mu     sync.Mutex
	closed bool
}

// HandleWS upgrades GET /ws?match=<id>&token=<seat token>.
func HandleWS(a *Arena) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := a.Get(r.URL.Query().Get("match"))
		if !ok {
			http.Error(w, "no such match", http.StatusNotFound)
			return
		}
		token := r.URL.Query().Get("token")
		side, ok := s.Authenticate(token)
		if !ok {
			http.Error(w, "bad token", http.StatusForbidden)
			return
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			Log.Warnw("ws upgrade failed", "match", s.ID, "err", err)
			return
		}

		c := &client{
			session: s,
			side:    side,
			token:   token,
			ws:      ws,
			send:    make(chan []byte, sendQueueSize),
			metrics: a.metrics,
		}
		a.metrics.ClientConnected()
		s.attach(c)
		go c.writePump()
		go c.readPump()
	}
}

// sendState enqueues a state frame. Callers may hold the session lock; the
// enqueue never blocks.
func (c *client) sendState(v game.SideView) {
	c.enqueue("state", v)
}

func (c *client) sendError(code, reason string) {
	c.enqueue("error", errorPayload{Code: code, Reason: reason})
}

func (c *client) enqueue(typ string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		Log.Errorw("marshal ws payload", "type", typ, "err", err)
		return
	}
	frame, err := json.Marshal(Envelope{Type: typ, Payload: raw})
	if err != nil {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	select {
	case c.send <- frame:
		c.mu.Unlock()
	default:
		// A client that cannot drain state frames is effectively gone.
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		_ = c.ws.Close()
	}
}

// close shuts the socket down once. The readPump's exit runs the detach.
func (c *client) close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
	_ = c.ws.Close()
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
			c.metrics.AddBytesOut(len(frame))
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *client) readPump() {
	defer func() {
		c.session.detach(c)
		c.metrics.ClientGone()
		c.close()
	}()
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendError("bad_frame", "unparseable envelope")
			continue
		}
		switch env.Type {
		case "orders":
			var o game.Orders
			if err := json.Unmarshal(env.Payload, &o); err != nil {
				c.sendError("bad_orders", "unparseable orders payload")
				continue
			}
			if err := c.session.SubmitOrders(c.token, o); err != nil {
				c.sendError("rejected", err.Error())
			}
		case "leave":
			_ = c.session.Leave(c.token)
			return
		default:
			c.sendError("bad_type", "unknown message type "+env.Type)
		}
	}
}
