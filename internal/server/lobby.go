package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Lobby broadcasts the joinable-match listing to subscribed sockets. It is a
// plain hub: register/unregister/announce channels serialized by Run, no
// shared maps. Subscribers are read-only; their only input is disconnecting.
type Lobby struct {
	clients    map[*lobbyClient]bool
	register   chan *lobbyClient
	unregister chan *lobbyClient
	announce   chan []byte

	latest []byte // last announcement, replayed to new subscribers
}

type lobbyClient struct {
	ws   *websocket.Conn
	send chan []byte
}

// NewLobby creates the hub; run it with `go lobby.Run()`.
func NewLobby() *Lobby {
	return &Lobby{
		clients:    make(map[*lobbyClient]bool),
		register:   make(chan *lobbyClient),
		unregister: make(chan *lobbyClient),
		announce:   make(chan []byte, 8),
	}
}

// Run is the hub loop.
func (l *Lobby) Run() {
	for {
		select {
		case c := <-l.register:
			l.clients[c] = true
			if l.latest != nil {
				c.send <- l.latest
			}
		case c := <-l.unregister:
			if l.clients[c] {
				delete(l.clients, c)
				close(c.send)
			}
		case frame := <-l.announce:
			l.latest = frame
			for c := range l.clients {
				select {
				case c.send <- frame:
				default:
					delete(l.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Announce pushes a fresh match listing to every subscriber.
func (l *Lobby) Announce(matches []MatchInfo) {
	raw, err := json.Marshal(matches)
	if err != nil {
		return
	}
	frame, err := json.Marshal(Envelope{Type: "lobby", Payload: raw})
	if err != nil {
		return
	}
	select {
	case l.announce <- frame:
	default:
		// The hub is behind; the next announcement carries newer data anyway.
	}
}

// HandleLobbyWS upgrades GET /ws/lobby into a listing subscription.
func (l *Lobby) HandleLobbyWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnw("lobby upgrade failed", "err", err)
		return
	}
	c := &lobbyClient{ws: ws, send: make(chan []byte, 8)}
	l.register <- c
	go c.writePump()
	go c.readPump(l)
}

func (c *lobbyClient) writePump() {
	defer c.ws.Close()
	for frame := range c.send {
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
}

// readPump exists only to notice the disconnect.
func (c *lobbyClient) readPump(l *Lobby) {
	defer func() {
		l.unregister <- c
		_ = c.ws.Close()
	}()
	c.ws.SetReadLimit(maxMessageSize)
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}
