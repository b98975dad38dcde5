package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"templog/internal/application/port"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
)

// EventKind enumerates the connection lifecycle of a live listener.
type EventKind int

const (
	EventConnected EventKind = iota
	EventDisconnected
	EventDataReceived
)

// Event is one lifecycle occurrence on the live channel, dispatched
// through a single handler.
type Event struct {
	Kind   EventKind
	Client uint64
	Remote string
	Data   []byte
}

type client struct {
	id   uint64
	send chan string
}

// Hub broadcasts the latest reading to every connected websocket client.
// Fire and forget: a slow client's frame is dropped, never waited on.
// The cycle goroutine is the only writer of the last-value snapshot;
// connection goroutines read it through the mutex.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	nextID  uint64
	last    string
	hasLast bool
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// chart page and socket share an origin; no auth on this channel
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Broadcast sends text to all connected listeners and remembers it for
// late joiners. A no-op with zero clients.
func (h *Hub) Broadcast(text string) {
	h.mu.Lock()
	h.last = text
	h.hasLast = true
	for c := range h.clients {
		select {
		case c.send <- text:
		default: // slow listener, drop the frame
		}
	}
	h.mu.Unlock()
}

// ClientCount reports the number of connected listeners.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) lastValue() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last, h.hasLast
}

// handleEvent is the single dispatch point for connection lifecycle.
func (h *Hub) handleEvent(ev Event) {
	switch ev.Kind {
	case EventConnected:
		log.Info().Uint64("client", ev.Client).Str("remote", ev.Remote).Msg("websocket client connected")
	case EventDisconnected:
		log.Info().Uint64("client", ev.Client).Msg("websocket client disconnected")
	case EventDataReceived:
		// any inbound text frame asks for the current reading again
		if last, ok := h.lastValue(); ok {
			h.Broadcast(last)
		}
	}
}

// ServeWS upgrades the request and runs the client's pumps.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := &client{send: make(chan string, 8)}
	h.mu.Lock()
	h.nextID++
	c.id = h.nextID
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.handleEvent(Event{Kind: EventConnected, Client: c.id, Remote: r.RemoteAddr})

	// greet the new listener with the last known reading
	if last, ok := h.lastValue(); ok {
		select {
		case c.send <- last:
		default:
		}
	}

	go h.writePump(c, conn)
	go h.readPump(c, conn)
}

func (h *Hub) drop(c *client, conn *websocket.Conn) {
	h.mu.Lock()
	_, present := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	_ = conn.Close()
	if present {
		h.handleEvent(Event{Kind: EventDisconnected, Client: c.id})
	}
}

func (h *Hub) writePump(c *client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer h.drop(c, conn)

	for {
		select {
		case text, ok := <-c.send:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(c *client, conn *websocket.Conn) {
	defer h.drop(c, conn)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	conn.SetReadLimit(512)

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		if kind == websocket.TextMessage {
			h.handleEvent(Event{Kind: EventDataReceived, Client: c.id, Data: data})
		}
	}
}

var _ port.Publisher = (*Hub)(nil)
