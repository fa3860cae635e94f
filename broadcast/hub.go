// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/live-poll/auth"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size
	maxMessageSize = 8192

	// Frames queued per client before it is considered too slow
	sendBufferSize = 256
)

type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub owns every client connection and is the only writer to them.
// Each client has one queue drained by one writer goroutine, and frames
// are queued under a single lock, so all clients see broadcasts in the
// same order.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

// Client is one registered websocket connection
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Register adds conn to the hub and starts its writer
func (h *Hub) Register(conn *websocket.Conn) *Client {
	c := &Client{
		ID:   auth.NewID(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	go c.writePump()
	slog.Info("client connected", "conn_id", c.ID, "remote", conn.RemoteAddr().String())
	return c
}

// Broadcast queues event for every client
func (h *Hub) Broadcast(event string, payload any) {
	msg, err := encode(event, payload)
	if err != nil {
		slog.Error("failed to encode broadcast", "event", event, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients {
		h.enqueueLocked(c, msg)
	}
}

// Send queues event for one client. Unknown ids are ignored.
func (h *Hub) Send(connID string, event string, payload any) {
	msg, err := encode(event, payload)
	if err != nil {
		slog.Error("failed to encode message", "event", event, "conn_id", connID, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[connID]; ok {
		h.enqueueLocked(c, msg)
	}
}

// Disconnect closes a client after frames already queued for it are written
func (h *Hub) Disconnect(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[connID]; ok {
		h.removeLocked(c)
	}
}

// Unregister is called when a client's read loop ends
func (h *Hub) Unregister(connID string) {
	h.Disconnect(connID)
}

// Len returns the number of registered clients
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) enqueueLocked(c *Client, msg []byte) {
	select {
	case c.send <- msg:
	default:
		slog.Warn("dropping slow client", "conn_id", c.ID)
		h.removeLocked(c)
	}
}

// removeLocked closes the client's queue; sends and closes both happen
// under h.mu so a closed queue is never written to.
func (h *Hub) removeLocked(c *Client) {
	delete(h.clients, c.ID)
	close(c.send)
}

func encode(event string, payload any) ([]byte, error) {
	return json.Marshal(frame{Event: event, Data: payload})
}

// ReadPump reads frames until the connection fails or is closed and passes
// each one to handle. It runs on the caller's goroutine.
func (c *Client) ReadPump(handle func(data []byte)) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("client read failed", "conn_id", c.ID, "error", err)
			}
			return
		}
		handle(data)
	}
}

// writePump is the only goroutine writing to the connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		slog.Info("client disconnected", "conn_id", c.ID)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the queue.
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				slog.Warn("client write failed", "conn_id", c.ID, "error", err)
				c.hub.Disconnect(c.ID)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.Disconnect(c.ID)
				return
			}
		}
	}
}
