package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/seiwell/gomokuhub/internal/registry"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period; must be less than pongWait
	pingPeriod = 54 * time.Second

	// Maximum inbound message size in bytes
	maxMessageSize = 64 * 1024

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one live websocket connection. Outbound messages go
// through a buffered channel so a slow peer never blocks the caller.
type Client struct {
	id        registry.ConnID
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	hub       *Hub
	logger    *slog.Logger
	closeOnce sync.Once
}

// Handler upgrades HTTP requests to websocket connections and runs
// their pumps.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a websocket Handler serving connections through
// the given hub
func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Clients connect from arbitrary origins
				return true
			},
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeWS upgrades the request and serves the connection until it
// closes
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	id := h.hub.NextConnID()
	client := &Client{
		id:     id,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		hub:    h.hub,
		logger: h.logger.With(slog.Uint64("conn_id", uint64(id))),
	}

	h.hub.Attach(id, client)
	client.logger.Info("connection established", slog.String("remote", r.RemoteAddr))

	go client.writePump()
	h.hub.handler.HandleConnect(r.Context(), id)
	client.readPump()
}

// Send queues a message for delivery. Messages are dropped, with a
// warning, if the peer's buffer is full.
func (c *Client) Send(message []byte) {
	select {
	case c.send <- message:
	default:
		c.logger.Warn("send buffer full, message dropped")
	}
}

// readPump reads inbound messages and hands them to the session
// handler. It exits on any read error, triggering teardown.
func (c *Client) readPump() {
	defer func() {
		c.hub.handler.HandleDisconnect(context.Background(), c.id)
		c.hub.Detach(c.id)
		c.close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read error", slog.String("error", err.Error()))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		c.hub.handler.HandleMessage(context.Background(), c.id, raw)
	}
}

// writePump drains the send channel onto the wire and keeps the
// connection alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// close shuts the underlying connection down exactly once. The send
// channel is never closed; it is abandoned once both pumps have exited,
// so a racing SendTo can never hit a closed channel.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}
