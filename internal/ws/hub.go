// Package ws is the websocket transport and session layer: it upgrades
// connections, runs the per-connection read/write pumps, and dispatches
// structured messages to the room state machine.
package ws

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/seiwell/gomokuhub/internal/registry"
)

// Sender delivers an outbound message to one connection. Implemented
// by *Client; tests substitute a recording fake.
type Sender interface {
	Send(message []byte)
}

// Hub issues connection handles and tracks the live connections so
// outbound messages can be routed by handle.
type Hub struct {
	mu      sync.RWMutex
	conns   map[registry.ConnID]Sender
	nextID  atomic.Uint64
	logger  *slog.Logger
	handler MessageHandler
}

// MessageHandler receives connection lifecycle and message events.
// Implemented by the session Coordinator.
type MessageHandler interface {
	HandleConnect(ctx context.Context, conn registry.ConnID)
	HandleMessage(ctx context.Context, conn registry.ConnID, raw []byte)
	HandleDisconnect(ctx context.Context, conn registry.ConnID)
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		conns:  make(map[registry.ConnID]Sender),
		logger: logger.With(slog.String("component", "ws")),
	}
}

// SetHandler wires the message handler. Must be called before any
// connection is served.
func (h *Hub) SetHandler(handler MessageHandler) {
	h.handler = handler
}

// NextConnID issues a fresh opaque connection handle
func (h *Hub) NextConnID() registry.ConnID {
	return registry.ConnID(h.nextID.Add(1))
}

// Attach registers a live connection under its handle
func (h *Hub) Attach(id registry.ConnID, sender Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = sender
}

// Detach removes a connection. Safe to call more than once.
func (h *Hub) Detach(id registry.ConnID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

// SendTo delivers a message to one connection. Messages to unknown
// handles are dropped; a departed peer is not an error.
func (h *Hub) SendTo(id registry.ConnID, message []byte) {
	h.mu.RLock()
	sender, ok := h.conns[id]
	h.mu.RUnlock()
	if ok {
		sender.Send(message)
	}
}

// ClientCount returns the number of attached connections
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
