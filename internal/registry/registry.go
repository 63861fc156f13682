// Package registry maps live connections to user identities.
//
// Connections are identified by opaque ConnID handles issued by the
// transport layer, keeping this package independent of the websocket
// library's object identity semantics.
package registry

import (
	"log/slog"
	"sync"

	"github.com/seiwell/gomokuhub/internal/model"
)

// ConnID is an opaque handle for a live connection
type ConnID uint64

// Identity is the global binding of a connection to a user
type Identity struct {
	UserID   model.UserID
	UserName string
}

// Registry holds the bidirectional connection <-> identity mapping.
// A connection maps to exactly one identity for its lifetime; a user id
// maps to at most one live connection, last registration wins.
type Registry struct {
	mu         sync.RWMutex
	identities map[ConnID]Identity
	conns      map[model.UserID]ConnID
	logger     *slog.Logger
}

// New creates an empty Registry
func New(logger *slog.Logger) *Registry {
	return &Registry{
		identities: make(map[ConnID]Identity),
		conns:      make(map[model.UserID]ConnID),
		logger:     logger.With(slog.String("component", "registry")),
	}
}

// Register binds a connection to an identity. Registering an already
// bound user id rebinds the user to the new connection; the previous
// connection keeps its forward mapping so its own teardown still runs.
func (r *Registry) Register(conn ConnID, userID model.UserID, userName string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.conns[userID]; ok && prev != conn {
		r.logger.Info("user rebound to new connection",
			slog.String("user_id", string(userID)),
			slog.Uint64("old_conn", uint64(prev)),
			slog.Uint64("new_conn", uint64(conn)))
	}

	r.identities[conn] = Identity{UserID: userID, UserName: userName}
	r.conns[userID] = conn
}

// Unregister removes the mappings for a connection and returns the user
// id that was bound, or false if the connection was never registered.
// The reverse mapping is only removed if it still points at this
// connection, so a stale connection's teardown cannot sever a fresh
// registration of the same user.
func (r *Registry) Unregister(conn ConnID) (model.UserID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.identities[conn]
	if !ok {
		return "", false
	}

	delete(r.identities, conn)
	if r.conns[id.UserID] == conn {
		delete(r.conns, id.UserID)
	}
	return id.UserID, true
}

// ConnFor returns the live connection for a user id
func (r *Registry) ConnFor(userID model.UserID) (ConnID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[userID]
	return conn, ok
}

// IdentityFor returns the identity bound to a connection
func (r *Registry) IdentityFor(conn ConnID) (Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.identities[conn]
	return id, ok
}

// Conns returns the handles of all registered connections
func (r *Registry) Conns() []ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]ConnID, 0, len(r.identities))
	for conn := range r.identities {
		conns = append(conns, conn)
	}
	return conns
}
