package mocks

import (
	"fmt"

	"github.com/seiwell/gomokuhub/internal/dependencies/ident"
)

// MockIdent is a mock implementation of ident.Generator for testing
type MockIdent struct {
	// IDs is a queue of ids to return from NewID
	IDs   []string
	index int
}

// Ensure MockIdent implements Generator
var _ ident.Generator = (*MockIdent)(nil)

// NewMockIdent creates a new MockIdent
func NewMockIdent() *MockIdent {
	return &MockIdent{}
}

// QueueID appends ids to the queue of results
func (g *MockIdent) QueueID(ids ...string) {
	g.IDs = append(g.IDs, ids...)
}

// NewID returns the next queued id, or a deterministic fallback if the
// queue is exhausted
func (g *MockIdent) NewID() string {
	if g.index >= len(g.IDs) {
		g.index++
		return fmt.Sprintf("mock-id-%d", g.index)
	}
	id := g.IDs[g.index]
	g.index++
	return id
}
