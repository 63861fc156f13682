package ident

import "github.com/google/uuid"

// Generator produces unique identifiers and can be mocked for testing
type Generator interface {
	// NewID returns a new opaque unique identifier
	NewID() string
}

// UUIDGenerator implements Generator using random UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new UUIDv4 string
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
