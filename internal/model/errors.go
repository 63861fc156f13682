package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyJoined = errors.New("player is already in room")

	// Game errors
	ErrGameNotStarted = errors.New("game has not started")
	ErrNotYourTurn    = errors.New("not this player's turn")
	ErrInvalidBoard   = errors.New("invalid board data")
)
