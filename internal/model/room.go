package model

import "time"

// RoomID uniquely identifies a room for its lifetime
type RoomID string

// UserID identifies a user across connections and rooms
type UserID string

// PlayerStatus tracks a player's readiness within a room.
// Values are part of the wire format and must stay stable.
type PlayerStatus int

const (
	StatusIdle    PlayerStatus = 0 // joined, not ready
	StatusReady   PlayerStatus = 1 // ready for the next game
	StatusPlaying PlayerStatus = 2 // in an active game
)

// GameStatus is the lifecycle state of a room's game
type GameStatus int

const (
	GameNotStarted GameStatus = 0
	GameInProgress GameStatus = 1
)

// TurnSlot is one of the two turn-order positions in a game
type TurnSlot int

const (
	SlotFirst  TurnSlot = 0
	SlotSecond TurnSlot = 1
)

// Other returns the opposing turn slot
func (s TurnSlot) Other() TurnSlot {
	if s == SlotFirst {
		return SlotSecond
	}
	return SlotFirst
}

// MaxPlayers is the room capacity
const MaxPlayers = 2

// Player is a room-scoped participant record
type Player struct {
	ID     UserID       `json:"id"`
	Name   string       `json:"name"`
	Status PlayerStatus `json:"status"`
}

// Game is the turn-based board state embedded in a room.
// Exactly one exists per room; it is reset, never replaced.
type Game struct {
	CurrentTurn TurnSlot   `json:"current_turn"`
	Board       Board      `json:"board_data"`
	Winner      *UserID    `json:"winner"`
	Status      GameStatus `json:"status"`
}

// NewGame returns a game in its initial state
func NewGame() Game {
	return Game{
		CurrentTurn: SlotFirst,
		Board:       NewBoard(),
		Winner:      nil,
		Status:      GameNotStarted,
	}
}

// Room is a matchmaking unit holding up to two players and one game.
// Player order is join order; the first player occupies turn slot 0.
type Room struct {
	ID        RoomID    `json:"id"`
	Name      string    `json:"name"`
	Players   []Player  `json:"players"`
	Game      Game      `json:"game"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the room, sharing no mutable state with
// the original
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Players = append([]Player(nil), r.Players...)
	clone.Game.Board = r.Game.Board.Clone()
	if r.Game.Winner != nil {
		winner := *r.Game.Winner
		clone.Game.Winner = &winner
	}
	return &clone
}

// GetPlayer returns the player with the given id, or nil if not present
func (r *Room) GetPlayer(id UserID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// HasPlayer reports whether the given user is in the room
func (r *Room) HasPlayer(id UserID) bool {
	return r.GetPlayer(id) != nil
}

// IsFull reports whether the room is at capacity
func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayers
}

// RemovePlayer removes the player with the given id, preserving the
// order of the remaining players. Returns false if the player was absent.
func (r *Room) RemovePlayer(id UserID) bool {
	for i := range r.Players {
		if r.Players[i].ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return true
		}
	}
	return false
}
