// Package room implements the room/game state machine: membership
// changes, status transitions, turn alternation, win recording and
// reset handling.
package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/seiwell/gomokuhub/internal/dependencies/clock"
	"github.com/seiwell/gomokuhub/internal/dependencies/ident"
	"github.com/seiwell/gomokuhub/internal/model"
	"github.com/seiwell/gomokuhub/internal/storage"
)

// Controller manages the room state machine. Every operation is a
// load-mutate-save cycle over the store, serialized by a single mutex
// so that concurrent connection handlers never interleave mutations.
type Controller struct {
	store  storage.RoomStore
	clock  clock.Clock
	ident  ident.Generator
	logger *slog.Logger

	// mu makes each operation a single-writer critical section
	mu sync.Mutex
}

// NewController creates a new room Controller
func NewController(
	store storage.RoomStore,
	clock clock.Clock,
	ident ident.Generator,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		store:  store,
		clock:  clock,
		ident:  ident,
		logger: logger.With(slog.String("component", "rooms")),
	}
}

// CreateRoom creates a new room with the creator as its first player
func (c *Controller) CreateRoom(ctx context.Context, name string, creatorID model.UserID, creatorName string) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	room := &model.Room{
		ID:   model.RoomID(c.ident.NewID()),
		Name: name,
		Players: []model.Player{
			{ID: creatorID, Name: creatorName, Status: model.StatusIdle},
		},
		Game:      model.NewGame(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("creator_id", string(creatorID)))
	return room, nil
}

// GetRoom retrieves a room by id
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.GetRoom(ctx, id)
}

// ListRooms returns all rooms in creation order
func (c *Controller) ListRooms(ctx context.Context) ([]*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.ListRooms(ctx)
}

// JoinRoom adds a player to a room. Joining a room the player is
// already in is idempotent: the current room is returned alongside
// ErrAlreadyJoined. The membership check runs before the capacity
// check so a player already in a full room is not rejected.
func (c *Controller) JoinRoom(ctx context.Context, id model.RoomID, playerID model.UserID, playerName string) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.HasPlayer(playerID) {
		return room, model.ErrAlreadyJoined
	}

	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	room.Players = append(room.Players, model.Player{
		ID:     playerID,
		Name:   playerName,
		Status: model.StatusIdle,
	})
	room.UpdatedAt = c.clock.Now()

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("player joined",
		slog.String("room_id", string(id)),
		slog.String("player_id", string(playerID)))
	return room, nil
}

// LeaveRoom removes a player from a room. Removing an absent player is
// a no-op, not an error. Any in-progress game cannot continue, so the
// game status reverts to NotStarted and remaining Playing players drop
// back to Idle; recorded Ready status is preserved. If the room becomes
// empty it is deleted and a nil room is returned.
func (c *Controller) LeaveRoom(ctx context.Context, id model.RoomID, playerID model.UserID) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.leaveRoom(ctx, id, playerID)
}

// leaveRoom is LeaveRoom without the lock, for use inside other
// operations already holding it
func (c *Controller) leaveRoom(ctx context.Context, id model.RoomID, playerID model.UserID) (*model.Room, error) {
	room, err := c.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	room.RemovePlayer(playerID)
	room.Game.Status = model.GameNotStarted
	for i := range room.Players {
		if room.Players[i].Status == model.StatusPlaying {
			room.Players[i].Status = model.StatusIdle
		}
	}

	if len(room.Players) == 0 {
		if err := c.store.DeleteRoom(ctx, id); err != nil {
			return nil, err
		}
		c.logger.Info("room disbanded", slog.String("room_id", string(id)))
		return nil, nil
	}

	room.UpdatedAt = c.clock.Now()
	if err := c.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("player left",
		slog.String("room_id", string(id)),
		slog.String("player_id", string(playerID)))
	return room, nil
}

// SetPlayerStatus sets the status of a player in a room. A missing
// player is a silent no-op.
func (c *Controller) SetPlayerStatus(ctx context.Context, id model.RoomID, playerID model.UserID, status model.PlayerStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.store.GetRoom(ctx, id)
	if err != nil {
		return err
	}

	player := room.GetPlayer(playerID)
	if player == nil {
		return nil
	}

	player.Status = status
	room.UpdatedAt = c.clock.Now()
	return c.store.SaveRoom(ctx, room)
}

// StartGame moves the game to InProgress and forces every player to
// Playing regardless of prior readiness. Player-count validation is a
// caller concern.
func (c *Controller) StartGame(ctx context.Context, id model.RoomID) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	room.Game.Status = model.GameInProgress
	for i := range room.Players {
		room.Players[i].Status = model.StatusPlaying
	}
	room.UpdatedAt = c.clock.Now()

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("game started", slog.String("room_id", string(id)))
	return room, nil
}

// PlaceStone replaces the board wholesale and flips the turn to the
// other slot. The move is accepted only while the game is in progress
// and only from the slot whose turn it is; checking the turn under the
// same lock as the flip keeps two same-role submissions from both
// passing. The submitted board must be a valid grid.
func (c *Controller) PlaceStone(ctx context.Context, id model.RoomID, board model.Board, role model.TurnSlot) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if room.Game.Status != model.GameInProgress {
		return nil, model.ErrGameNotStarted
	}

	if room.Game.CurrentTurn != role {
		return nil, model.ErrNotYourTurn
	}

	if err := board.Validate(); err != nil {
		return nil, err
	}

	room.Game.Board = board
	room.Game.CurrentTurn = room.Game.CurrentTurn.Other()
	room.UpdatedAt = c.clock.Now()

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// SetWinner records the winner of the current game. A missing room is
// a silent no-op.
func (c *Controller) SetWinner(ctx context.Context, id model.RoomID, winner model.UserID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.store.GetRoom(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrRoomNotFound) {
			return nil
		}
		return err
	}

	room.Game.Winner = &winner
	room.UpdatedAt = c.clock.Now()
	return c.store.SaveRoom(ctx, room)
}

// ResetGame reinitializes the game for the next round: empty board,
// first slot to move, winner cleared, game not started. Every player
// is set to Ready rather than Idle, the baseline for the next round.
func (c *Controller) ResetGame(ctx context.Context, id model.RoomID) (*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.store.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	room.Game = model.NewGame()
	for i := range room.Players {
		room.Players[i].Status = model.StatusReady
	}
	room.UpdatedAt = c.clock.Now()

	if err := c.store.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("game reset", slog.String("room_id", string(id)))
	return room, nil
}

// RemoveFromAllRooms removes a user from every room they are in,
// applying the usual leave semantics (including disbanding rooms left
// empty). It returns the rooms that still exist after the removal.
// Used by the session layer when a connection is torn down.
func (c *Controller) RemoveFromAllRooms(ctx context.Context, userID model.UserID) ([]*model.Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rooms, err := c.store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	var updated []*model.Room
	for _, room := range rooms {
		if !room.HasPlayer(userID) {
			continue
		}
		remaining, err := c.leaveRoom(ctx, room.ID, userID)
		if err != nil {
			return nil, err
		}
		if remaining != nil {
			updated = append(updated, remaining)
		}
	}
	return updated, nil
}
