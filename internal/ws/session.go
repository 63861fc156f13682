package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/seiwell/gomokuhub/internal/model"
	"github.com/seiwell/gomokuhub/internal/registry"
	"github.com/seiwell/gomokuhub/internal/services/room"
)

// Coordinator dispatches inbound messages to the room state machine
// and pushes the resulting state to the connections that need it. It
// holds no per-connection state of its own beyond the handle passed to
// each call.
type Coordinator struct {
	rooms    *room.Controller
	registry *registry.Registry
	hub      *Hub
	logger   *slog.Logger
}

// Ensure Coordinator implements the hub's handler interface
var _ MessageHandler = (*Coordinator)(nil)

// NewCoordinator creates a session Coordinator
func NewCoordinator(rooms *room.Controller, reg *registry.Registry, hub *Hub, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		rooms:    rooms,
		registry: reg,
		hub:      hub,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// HandleConnect sends the new connection a snapshot of all rooms
func (co *Coordinator) HandleConnect(ctx context.Context, conn registry.ConnID) {
	rooms, err := co.rooms.ListRooms(ctx)
	if err != nil {
		co.logger.Error("listing rooms for snapshot", slog.String("error", err.Error()))
		return
	}
	co.sendTo(conn, MsgRoomsList, rooms)
}

// HandleMessage parses one inbound envelope and dispatches it by type.
// Malformed messages are logged and ignored; they never terminate the
// connection.
func (co *Coordinator) HandleMessage(ctx context.Context, conn registry.ConnID, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		co.logger.Warn("malformed message",
			slog.Uint64("conn_id", uint64(conn)),
			slog.String("error", err.Error()))
		return
	}

	switch env.Type {
	case MsgRegister:
		co.handleRegister(conn, env.Data)
	case MsgGetRooms:
		co.broadcastRoomList(ctx)
	case MsgCreateRoom:
		co.handleCreateRoom(ctx, conn, env.Data)
	case MsgJoinRoom:
		co.handleJoinRoom(ctx, conn, env.Data)
	case MsgLeaveRoom:
		co.handleLeaveRoom(ctx, conn, env.Data)
	case MsgSetPlayerStatus:
		co.handleSetPlayerStatus(ctx, conn, env.Data)
	case MsgStartGame:
		co.handleStartGame(ctx, conn, env.Data)
	case MsgPlaceStone:
		co.handlePlaceStone(ctx, conn, env.Data)
	case MsgEndGame:
		co.handleEndGame(ctx, conn, env.Data)
	default:
		co.logger.Warn("unknown message type",
			slog.Uint64("conn_id", uint64(conn)),
			slog.String("type", env.Type))
	}
}

// HandleDisconnect tears the connection down: the identity is
// unregistered, the user leaves every room they were in (disbanding
// rooms left empty), and remaining connections get a fresh room list.
func (co *Coordinator) HandleDisconnect(ctx context.Context, conn registry.ConnID) {
	userID, ok := co.registry.Unregister(conn)
	if ok {
		if _, err := co.rooms.RemoveFromAllRooms(ctx, userID); err != nil {
			co.logger.Error("disconnect cleanup",
				slog.String("user_id", string(userID)),
				slog.String("error", err.Error()))
		}
		co.logger.Info("connection unregistered",
			slog.Uint64("conn_id", uint64(conn)),
			slog.String("user_id", string(userID)))
	}
	co.broadcastRoomList(ctx)
}

func (co *Coordinator) handleRegister(conn registry.ConnID, data json.RawMessage) {
	var p RegisterPayload
	if !co.parse(conn, data, &p) {
		return
	}
	co.registry.Register(conn, p.UserID, p.UserName)
}

func (co *Coordinator) handleCreateRoom(ctx context.Context, conn registry.ConnID, data json.RawMessage) {
	var p CreateRoomPayload
	if !co.parse(conn, data, &p) {
		return
	}

	created, err := co.rooms.CreateRoom(ctx, p.RoomName, p.CreatorID, p.CreatorName)
	if err != nil {
		co.logger.Error("creating room", slog.String("error", err.Error()))
		return
	}

	co.broadcastRoomList(ctx)
	co.sendTo(conn, MsgRoomEntered, created)
}

func (co *Coordinator) handleJoinRoom(ctx context.Context, conn registry.ConnID, data json.RawMessage) {
	var p JoinRoomPayload
	if !co.parse(conn, data, &p) {
		return
	}

	joined, err := co.rooms.JoinRoom(ctx, p.RoomID, p.PlayerID, p.PlayerName)
	switch {
	case errors.Is(err, model.ErrAlreadyJoined):
		// Idempotent rejoin: the current room comes back unchanged
	case err != nil:
		co.logger.Info("join rejected",
			slog.String("room_id", string(p.RoomID)),
			slog.String("player_id", string(p.PlayerID)),
			slog.String("reason", err.Error()))
	}

	co.broadcastRoomList(ctx)
	co.sendTo(conn, MsgRoomEntered, joined)
}

func (co *Coordinator) handleLeaveRoom(ctx context.Context, conn registry.ConnID, data json.RawMessage) {
	var p LeaveRoomPayload
	if !co.parse(conn, data, &p) {
		return
	}

	remaining, err := co.rooms.LeaveRoom(ctx, p.RoomID, p.PlayerID)

	outcome := "left room"
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		outcome = "room not found"
	case err != nil:
		co.logger.Error("leaving room", slog.String("error", err.Error()))
		return
	case remaining == nil:
		outcome = "room disbanded"
	}

	co.broadcastRoomList(ctx)
	co.sendTo(conn, MsgRoomLeft, RoomLeftData{Message: outcome, Room: remaining})
}

func (co *Coordinator) handleSetPlayerStatus(ctx context.Context, conn registry.ConnID, data json.RawMessage) {
	var p SetPlayerStatusPayload
	if !co.parse(conn, data, &p) {
		return
	}

	if err := co.rooms.SetPlayerStatus(ctx, p.RoomID, p.PlayerID, p.Status); err != nil {
		co.logger.Info("set player status failed",
			slog.String("room_id", string(p.RoomID)),
			slog.String("reason", err.Error()))
		return
	}
	co.notifyRoomPlayers(ctx, p.RoomID)
}

func (co *Coordinator) handleStartGame(ctx context.Context, conn registry.ConnID, data json.RawMessage) {
	var p StartGamePayload
	if !co.parse(conn, data, &p) {
		return
	}

	if _, err := co.rooms.StartGame(ctx, p.RoomID); err != nil {
		co.logger.Info("start game failed",
			slog.String("room_id", string(p.RoomID)),
			slog.String("reason", err.Error()))
		return
	}
	co.notifyRoomPlayers(ctx, p.RoomID)
}

// handlePlaceStone forwards a move to the state machine, which owns
// the turn-ownership check. A rejected submission is dropped without
// notifying anyone.
func (co *Coordinator) handlePlaceStone(ctx context.Context, conn registry.ConnID, data json.RawMessage) {
	var p PlaceStonePayload
	if !co.parse(conn, data, &p) {
		return
	}

	if _, err := co.rooms.PlaceStone(ctx, p.RoomID, p.BoardData, p.Role); err != nil {
		if errors.Is(err, model.ErrNotYourTurn) {
			co.logger.Info("move out of turn",
				slog.String("room_id", string(p.RoomID)),
				slog.Int("role", int(p.Role)))
			return
		}
		co.logger.Info("place stone rejected",
			slog.String("room_id", string(p.RoomID)),
			slog.String("reason", err.Error()))
		return
	}
	co.notifyRoomPlayers(ctx, p.RoomID)
}

// handleEndGame records the winner, tells every player in the room,
// then resets the game for the next round and pushes the fresh state.
func (co *Coordinator) handleEndGame(ctx context.Context, conn registry.ConnID, data json.RawMessage) {
	var p EndGamePayload
	if !co.parse(conn, data, &p) {
		return
	}

	if err := co.rooms.SetWinner(ctx, p.RoomID, p.Winner); err != nil {
		co.logger.Error("setting winner", slog.String("error", err.Error()))
		return
	}

	co.notifyWinner(ctx, p.RoomID, p.Winner)

	if _, err := co.rooms.ResetGame(ctx, p.RoomID); err != nil {
		co.logger.Info("reset game failed",
			slog.String("room_id", string(p.RoomID)),
			slog.String("reason", err.Error()))
		return
	}
	co.notifyRoomPlayers(ctx, p.RoomID)
}

// parse unmarshals a payload, logging and rejecting malformed data
func (co *Coordinator) parse(conn registry.ConnID, data json.RawMessage, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		co.logger.Warn("malformed payload",
			slog.Uint64("conn_id", uint64(conn)),
			slog.String("error", err.Error()))
		return false
	}
	return true
}

// sendTo serializes and delivers a message to one connection
func (co *Coordinator) sendTo(conn registry.ConnID, msgType string, data any) {
	message, err := marshalMessage(msgType, data)
	if err != nil {
		co.logger.Error("marshaling message",
			slog.String("type", msgType),
			slog.String("error", err.Error()))
		return
	}
	co.hub.SendTo(conn, message)
}

// broadcastRoomList pushes the full room list to every registered
// connection
func (co *Coordinator) broadcastRoomList(ctx context.Context) {
	rooms, err := co.rooms.ListRooms(ctx)
	if err != nil {
		co.logger.Error("listing rooms", slog.String("error", err.Error()))
		return
	}

	message, err := marshalMessage(MsgRoomList, rooms)
	if err != nil {
		co.logger.Error("marshaling room list", slog.String("error", err.Error()))
		return
	}

	for _, conn := range co.registry.Conns() {
		co.hub.SendTo(conn, message)
	}
}

// notifyRoomPlayers pushes the room's current state to every player in
// it that has a live connection
func (co *Coordinator) notifyRoomPlayers(ctx context.Context, roomID model.RoomID) {
	current, err := co.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return
	}

	message, err := marshalMessage(MsgRoomPlayers, current)
	if err != nil {
		co.logger.Error("marshaling room state", slog.String("error", err.Error()))
		return
	}
	co.sendToRoom(current, message)
}

// notifyWinner tells every player in a room who won
func (co *Coordinator) notifyWinner(ctx context.Context, roomID model.RoomID, winner model.UserID) {
	current, err := co.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return
	}

	message, err := marshalMessage(MsgWinnerExit, winner)
	if err != nil {
		co.logger.Error("marshaling winner", slog.String("error", err.Error()))
		return
	}
	co.sendToRoom(current, message)
}

// sendToRoom delivers a message to each player in the room with a
// registered connection
func (co *Coordinator) sendToRoom(r *model.Room, message []byte) {
	for _, player := range r.Players {
		if conn, ok := co.registry.ConnFor(player.ID); ok {
			co.hub.SendTo(conn, message)
		}
	}
}
