package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/seiwell/gomokuhub/internal/dependencies/mocks"
	"github.com/seiwell/gomokuhub/internal/model"
	"github.com/seiwell/gomokuhub/internal/storage/memory"
	"github.com/seiwell/gomokuhub/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	ident      *mocks.MockIdent
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ident = mocks.NewMockIdent()
	s.controller = NewController(s.storage, s.clock, s.ident, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) createRoom(name string, creatorID model.UserID, creatorName string) *model.Room {
	room, err := s.controller.CreateRoom(s.ctx, name, creatorID, creatorName)
	s.Require().NoError(err)
	return room
}

// CreateRoom tests

func (s *ControllerSuite) TestCreateRoomSucceeds() {
	s.ident.QueueID("room-a")

	room := s.createRoom("A", "u1", "Alice")

	s.Equal(model.RoomID("room-a"), room.ID)
	s.Equal("A", room.Name)
	s.Require().Len(room.Players, 1)
	s.Equal(model.UserID("u1"), room.Players[0].ID)
	s.Equal("Alice", room.Players[0].Name)
	s.Equal(model.StatusIdle, room.Players[0].Status)
	s.Equal(model.GameNotStarted, room.Game.Status)
	s.Equal(model.SlotFirst, room.Game.CurrentTurn)
	s.Nil(room.Game.Winner)
	s.Equal(s.clock.Now(), room.CreatedAt)
}

func (s *ControllerSuite) TestCreateRoomIsPersisted() {
	room := s.createRoom("A", "u1", "Alice")

	retrieved, err := s.controller.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(room.ID, retrieved.ID)
}

func (s *ControllerSuite) TestListRoomsCreationOrder() {
	first := s.createRoom("A", "u1", "Alice")
	second := s.createRoom("B", "u2", "Bob")

	rooms, err := s.controller.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(first.ID, rooms[0].ID)
	s.Equal(second.ID, rooms[1].ID)
}

// JoinRoom tests

func (s *ControllerSuite) TestJoinRoomSucceeds() {
	room := s.createRoom("A", "u1", "Alice")

	joined, err := s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")
	s.Require().NoError(err)
	s.Require().Len(joined.Players, 2)
	s.Equal(model.UserID("u1"), joined.Players[0].ID)
	s.Equal(model.UserID("u2"), joined.Players[1].ID)
	s.Equal(model.StatusIdle, joined.Players[1].Status)
}

func (s *ControllerSuite) TestJoinRoomNotFound() {
	_, err := s.controller.JoinRoom(s.ctx, "missing", "u2", "Bob")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestJoinRoomIdempotentForMember() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")

	rejoined, err := s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")
	s.ErrorIs(err, model.ErrAlreadyJoined)
	s.Require().NotNil(rejoined)
	s.Len(rejoined.Players, 2)
}

func (s *ControllerSuite) TestJoinRoomFull() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")

	_, err := s.controller.JoinRoom(s.ctx, room.ID, "u3", "Carl")
	s.ErrorIs(err, model.ErrRoomFull)

	unchanged, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Len(unchanged.Players, 2)
}

// Membership check runs before capacity: a member of a full room can
// rejoin idempotently instead of being rejected as full
func (s *ControllerSuite) TestMemberOfFullRoomCanRejoin() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")

	rejoined, err := s.controller.JoinRoom(s.ctx, room.ID, "u1", "Alice")
	s.ErrorIs(err, model.ErrAlreadyJoined)
	s.Require().NotNil(rejoined)
	s.Len(rejoined.Players, 2)
}

func (s *ControllerSuite) TestCapacityNeverExceeded() {
	room := s.createRoom("A", "u1", "Alice")
	for _, id := range []model.UserID{"u2", "u3", "u4", "u2"} {
		_, _ = s.controller.JoinRoom(s.ctx, room.ID, id, "X")
		current, _ := s.controller.GetRoom(s.ctx, room.ID)
		s.LessOrEqual(len(current.Players), model.MaxPlayers)
	}
}

// LeaveRoom tests

func (s *ControllerSuite) TestLeaveRoomKeepsRemainingPlayer() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")

	remaining, err := s.controller.LeaveRoom(s.ctx, room.ID, "u1")
	s.Require().NoError(err)
	s.Require().NotNil(remaining)
	s.Require().Len(remaining.Players, 1)
	s.Equal(model.UserID("u2"), remaining.Players[0].ID)
}

func (s *ControllerSuite) TestLeaveLastPlayerDisbandsRoom() {
	room := s.createRoom("A", "u1", "Alice")

	remaining, err := s.controller.LeaveRoom(s.ctx, room.ID, "u1")
	s.Require().NoError(err)
	s.Nil(remaining)

	rooms, _ := s.controller.ListRooms(s.ctx)
	s.Empty(rooms)
}

func (s *ControllerSuite) TestLeaveStopsGameAndClearsPlaying() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")
	_, _ = s.controller.StartGame(s.ctx, room.ID)

	remaining, err := s.controller.LeaveRoom(s.ctx, room.ID, "u1")
	s.Require().NoError(err)
	s.Equal(model.GameNotStarted, remaining.Game.Status)
	s.Equal(model.StatusIdle, remaining.Players[0].Status)
}

func (s *ControllerSuite) TestLeavePreservesReadyStatus() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")
	_ = s.controller.SetPlayerStatus(s.ctx, room.ID, "u2", model.StatusReady)

	remaining, err := s.controller.LeaveRoom(s.ctx, room.ID, "u1")
	s.Require().NoError(err)
	s.Equal(model.StatusReady, remaining.Players[0].Status)
}

func (s *ControllerSuite) TestLeaveAbsentPlayerIsNoop() {
	room := s.createRoom("A", "u1", "Alice")

	remaining, err := s.controller.LeaveRoom(s.ctx, room.ID, "u9")
	s.Require().NoError(err)
	s.Require().NotNil(remaining)
	s.Len(remaining.Players, 1)
}

func (s *ControllerSuite) TestLeaveRoomNotFound() {
	_, err := s.controller.LeaveRoom(s.ctx, "missing", "u1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// SetPlayerStatus tests

func (s *ControllerSuite) TestSetPlayerStatus() {
	room := s.createRoom("A", "u1", "Alice")

	err := s.controller.SetPlayerStatus(s.ctx, room.ID, "u1", model.StatusReady)
	s.Require().NoError(err)

	updated, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Equal(model.StatusReady, updated.Players[0].Status)
}

func (s *ControllerSuite) TestSetPlayerStatusAbsentPlayerIsNoop() {
	room := s.createRoom("A", "u1", "Alice")

	err := s.controller.SetPlayerStatus(s.ctx, room.ID, "u9", model.StatusReady)
	s.Require().NoError(err)

	updated, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Equal(model.StatusIdle, updated.Players[0].Status)
}

func (s *ControllerSuite) TestSetPlayerStatusRoomNotFound() {
	err := s.controller.SetPlayerStatus(s.ctx, "missing", "u1", model.StatusReady)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// StartGame tests

func (s *ControllerSuite) TestStartGameForcesEveryoneToPlaying() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")
	_ = s.controller.SetPlayerStatus(s.ctx, room.ID, "u2", model.StatusReady)

	started, err := s.controller.StartGame(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.GameInProgress, started.Game.Status)
	for _, p := range started.Players {
		s.Equal(model.StatusPlaying, p.Status)
	}
}

func (s *ControllerSuite) TestStartGameWithOnePlayerIsAllowed() {
	room := s.createRoom("A", "u1", "Alice")

	started, err := s.controller.StartGame(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.GameInProgress, started.Game.Status)
}

// PlaceStone tests

func (s *ControllerSuite) boardWithStone(row, col, value int) model.Board {
	board := model.NewBoard()
	board[row][col] = value
	return board
}

func (s *ControllerSuite) TestPlaceStoneFlipsTurnOnce() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.StartGame(s.ctx, room.ID)

	updated, err := s.controller.PlaceStone(s.ctx, room.ID, s.boardWithStone(7, 7, 1), model.SlotFirst)
	s.Require().NoError(err)
	s.Equal(model.SlotSecond, updated.Game.CurrentTurn)
	s.Equal(1, updated.Game.Board[7][7])

	updated, err = s.controller.PlaceStone(s.ctx, room.ID, s.boardWithStone(7, 8, 2), model.SlotSecond)
	s.Require().NoError(err)
	s.Equal(model.SlotFirst, updated.Game.CurrentTurn)
}

func (s *ControllerSuite) TestPlaceStoneRejectsWrongTurn() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.StartGame(s.ctx, room.ID)

	_, err := s.controller.PlaceStone(s.ctx, room.ID, s.boardWithStone(7, 7, 1), model.SlotSecond)
	s.ErrorIs(err, model.ErrNotYourTurn)

	unchanged, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Equal(model.SlotFirst, unchanged.Game.CurrentTurn)
	s.Zero(unchanged.Game.Board[7][7])
}

// Two submissions for the same slot can only ever flip the turn once,
// no matter how they interleave: the second sees the flipped turn and
// is rejected.
func (s *ControllerSuite) TestPlaceStoneSameRoleTwiceRejectsSecond() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.StartGame(s.ctx, room.ID)

	_, err := s.controller.PlaceStone(s.ctx, room.ID, s.boardWithStone(7, 7, 1), model.SlotFirst)
	s.Require().NoError(err)

	_, err = s.controller.PlaceStone(s.ctx, room.ID, s.boardWithStone(0, 0, 1), model.SlotFirst)
	s.ErrorIs(err, model.ErrNotYourTurn)

	current, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Equal(model.SlotSecond, current.Game.CurrentTurn)
	s.Equal(1, current.Game.Board[7][7])
	s.Zero(current.Game.Board[0][0])
}

func (s *ControllerSuite) TestPlaceStoneRejectedBeforeStart() {
	room := s.createRoom("A", "u1", "Alice")

	_, err := s.controller.PlaceStone(s.ctx, room.ID, s.boardWithStone(7, 7, 1), model.SlotFirst)
	s.ErrorIs(err, model.ErrGameNotStarted)

	unchanged, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Equal(model.SlotFirst, unchanged.Game.CurrentTurn)
	s.Zero(unchanged.Game.Board[7][7])
}

func (s *ControllerSuite) TestPlaceStoneRejectsMalformedBoard() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.StartGame(s.ctx, room.ID)

	_, err := s.controller.PlaceStone(s.ctx, room.ID, model.Board{{1, 2, 3}}, model.SlotFirst)
	s.ErrorIs(err, model.ErrInvalidBoard)

	unchanged, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Equal(model.SlotFirst, unchanged.Game.CurrentTurn)
	s.Len(unchanged.Game.Board, model.BoardSize)
}

// SetWinner / ResetGame tests

func (s *ControllerSuite) TestSetWinner() {
	room := s.createRoom("A", "u1", "Alice")

	err := s.controller.SetWinner(s.ctx, room.ID, "u1")
	s.Require().NoError(err)

	updated, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Require().NotNil(updated.Game.Winner)
	s.Equal(model.UserID("u1"), *updated.Game.Winner)
}

func (s *ControllerSuite) TestSetWinnerMissingRoomIsNoop() {
	s.NoError(s.controller.SetWinner(s.ctx, "missing", "u1"))
}

func (s *ControllerSuite) TestResetGame() {
	room := s.createRoom("A", "u1", "Alice")
	_, _ = s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")
	_, _ = s.controller.StartGame(s.ctx, room.ID)
	_, _ = s.controller.PlaceStone(s.ctx, room.ID, s.boardWithStone(7, 7, 1), model.SlotFirst)
	_ = s.controller.SetWinner(s.ctx, room.ID, "u1")

	reset, err := s.controller.ResetGame(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Equal(model.GameNotStarted, reset.Game.Status)
	s.Equal(model.SlotFirst, reset.Game.CurrentTurn)
	s.Nil(reset.Game.Winner)
	s.Require().Len(reset.Game.Board, model.BoardSize)
	for _, row := range reset.Game.Board {
		s.Require().Len(row, model.BoardSize)
		for _, cell := range row {
			s.Zero(cell)
		}
	}
	for _, p := range reset.Players {
		s.Equal(model.StatusReady, p.Status)
	}
}

// RemoveFromAllRooms tests

func (s *ControllerSuite) TestRemoveFromAllRoomsDisbandsSoloRooms() {
	solo := s.createRoom("A", "u1", "Alice")
	shared := s.createRoom("B", "u2", "Bob")
	_, _ = s.controller.JoinRoom(s.ctx, shared.ID, "u1", "Alice")

	updated, err := s.controller.RemoveFromAllRooms(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(updated, 1)
	s.Equal(shared.ID, updated[0].ID)
	s.Len(updated[0].Players, 1)

	rooms, _ := s.controller.ListRooms(s.ctx)
	s.Require().Len(rooms, 1)
	s.Equal(shared.ID, rooms[0].ID)

	_, err = s.controller.GetRoom(s.ctx, solo.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *ControllerSuite) TestRemoveFromAllRoomsForUnknownUser() {
	s.createRoom("A", "u1", "Alice")

	updated, err := s.controller.RemoveFromAllRooms(s.ctx, "stranger")
	s.Require().NoError(err)
	s.Empty(updated)

	rooms, _ := s.controller.ListRooms(s.ctx)
	s.Len(rooms, 1)
}

// Full scenario from the matchmaking flow: create, fill, reject overflow
func (s *ControllerSuite) TestRoomFillScenario() {
	room := s.createRoom("A", "u1", "Alice")
	s.Len(room.Players, 1)
	s.Equal(model.GameNotStarted, room.Game.Status)

	joined, err := s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")
	s.Require().NoError(err)
	s.Require().Len(joined.Players, 2)
	s.Equal("Alice", joined.Players[0].Name)
	s.Equal("Bob", joined.Players[1].Name)

	again, err := s.controller.JoinRoom(s.ctx, room.ID, "u2", "Bob")
	s.ErrorIs(err, model.ErrAlreadyJoined)
	s.Len(again.Players, 2)

	_, err = s.controller.JoinRoom(s.ctx, room.ID, "u3", "Carl")
	s.ErrorIs(err, model.ErrRoomFull)
}
