package ws

import (
	"encoding/json"

	"github.com/seiwell/gomokuhub/internal/model"
)

// Envelope is the structured message exchanged in both directions:
// a type tag plus a type-specific payload.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Inbound message types
const (
	MsgRegister        = "register"
	MsgGetRooms        = "get_rooms"
	MsgCreateRoom      = "create_room"
	MsgJoinRoom        = "join_room"
	MsgLeaveRoom       = "leave_room"
	MsgSetPlayerStatus = "set_player_status"
	MsgStartGame       = "start_game"
	MsgPlaceStone      = "place_stone"
	MsgEndGame         = "end_game"
)

// Outbound message types
const (
	// MsgRoomsList is the snapshot of all rooms sent once on connect
	MsgRoomsList = "rooms_list"
	// MsgRoomList is broadcast to registered connections after any
	// room-set change
	MsgRoomList = "room_list"
	// MsgRoomEntered is sent to the acting connection after create/join
	MsgRoomEntered = "room_entered"
	// MsgRoomLeft is sent to the acting connection after leave
	MsgRoomLeft = "room_left"
	// MsgRoomPlayers is sent to every player in a room after any
	// per-room state change
	MsgRoomPlayers = "room_players"
	// MsgWinnerExit is sent to every player in a room when a game ends
	MsgWinnerExit = "winner_exit"
)

// Inbound payloads

type RegisterPayload struct {
	UserID   model.UserID `json:"user_id"`
	UserName string       `json:"user_name"`
}

type CreateRoomPayload struct {
	RoomName    string       `json:"room_name"`
	CreatorID   model.UserID `json:"creator_id"`
	CreatorName string       `json:"creator_name"`
}

type JoinRoomPayload struct {
	RoomID     model.RoomID `json:"room_id"`
	PlayerID   model.UserID `json:"player_id"`
	PlayerName string       `json:"player_name"`
}

type LeaveRoomPayload struct {
	RoomID   model.RoomID `json:"room_id"`
	PlayerID model.UserID `json:"player_id"`
}

type SetPlayerStatusPayload struct {
	RoomID   model.RoomID       `json:"room_id"`
	PlayerID model.UserID       `json:"player_id"`
	Status   model.PlayerStatus `json:"status"`
}

type StartGamePayload struct {
	RoomID model.RoomID `json:"room_id"`
}

type PlaceStonePayload struct {
	RoomID    model.RoomID   `json:"room_id"`
	BoardData model.Board    `json:"board_data"`
	Role      model.TurnSlot `json:"role"`
}

type EndGamePayload struct {
	RoomID model.RoomID `json:"room_id"`
	Winner model.UserID `json:"winner"`
}

// RoomLeftData is the payload of a room_left message: a human-readable
// outcome plus the updated room, or null if the room was disbanded.
type RoomLeftData struct {
	Message string      `json:"message"`
	Room    *model.Room `json:"room"`
}

// marshalMessage builds the wire bytes for an outbound envelope
func marshalMessage(msgType string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: msgType, Data: payload})
}
