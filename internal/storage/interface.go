package storage

import (
	"context"

	"github.com/seiwell/gomokuhub/internal/model"
)

// RoomStore defines the interface for room persistence.
// ListRooms returns rooms in the order they were inserted into the
// store; that order drives the room-list broadcast.
type RoomStore interface {
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
}
