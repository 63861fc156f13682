package redis

import (
	"fmt"

	"github.com/seiwell/gomokuhub/internal/model"
)

// Key prefix for all room data
const keyPrefix = "gomokuhub"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the LIST of room ids in
// insertion order
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}
