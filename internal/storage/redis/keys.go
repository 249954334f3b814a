package redis

import (
	"fmt"

	"github.com/soundround/soundround/internal/model"
)

// Key prefix for all engine data
const keyPrefix = "soundround"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// nameIndexKey returns the Redis key for the display-name -> player_id index
func nameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:name:%s", keyPrefix, model.NameKey(name))
}

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// ownerIndexKey returns the Redis key for the SET of rooms owned by a player
func ownerIndexKey(owner model.PlayerID) string {
	return fmt.Sprintf("%s:idx:rooms_by_owner:%s", keyPrefix, owner)
}

// pendingKey returns the Redis key for a pending-disconnect record
func pendingKey(name string) string {
	return fmt.Sprintf("%s:pending:%s", keyPrefix, model.NameKey(name))
}
