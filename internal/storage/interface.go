package storage

import (
	"context"

	"github.com/soundround/soundround/internal/model"
)

// Storage defines the interface for engine state: the identity registry, the
// room registry, and the pending-disconnect table. All state is ephemeral by
// design; backends only need to survive for the life of a session.
type Storage interface {
	// Player operations (identity registry)
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Room operations (room registry)
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	RoomsOwnedBy(ctx context.Context, owner model.PlayerID) ([]*model.Room, error)

	// Pending-disconnect table, keyed by display name (case-insensitive)
	SavePending(ctx context.Context, rec *model.PendingReconnect) error
	GetPending(ctx context.Context, name string) (*model.PendingReconnect, error)
	DeletePending(ctx context.Context, name string) error

	// Reset atomically clears both registries and the pending table.
	// Used for test isolation; nothing here outlives the process on purpose.
	Reset(ctx context.Context) error
}
