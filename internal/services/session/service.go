package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/soundround/soundround/internal/dependencies/clock"
	"github.com/soundround/soundround/internal/dependencies/scheduler"
	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/render"
	"github.com/soundround/soundround/internal/services/room"
	"github.com/soundround/soundround/internal/storage"
)

// GracePeriod is how long a disconnected student's session is held for
// reconnection before it is discarded.
const GracePeriod = 5 * time.Minute

// MinUsernameLength is the shortest display name the login flow accepts.
const MinUsernameLength = 4

// PriorState is the client-held snapshot presented on reconnection. Name and
// RoomID are required; a snapshot missing either cannot be matched to a held
// session. The score is restored from the held record, not the snapshot.
type PriorState struct {
	Name   string
	RoomID model.RoomID
	Group  model.GroupID
}

// Controller manages player identity and the disconnect/reconnect lifecycle.
type Controller struct {
	storage   storage.Storage
	rooms     room.ControllerInterface
	sink      render.Sink
	clock     clock.Clock
	scheduler scheduler.Scheduler
	logger    *slog.Logger

	mu     sync.Mutex
	expiry map[string]scheduler.CancelFunc // keyed by NameKey
}

// NewController creates a new session Controller
func NewController(
	storage storage.Storage,
	rooms room.ControllerInterface,
	sink render.Sink,
	clock clock.Clock,
	sched scheduler.Scheduler,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		rooms:     rooms,
		sink:      sink,
		clock:     clock,
		scheduler: sched,
		logger:    logger.With(slog.String("component", "session")),
		expiry:    make(map[string]scheduler.CancelFunc),
	}
}

// Connect registers a fresh anonymous player and hands back its opaque
// handle. Names are claimed separately via SetUsername.
func (c *Controller) Connect(ctx context.Context, isTeacher bool) (*model.Player, error) {
	player := &model.Player{
		ID:        model.PlayerID(uuid.NewString()),
		IsTeacher: isTeacher,
		CreatedAt: c.clock.Now(),
	}
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	c.logger.Info("player connected",
		slog.String("player_id", string(player.ID)),
		slog.Bool("teacher", isTeacher),
	)

	c.sink.Render(ctx, model.ViewUpdate{
		Scope: model.PlayerScope(player.ID),
		View:  model.ViewUsername,
	})
	return player, nil
}

// GetPlayer retrieves a player by handle
func (c *Controller) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return c.storage.GetPlayer(ctx, id)
}

// SetUsername claims a display name for the player. Names are at least four
// characters, unique case-insensitively across live players and held
// sessions, and stored with the first letter capitalized.
func (c *Controller) SetUsername(ctx context.Context, handle model.PlayerID, name string) (*model.Player, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}
	if len(name) < MinUsernameLength {
		return nil, model.ErrNameTooShort
	}
	name = model.NormalizeName(name)

	player, err := c.storage.GetPlayer(ctx, handle)
	if err != nil {
		return nil, err
	}

	if existing, err := c.storage.GetPlayerByName(ctx, name); err == nil && existing.ID != handle {
		return nil, model.ErrDuplicateName
	}

	// A held session also reserves its name. A ghost record, one that was
	// never stamped with a disconnect time, does not.
	if rec, err := c.storage.GetPending(ctx, name); err == nil {
		if !rec.DisconnectedAt.IsZero() {
			return nil, model.ErrDuplicateName
		}
		if err := c.storage.DeletePending(ctx, rec.Name); err != nil {
			return nil, err
		}
	}

	player.Name = name
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	c.logger.Info("username set",
		slog.String("player_id", string(handle)),
		slog.String("name", name),
	)

	c.sink.Emit(ctx, model.PlayerScope(handle), model.EventLoginSuccess, name)
	c.sink.Render(ctx, model.ViewUpdate{
		Scope:   model.PlayerScope(handle),
		View:    model.ViewRoomName,
		Context: map[string]any{"username": name},
	})
	return player, nil
}

// Reconnect restores a held session from the client's prior-state snapshot.
// The snapshot must carry a name and room; anything less gets
// ErrFreshLoginRequired and the client starts over. A restored session keeps
// its points unless the room's mode changed after the disconnect.
func (c *Controller) Reconnect(ctx context.Context, handle model.PlayerID, prior PriorState) (*model.Player, error) {
	if prior.Name == "" || prior.RoomID == "" {
		return nil, model.ErrFreshLoginRequired
	}
	name := model.NormalizeName(strings.TrimSpace(prior.Name))

	rec, err := c.storage.GetPending(ctx, name)
	if err != nil {
		return nil, model.ErrFreshLoginRequired
	}
	if rec.DisconnectedAt.IsZero() {
		// Ghost record: the disconnect was never stamped. Discard it and
		// make the client log in fresh; the name is free again.
		_ = c.storage.DeletePending(ctx, rec.Name)
		return nil, model.ErrFreshLoginRequired
	}

	c.cancelExpiry(name)
	if err := c.storage.DeletePending(ctx, rec.Name); err != nil {
		return nil, err
	}

	player, err := c.storage.GetPlayer(ctx, handle)
	if err != nil {
		return nil, err
	}
	player.Name = rec.Name
	player.Points = rec.Points

	rm, err := c.storage.GetRoom(ctx, rec.RoomID)
	if err != nil {
		// The room ended while the player was away. They are logged in but
		// start from the lobby.
		if err := c.storage.SavePlayer(ctx, player); err != nil {
			return nil, err
		}
		c.sink.Emit(ctx, model.PlayerScope(handle), model.EventLoginSuccess, player.Name)
		c.sink.Render(ctx, model.ViewUpdate{
			Scope:   model.PlayerScope(handle),
			View:    model.ViewRoomName,
			Context: map[string]any{"username": player.Name},
		})
		return player, nil
	}

	if rm.ModeChangedAt.After(rec.DisconnectedAt) {
		player.ResetPoints()
	}
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}

	if err := c.rooms.JoinRoom(ctx, rm.ID, handle); err != nil {
		return nil, err
	}
	if rec.GroupID != "" {
		if err := c.rooms.AssignGroup(ctx, rm.ID, handle, rec.GroupID); err != nil {
			c.logger.Warn("reconnect group rejoin failed",
				slog.String("player_id", string(handle)),
				slog.String("group_id", string(rec.GroupID)),
				slog.Any("error", err),
			)
		}
	}

	c.logger.Info("session restored",
		slog.String("player_id", string(handle)),
		slog.String("name", player.Name),
		slog.String("room_id", string(rm.ID)),
	)

	c.sink.Emit(ctx, model.PlayerScope(handle), model.EventLoginSuccess, player.Name)
	return c.storage.GetPlayer(ctx, handle)
}

// Disconnect tears down a player's live presence. A teacher takes every room
// they own down with them. A named student leaves behind a held session that
// survives for the grace period.
func (c *Controller) Disconnect(ctx context.Context, handle model.PlayerID) error {
	player, err := c.storage.GetPlayer(ctx, handle)
	if err != nil {
		return nil // never connected or already gone
	}

	if player.IsTeacher {
		if err := c.rooms.DestroyRoomsOwnedBy(ctx, handle); err != nil {
			return err
		}
		return c.storage.DeletePlayer(ctx, handle)
	}

	if player.Name != "" {
		rec := &model.PendingReconnect{
			Name:           player.Name,
			PlayerID:       player.ID,
			Points:         player.Points,
			RoomID:         player.Room,
			GroupID:        player.Group,
			DisconnectedAt: c.clock.Now(),
		}
		if err := c.storage.SavePending(ctx, rec); err != nil {
			return err
		}
		c.scheduleExpiry(player.Name)
	}

	if player.Room != "" {
		if err := c.rooms.RemovePlayer(ctx, player.Room, handle); err != nil {
			return err
		}
	}

	c.logger.Info("player disconnected",
		slog.String("player_id", string(handle)),
		slog.String("name", player.Name),
	)

	return c.storage.DeletePlayer(ctx, handle)
}

// scheduleExpiry arms the grace-period timer for a held session. Arming
// replaces any previous timer for the same name.
func (c *Controller) scheduleExpiry(name string) {
	key := model.NameKey(name)

	c.mu.Lock()
	if cancel, ok := c.expiry[key]; ok {
		cancel()
	}
	c.expiry[key] = c.scheduler.Schedule(GracePeriod, func() {
		c.expireSession(name)
	})
	c.mu.Unlock()
}

func (c *Controller) cancelExpiry(name string) {
	key := model.NameKey(name)

	c.mu.Lock()
	if cancel, ok := c.expiry[key]; ok {
		cancel()
		delete(c.expiry, key)
	}
	c.mu.Unlock()
}

// expireSession drops a held session once the grace period elapses. Deleting
// an already-reclaimed record is a no-op, so a timer that loses the race
// with a reconnect does no harm.
func (c *Controller) expireSession(name string) {
	key := model.NameKey(name)

	c.mu.Lock()
	delete(c.expiry, key)
	c.mu.Unlock()

	ctx := context.Background()
	if err := c.storage.DeletePending(ctx, name); err != nil {
		return
	}
	c.logger.Info("held session expired", slog.String("name", name))
}

// ControllerInterface describes the session controller for dependency injection
type ControllerInterface interface {
	Connect(ctx context.Context, isTeacher bool) (*model.Player, error)
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	SetUsername(ctx context.Context, handle model.PlayerID, name string) (*model.Player, error)
	Reconnect(ctx context.Context, handle model.PlayerID, prior PriorState) (*model.Player, error)
	Disconnect(ctx context.Context, handle model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
