package room

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundround/soundround/internal/dependencies/clock"
	"github.com/soundround/soundround/internal/dependencies/random"
	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/render"
	"github.com/soundround/soundround/internal/roomlock"
	"github.com/soundround/soundround/internal/services/ranking"
	"github.com/soundround/soundround/internal/storage"
)

const (
	// createRetryLimit bounds duplicate-name suffix retries on CreateRoom.
	createRetryLimit = 10
	suffixAlphabet   = "0123456789"
)

// Banding thresholds for deriving group sizes from a student count.
const (
	smallClassLimit  = 10
	mediumClassLimit = 25

	smallGroupSize  = 2
	mediumGroupSize = 4
	largeGroupSize  = 5
)

// Controller manages rooms: creation, configuration, membership, group
// assignment, word lists, and teardown.
type Controller struct {
	storage storage.Storage
	locks   *roomlock.Locker
	ranking *ranking.Service
	sink    render.Sink
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new room Controller
func NewController(
	storage storage.Storage,
	locks *roomlock.Locker,
	ranking *ranking.Service,
	sink render.Sink,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		locks:   locks,
		ranking: ranking,
		sink:    sink,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "room")),
	}
}

// ConfigureOptions selects a room's mode and group layout. Group counts come
// either from StudentCount (banded) or from an explicit NumGroups and
// PlayersPerGroup pair.
type ConfigureOptions struct {
	Mode            model.Mode
	StudentCount    int
	NumGroups       int
	PlayersPerGroup int
	AutoAssign      bool
}

// CreateRoom registers a new room owned by the given teacher. A name
// colliding with an existing room is retried with a random digit suffix
// rather than rejected.
func (c *Controller) CreateRoom(ctx context.Context, owner model.PlayerID, name string) (*model.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.ErrNameRequired
	}
	if len(name) < model.MinRoomNameLength {
		return nil, model.ErrNameTooShort
	}

	player, err := c.storage.GetPlayer(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !player.IsTeacher {
		return nil, model.ErrNotTeacher
	}

	for attempt := 0; attempt < createRetryLimit; attempt++ {
		exists, err := c.storage.RoomExists(ctx, model.RoomID(name))
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
		name += c.random.String(1, suffixAlphabet)
	}
	if exists, err := c.storage.RoomExists(ctx, model.RoomID(name)); err != nil {
		return nil, err
	} else if exists {
		return nil, model.ErrDuplicateRoom
	}

	now := c.clock.Now()
	room := &model.Room{
		ID:        model.RoomID(name),
		OwnerID:   owner,
		Mode:      model.DefaultMode(),
		Words:     model.NewWordLists(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("owner", string(owner)),
	)

	c.sink.Render(ctx, model.ViewUpdate{
		Scope:   model.PlayerScope(owner),
		View:    model.ViewRoomOptions,
		Context: map[string]any{"room_id": room.ID},
	})
	c.sink.Emit(ctx, model.PlayerScope(owner), model.EventRoomJoined, room.ID)

	return room, nil
}

// GetRoom retrieves a room by id
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// ConfigureRoom applies a mode and group layout and marks the room set up.
// Only the owning teacher may configure.
func (c *Controller) ConfigureRoom(ctx context.Context, roomID model.RoomID, requester model.PlayerID, opts ConfigureOptions) error {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != requester {
		return model.ErrNotTeacher
	}
	if !opts.Mode.Valid() {
		return model.ErrInvalidRoomOptions
	}

	if opts.Mode.Kind == model.KindGrouped {
		groups, err := buildGroups(opts)
		if err != nil {
			return err
		}
		room.Groups = groups
	} else {
		room.Groups = nil
	}

	now := c.clock.Now()
	room.Mode = opts.Mode
	room.AutoAssign = opts.AutoAssign
	room.SetUp = true
	room.ModeChangedAt = now
	room.UpdatedAt = now

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.logger.Info("room configured",
		slog.String("room_id", string(roomID)),
		slog.String("kind", string(opts.Mode.Kind)),
		slog.Int("groups", room.GroupCount()),
	)

	c.sink.Emit(ctx, model.RoomScope(roomID), model.EventRoomSetUp, room.Mode)
	return nil
}

// buildGroups derives the group list from explicit counts or the banded
// student count.
func buildGroups(opts ConfigureOptions) ([]*model.Group, error) {
	numGroups := opts.NumGroups
	perGroup := opts.PlayersPerGroup

	if numGroups <= 0 || perGroup <= 0 {
		if opts.StudentCount <= 0 {
			return nil, model.ErrInvalidRoomOptions
		}
		switch n := opts.StudentCount; {
		case n < smallClassLimit:
			perGroup = smallGroupSize
		case n < mediumClassLimit:
			perGroup = mediumGroupSize
		default:
			perGroup = largeGroupSize
		}
		numGroups = (opts.StudentCount + perGroup - 1) / perGroup
	}

	groups := make([]*model.Group, 0, numGroups)
	for i := 0; i < numGroups; i++ {
		groups = append(groups, &model.Group{
			ID:         model.GroupID(fmt.Sprintf("group-%d", i+1)),
			BaseNumber: perGroup,
		})
	}
	return groups, nil
}

// JoinRoom adds a student to a configured room. The owning teacher "joins"
// without appearing in the membership list.
func (c *Controller) JoinRoom(ctx context.Context, roomID model.RoomID, handle model.PlayerID) error {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	player, err := c.storage.GetPlayer(ctx, handle)
	if err != nil {
		return err
	}

	if player.IsTeacher {
		c.sink.Emit(ctx, model.PlayerScope(handle), model.EventRoomJoined, roomID)
		return nil
	}
	if !room.SetUp {
		return model.ErrRoomNotSetUp
	}

	room.AddPlayer(handle)
	room.UpdatedAt = c.clock.Now()
	player.Room = roomID

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return err
	}

	c.sink.Render(ctx, model.ViewUpdate{
		Scope:   model.PlayerScope(handle),
		View:    model.ViewWaitingRoom,
		Context: map[string]any{"room_id": roomID, "username": player.Name},
	})
	// A late joiner catches up on the standings from the cached snapshot.
	if board := room.Round.LastLeaderboard; board != nil {
		c.sink.Render(ctx, model.ViewUpdate{
			Scope:   model.PlayerScope(handle),
			View:    model.ViewLeaderboard,
			Context: model.LeaderboardContext{Ranking: board},
		})
	}
	c.sink.Emit(ctx, model.RoomScope(roomID), model.EventRoomJoined, player.Name)
	return nil
}

// AssignGroup places a student in a group: the least-loaded group when the
// room auto-assigns, otherwise the named one. Overflow past the capacity
// hint is allowed once every group is full.
func (c *Controller) AssignGroup(ctx context.Context, roomID model.RoomID, handle model.PlayerID, groupID model.GroupID) error {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Mode.Kind != model.KindGrouped || room.GroupCount() == 0 {
		return model.ErrGroupNotFound
	}
	player, err := c.storage.GetPlayer(ctx, handle)
	if err != nil {
		return err
	}
	if !room.HasPlayer(handle) {
		return model.ErrPlayerNotFound
	}

	var target *model.Group
	if room.AutoAssign {
		target = room.LeastLoadedGroup(false)
	} else {
		if groupID == "" {
			return model.ErrGroupNotFound
		}
		target = room.GetGroup(groupID)
	}
	if target == nil {
		return model.ErrGroupNotFound
	}

	if prev := room.GroupOf(handle); prev != nil {
		prev.RemoveMember(handle)
	}
	target.AddMember(handle)
	player.Group = target.ID
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}
	if err := c.storage.SavePlayer(ctx, player); err != nil {
		return err
	}

	c.sink.Emit(ctx, model.PlayerScope(handle), model.EventGroupJoined, target.ID)
	return nil
}

// RemovePlayer detaches a student from the room and any group. Idempotent if
// the player is already absent.
func (c *Controller) RemovePlayer(ctx context.Context, roomID model.RoomID, handle model.PlayerID) error {
	defer c.locks.Lock(roomID)()
	return c.removePlayerLocked(ctx, roomID, handle)
}

func (c *Controller) removePlayerLocked(ctx context.Context, roomID model.RoomID, handle model.PlayerID) error {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err == nil {
		room.RemovePlayer(handle)
		room.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveRoom(ctx, room); err != nil {
			return err
		}
	}

	player, err := c.storage.GetPlayer(ctx, handle)
	if err != nil {
		return nil // already gone
	}
	player.Room = ""
	player.Group = ""
	return c.storage.SavePlayer(ctx, player)
}

// KickPlayer is teacher-initiated removal with a "kicked" notice to the
// target.
func (c *Controller) KickPlayer(ctx context.Context, roomID model.RoomID, requester, target model.PlayerID) error {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != requester {
		return model.ErrNotTeacher
	}

	if err := c.RemovePlayer(ctx, roomID, target); err != nil {
		return err
	}
	c.sink.Render(ctx, model.ViewUpdate{
		Scope:   model.PlayerScope(target),
		View:    model.ViewNotice,
		Context: model.NoticeContext{Code: "kicked"},
	})
	c.sink.Emit(ctx, model.PlayerScope(target), model.EventKicked, roomID)
	return nil
}

// ChangeGameMode switches a room's mode mid-session. Prior scores are
// invalidated: every player and group score resets to zero, and the change
// timestamp is recorded so reconnections from before the change reset too.
func (c *Controller) ChangeGameMode(ctx context.Context, roomID model.RoomID, requester model.PlayerID, mode model.Mode) error {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != requester {
		return model.ErrNotTeacher
	}
	if !mode.Valid() {
		return model.ErrInvalidRoomOptions
	}

	for _, id := range room.Players {
		player, err := c.storage.GetPlayer(ctx, id)
		if err != nil {
			continue
		}
		player.ResetPoints()
		if err := c.storage.SavePlayer(ctx, player); err != nil {
			return err
		}
	}
	for _, g := range room.Groups {
		g.ResetPoints()
	}

	now := c.clock.Now()
	room.Mode = mode
	room.ModeChangedAt = now
	room.UpdatedAt = now
	room.Round.End(nil)

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	c.logger.Info("game mode changed",
		slog.String("room_id", string(roomID)),
		slog.String("kind", string(mode.Kind)),
	)

	c.sink.Emit(ctx, model.RoomScope(roomID), model.EventModeChanged, mode)
	return nil
}

// EndGame produces the final ranking and tears the room down.
func (c *Controller) EndGame(ctx context.Context, roomID model.RoomID, requester model.PlayerID) (*model.RankingResult, error) {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.OwnerID != requester {
		return nil, model.ErrNotTeacher
	}

	result, err := c.ranking.Rank(ctx, room)
	if err != nil {
		return nil, err
	}

	c.sink.Render(ctx, model.ViewUpdate{
		Scope:   model.RoomScope(roomID),
		View:    model.ViewPodium,
		Context: model.LeaderboardContext{Ranking: result},
	})
	c.sink.Emit(ctx, model.RoomScope(roomID), model.EventGameOver, result)

	if err := c.destroyLocked(ctx, room); err != nil {
		return nil, err
	}
	return result, nil
}

// DestroyRoomsOwnedBy tears down every room the teacher owns, notifying
// members. Used when the owning teacher disconnects.
func (c *Controller) DestroyRoomsOwnedBy(ctx context.Context, owner model.PlayerID) error {
	rooms, err := c.storage.RoomsOwnedBy(ctx, owner)
	if err != nil {
		return err
	}
	for _, room := range rooms {
		unlock := c.locks.Lock(room.ID)
		c.sink.Emit(ctx, model.RoomScope(room.ID), model.EventHostDisconnected, room.ID)
		err := c.destroyLocked(ctx, room)
		unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

// destroyLocked releases membership and deletes the room. Caller holds the
// room lock.
func (c *Controller) destroyLocked(ctx context.Context, room *model.Room) error {
	for _, id := range room.Players {
		player, err := c.storage.GetPlayer(ctx, id)
		if err != nil {
			continue
		}
		player.Room = ""
		player.Group = ""
		if err := c.storage.SavePlayer(ctx, player); err != nil {
			return err
		}
	}

	c.logger.Info("room destroyed", slog.String("room_id", string(room.ID)))
	return c.storage.DeleteRoom(ctx, room.ID)
}

// AddWord appends an example word to a sound bucket.
func (c *Controller) AddWord(ctx context.Context, roomID model.RoomID, requester model.PlayerID, sound, word string) error {
	return c.mutateWords(ctx, roomID, requester, sound, func(room *model.Room, s model.Sound) {
		room.Words.Add(s, word)
	})
}

// RemoveWord deletes an example word from a sound bucket.
func (c *Controller) RemoveWord(ctx context.Context, roomID model.RoomID, requester model.PlayerID, sound, word string) error {
	return c.mutateWords(ctx, roomID, requester, sound, func(room *model.Room, s model.Sound) {
		room.Words.Remove(s, word)
	})
}

// ClearWordLists empties every sound bucket.
func (c *Controller) ClearWordLists(ctx context.Context, roomID model.RoomID, requester model.PlayerID) error {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != requester {
		return model.ErrNotTeacher
	}

	room.Words.Clear()
	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}
	c.sink.Emit(ctx, model.RoomScope(roomID), model.EventWordListsChanged, nil)
	return nil
}

// ToggleWordSearch flips the word-search display toggle.
func (c *Controller) ToggleWordSearch(ctx context.Context, roomID model.RoomID, requester model.PlayerID) (bool, error) {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return false, err
	}
	if room.OwnerID != requester {
		return false, model.ErrNotTeacher
	}

	room.WordSearch = !room.WordSearch
	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return false, err
	}
	c.sink.Emit(ctx, model.RoomScope(roomID), model.EventWordListsChanged, room.WordSearch)
	return room.WordSearch, nil
}

func (c *Controller) mutateWords(ctx context.Context, roomID model.RoomID, requester model.PlayerID, sound string, mutate func(*model.Room, model.Sound)) error {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != requester {
		return model.ErrNotTeacher
	}
	s, ok := model.ParseSound(sound)
	if !ok {
		return model.ErrUnknownSound
	}

	mutate(room, s)
	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}
	c.sink.Emit(ctx, model.RoomScope(roomID), model.EventWordListsChanged, s)
	return nil
}

// PlaySound re-broadcasts the target sound to the room's students.
func (c *Controller) PlaySound(ctx context.Context, roomID model.RoomID, requester model.PlayerID, sound string) error {
	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != requester {
		return model.ErrNotTeacher
	}
	s, ok := model.ParseSound(sound)
	if !ok {
		return model.ErrUnknownSound
	}
	c.sink.Emit(ctx, model.RoomScope(roomID), model.EventPlaySound, s)
	return nil
}

// SendLeaderboard renders the current standings to the whole room and
// refreshes the cached snapshot used for late joiners.
func (c *Controller) SendLeaderboard(ctx context.Context, roomID model.RoomID) (*model.RankingResult, error) {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	result, err := c.ranking.Rank(ctx, room)
	if err != nil {
		return nil, err
	}

	room.Round.LastLeaderboard = result
	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.sink.Render(ctx, model.ViewUpdate{
		Scope:   model.RoomScope(roomID),
		View:    model.ViewLeaderboard,
		Context: model.LeaderboardContext{Ranking: result},
	})
	return result, nil
}

// ControllerInterface describes the room controller for dependency injection
type ControllerInterface interface {
	CreateRoom(ctx context.Context, owner model.PlayerID, name string) (*model.Room, error)
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	ConfigureRoom(ctx context.Context, roomID model.RoomID, requester model.PlayerID, opts ConfigureOptions) error
	JoinRoom(ctx context.Context, roomID model.RoomID, handle model.PlayerID) error
	AssignGroup(ctx context.Context, roomID model.RoomID, handle model.PlayerID, groupID model.GroupID) error
	RemovePlayer(ctx context.Context, roomID model.RoomID, handle model.PlayerID) error
	KickPlayer(ctx context.Context, roomID model.RoomID, requester, target model.PlayerID) error
	ChangeGameMode(ctx context.Context, roomID model.RoomID, requester model.PlayerID, mode model.Mode) error
	EndGame(ctx context.Context, roomID model.RoomID, requester model.PlayerID) (*model.RankingResult, error)
	DestroyRoomsOwnedBy(ctx context.Context, owner model.PlayerID) error
	AddWord(ctx context.Context, roomID model.RoomID, requester model.PlayerID, sound, word string) error
	RemoveWord(ctx context.Context, roomID model.RoomID, requester model.PlayerID, sound, word string) error
	ClearWordLists(ctx context.Context, roomID model.RoomID, requester model.PlayerID) error
	ToggleWordSearch(ctx context.Context, roomID model.RoomID, requester model.PlayerID) (bool, error)
	PlaySound(ctx context.Context, roomID model.RoomID, requester model.PlayerID, sound string) error
	SendLeaderboard(ctx context.Context, roomID model.RoomID) (*model.RankingResult, error)
}

var _ ControllerInterface = (*Controller)(nil)
