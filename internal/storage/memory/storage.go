package memory

import (
	"context"
	"sync"

	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/storage"
)

// Storage is an in-memory implementation of the storage interface. It is the
// authoritative backend for a single-process deployment.
type Storage struct {
	mu sync.RWMutex

	players   map[model.PlayerID]*model.Player
	nameIndex map[string]model.PlayerID // NameKey(name) -> id
	rooms     map[model.RoomID]*model.Room
	pending   map[string]*model.PendingReconnect // NameKey(name) -> record
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[model.PlayerID]*model.Player),
		nameIndex: make(map[string]model.PlayerID),
		rooms:     make(map[model.RoomID]*model.Room),
		pending:   make(map[string]*model.PendingReconnect),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.players[player.ID]; ok && existing.Name != player.Name {
		delete(s.nameIndex, model.NameKey(existing.Name))
	}
	s.players[player.ID] = player
	if player.Name != "" {
		s.nameIndex[model.NameKey(player.Name)] = player.ID
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.nameIndex[model.NameKey(name)]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if player, ok := s.players[id]; ok {
		delete(s.nameIndex, model.NameKey(player.Name))
		delete(s.players, id)
	}
	return nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room, nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok, nil
}

func (s *Storage) RoomsOwnedBy(ctx context.Context, owner model.PlayerID) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var owned []*model.Room
	for _, room := range s.rooms {
		if room.OwnerID == owner {
			owned = append(owned, room)
		}
	}
	return owned, nil
}

// Pending-disconnect operations

func (s *Storage) SavePending(ctx context.Context, rec *model.PendingReconnect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[model.NameKey(rec.Name)] = rec
	return nil
}

func (s *Storage) GetPending(ctx context.Context, name string) (*model.PendingReconnect, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.pending[model.NameKey(name)]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rec, nil
}

func (s *Storage) DeletePending(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, model.NameKey(name))
	return nil
}

// Reset clears everything under one lock acquisition.
func (s *Storage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[model.PlayerID]*model.Player)
	s.nameIndex = make(map[string]model.PlayerID)
	s.rooms = make(map[model.RoomID]*model.Room)
	s.pending = make(map[string]*model.PendingReconnect)
	return nil
}
