package model

import "time"

// RoomID is the process-wide unique identifier of a room. Room names double
// as IDs; they must be at least four characters long.
type RoomID string

// MinRoomNameLength applies to both room names and usernames.
const MinRoomNameLength = 4

// Room is one teacher-owned game session: students, groups, mode
// configuration, word-list content, and the transient round state.
type Room struct {
	ID            RoomID
	OwnerID       PlayerID
	Mode          Mode
	SetUp         bool       // students may not join until the room is configured
	AutoAssign    bool       // groups chosen by the engine rather than the student
	Players       []PlayerID // non-teacher members
	Groups        []*Group   // ordered by id; order breaks least-loaded ties
	Words         WordLists
	WordSearch    bool
	Round         RoundState
	ModeChangedAt time.Time // reconnection discards scores earned before this
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PlayerCount returns the live count of non-teacher members.
func (r *Room) PlayerCount() int {
	return len(r.Players)
}

// GroupCount returns the live count of groups.
func (r *Room) GroupCount() int {
	return len(r.Groups)
}

// HasPlayer reports whether the player is a member of the room.
func (r *Room) HasPlayer(id PlayerID) bool {
	for _, p := range r.Players {
		if p == id {
			return true
		}
	}
	return false
}

// AddPlayer adds a student to the membership list. Idempotent.
func (r *Room) AddPlayer(id PlayerID) {
	if r.HasPlayer(id) {
		return
	}
	r.Players = append(r.Players, id)
}

// RemovePlayer detaches the player from the room and from any group.
// Idempotent if the player is already absent.
func (r *Room) RemovePlayer(id PlayerID) {
	for i, p := range r.Players {
		if p == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			break
		}
	}
	if g := r.GroupOf(id); g != nil {
		g.RemoveMember(id)
	}
}

// GetGroup returns the group with the given id, or nil.
func (r *Room) GetGroup(id GroupID) *Group {
	for _, g := range r.Groups {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// GroupOf returns the group the player belongs to, or nil.
func (r *Room) GroupOf(id PlayerID) *Group {
	for _, g := range r.Groups {
		if g.HasMember(id) {
			return g
		}
	}
	return nil
}

// LeastLoadedGroup returns the group with the fewest members, considering
// only groups under their capacity hint unless ignoreCapacity is set. Ties go
// to the earliest group in id order. Returns nil only if the room has no
// groups.
func (r *Room) LeastLoadedGroup(ignoreCapacity bool) *Group {
	var best *Group
	for _, g := range r.Groups {
		if !ignoreCapacity && g.MemberCount() >= g.BaseNumber {
			continue
		}
		if best == nil || g.MemberCount() < best.MemberCount() {
			best = g
		}
	}
	if best == nil && !ignoreCapacity {
		// Every group is at or over capacity; overflow is allowed.
		return r.LeastLoadedGroup(true)
	}
	return best
}
