package model

// GroupID identifies a group within its room. IDs are room-scoped and stable
// for the life of the room.
type GroupID string

// Group is a named sub-team within a room. BaseNumber is a capacity hint used
// only during initial assignment; overflow past it is permitted.
type Group struct {
	ID         GroupID
	Points     int
	Members    []PlayerID
	BaseNumber int
}

// MemberCount returns the live member count.
func (g *Group) MemberCount() int {
	return len(g.Members)
}

// HasMember reports whether the player belongs to this group.
func (g *Group) HasMember(id PlayerID) bool {
	for _, m := range g.Members {
		if m == id {
			return true
		}
	}
	return false
}

// AddMember adds the player to the group. Adding an existing member is a
// no-op.
func (g *Group) AddMember(id PlayerID) {
	if g.HasMember(id) {
		return
	}
	g.Members = append(g.Members, id)
}

// RemoveMember detaches the player from the group. Idempotent.
func (g *Group) RemoveMember(id PlayerID) {
	for i, m := range g.Members {
		if m == id {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			return
		}
	}
}

// AddPoints awards points to the group. Scores never go below zero.
func (g *Group) AddPoints(n int) {
	g.Points += n
	if g.Points < 0 {
		g.Points = 0
	}
}

// ResetPoints clears the group's score. Only mode changes do this.
func (g *Group) ResetPoints() {
	g.Points = 0
}
