package model

import (
	"strings"
	"time"
)

// PlayerID is the stable handle for a connected client. Handles are opaque
// (UUIDs in practice); the display name is a separate, human-chosen value.
type PlayerID string

// Player represents a connected participant: either the teacher running a
// room or a student answering in one.
type Player struct {
	ID        PlayerID
	Name      string // display name, unique process-wide (case-insensitive)
	IsTeacher bool
	Points    int
	Room      RoomID  // empty when not in a room
	Group     GroupID // empty when not in a group
	CreatedAt time.Time
}

// NormalizeName canonicalizes a display name the way the login flow stores
// it: first letter capitalized, rest untouched.
func NormalizeName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// NameKey returns the case-insensitive uniqueness key for a display name.
func NameKey(name string) string {
	return strings.ToLower(name)
}

// AddPoints awards points to the player. Scores never go below zero.
func (p *Player) AddPoints(n int) {
	p.Points += n
	if p.Points < 0 {
		p.Points = 0
	}
}

// ResetPoints clears the player's score. Only mode changes do this.
func (p *Player) ResetPoints() {
	p.Points = 0
}

// PendingReconnect is a snapshot of a disconnected student, held in the
// pending-disconnect table until the grace period elapses or the player
// reconnects.
type PendingReconnect struct {
	Name           string // normalized display name (table key is NameKey(Name))
	PlayerID       PlayerID
	Points         int
	RoomID         RoomID
	GroupID        GroupID
	DisconnectedAt time.Time // zero means the record is a stale ghost
}
