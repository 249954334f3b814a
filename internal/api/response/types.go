package response

import (
	"github.com/soundround/soundround/internal/model"
)

// Player represents a player in API responses
type Player struct {
	Handle    string `json:"handle"`
	Name      string `json:"name,omitempty"`
	IsTeacher bool   `json:"is_teacher"`
	Points    int    `json:"points"`
	RoomID    string `json:"room_id,omitempty"`
	GroupID   string `json:"group_id,omitempty"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		Handle:    string(p.ID),
		Name:      p.Name,
		IsTeacher: p.IsTeacher,
		Points:    p.Points,
		RoomID:    string(p.Room),
		GroupID:   string(p.Group),
	}
}

// Group represents a group in API responses
type Group struct {
	ID         string   `json:"id"`
	Points     int      `json:"points"`
	Members    []string `json:"members"`
	BaseNumber int      `json:"base_number"`
}

// GroupFromModel converts a model.Group
func GroupFromModel(g *model.Group) Group {
	members := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		members = append(members, string(m))
	}
	return Group{
		ID:         string(g.ID),
		Points:     g.Points,
		Members:    members,
		BaseNumber: g.BaseNumber,
	}
}

// Mode represents a room mode in API responses
type Mode struct {
	Kind     string `json:"kind"`
	Grouping string `json:"grouping,omitempty"`
	Pace     string `json:"pace,omitempty"`
}

// ModeFromModel converts a model.Mode
func ModeFromModel(m model.Mode) Mode {
	return Mode{
		Kind:     string(m.Kind),
		Grouping: string(m.Grouping),
		Pace:     string(m.Pace),
	}
}

// Room represents a room in API responses
type Room struct {
	ID          string  `json:"id"`
	Mode        Mode    `json:"mode"`
	SetUp       bool    `json:"set_up"`
	AutoAssign  bool    `json:"auto_assign"`
	PlayerCount int     `json:"player_count"`
	Groups      []Group `json:"groups,omitempty"`
	WordSearch  bool    `json:"word_search"`
	RoundActive bool    `json:"round_active"`
}

// RoomFromModel converts a model.Room
func RoomFromModel(r *model.Room) Room {
	groups := make([]Group, 0, len(r.Groups))
	for _, g := range r.Groups {
		groups = append(groups, GroupFromModel(g))
	}
	if len(groups) == 0 {
		groups = nil
	}
	return Room{
		ID:          string(r.ID),
		Mode:        ModeFromModel(r.Mode),
		SetUp:       r.SetUp,
		AutoAssign:  r.AutoAssign,
		PlayerCount: r.PlayerCount(),
		Groups:      groups,
		WordSearch:  r.WordSearch,
		RoundActive: r.Round.Active,
	}
}

// Leaderboard is the ranking payload returned by leaderboard endpoints
type Leaderboard struct {
	Ranking *model.RankingResult `json:"ranking"`
}

// WordSearchResponse is the payload for the word-search toggle
type WordSearchResponse struct {
	WordSearch bool `json:"word_search"`
}
