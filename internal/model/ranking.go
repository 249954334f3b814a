package model

// RankEntry is one row of a leaderboard. Entries with equal scores share a
// rank; the next distinct score takes the next integer rank (dense ranking).
type RankEntry struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// RankingScope says what kind of entity a ranking covers.
type RankingScope string

const (
	RankPlayers  RankingScope = "players"   // individual rooms
	RankGroups   RankingScope = "groups"    // one-winner-per-group rooms
	RankPerGroup RankingScope = "per_group" // free-for-all: one ranking per group
)

// RankingResult is a tie-aware leaderboard snapshot. For per-group scope,
// Entries is empty and Groups holds one ranking per group.
type RankingResult struct {
	Scope   RankingScope            `json:"scope"`
	Entries []RankEntry             `json:"entries,omitempty"`
	Groups  map[GroupID][]RankEntry `json:"groups,omitempty"`
}

// IsEmpty reports the "no data" case: every relevant top score is zero.
func (r *RankingResult) IsEmpty() bool {
	if r == nil {
		return true
	}
	if r.Scope == RankPerGroup {
		return len(r.Groups) == 0
	}
	return len(r.Entries) == 0
}
