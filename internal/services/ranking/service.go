package ranking

import (
	"context"
	"sort"

	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/storage"
)

// Service computes tie-aware leaderboards for mid-game renders and end-game
// podiums.
type Service struct {
	storage storage.Storage
}

// New creates a new ranking Service
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// scored is a name/points pair before ranking.
type scored struct {
	name   string
	points int
}

// Rank produces the leaderboard for a room according to its mode:
// individual rooms rank players, one-winner-per-group rooms rank groups, and
// free-for-all rooms rank each group's members separately. A ranking whose
// top score is zero collapses to the empty "no data" result; for
// free-for-all that applies group by group.
func (s *Service) Rank(ctx context.Context, room *model.Room) (*model.RankingResult, error) {
	switch {
	case room.Mode.IsOneWinner():
		entries := make([]scored, 0, len(room.Groups))
		for _, g := range room.Groups {
			entries = append(entries, scored{name: string(g.ID), points: g.Points})
		}
		return &model.RankingResult{Scope: model.RankGroups, Entries: denseRank(entries)}, nil

	case room.Mode.IsFreeForAll():
		result := &model.RankingResult{Scope: model.RankPerGroup, Groups: make(map[model.GroupID][]model.RankEntry)}
		for _, g := range room.Groups {
			members, err := s.scoredPlayers(ctx, g.Members)
			if err != nil {
				return nil, err
			}
			if ranked := denseRank(members); len(ranked) > 0 {
				result.Groups[g.ID] = ranked
			}
		}
		if len(result.Groups) == 0 {
			result.Groups = nil
		}
		return result, nil

	default:
		members, err := s.scoredPlayers(ctx, room.Players)
		if err != nil {
			return nil, err
		}
		return &model.RankingResult{Scope: model.RankPlayers, Entries: denseRank(members)}, nil
	}
}

func (s *Service) scoredPlayers(ctx context.Context, ids []model.PlayerID) ([]scored, error) {
	entries := make([]scored, 0, len(ids))
	for _, id := range ids {
		player, err := s.storage.GetPlayer(ctx, id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, scored{name: player.Name, points: player.Points})
	}
	return entries, nil
}

// denseRank sorts by points descending (names ascending within a tie) and
// assigns dense ranks: 1,1,2 rather than 1,1,3. An all-zero field is the
// "no data" case and yields nil.
func denseRank(entries []scored) []model.RankEntry {
	if len(entries) == 0 {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].points != entries[j].points {
			return entries[i].points > entries[j].points
		}
		return entries[i].name < entries[j].name
	})

	if entries[0].points == 0 {
		return nil
	}

	ranked := make([]model.RankEntry, 0, len(entries))
	rank := 0
	prevPoints := -1
	for _, e := range entries {
		if e.points != prevPoints {
			rank++
			prevPoints = e.points
		}
		ranked = append(ranked, model.RankEntry{Rank: rank, Name: e.name, Points: e.points})
	}
	return ranked
}
