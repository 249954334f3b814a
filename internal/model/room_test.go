package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func makeGroups(sizes ...int) []*Group {
	groups := make([]*Group, 0, len(sizes))
	for i, size := range sizes {
		g := &Group{ID: GroupID(string(rune('a' + i))), BaseNumber: 2}
		for j := 0; j < size; j++ {
			g.AddMember(PlayerID(string(rune('a'+i)) + string(rune('0'+j))))
		}
		groups = append(groups, g)
	}
	return groups
}

func TestLeastLoadedGroupPicksEmptiest(t *testing.T) {
	room := &Room{Groups: makeGroups(2, 0, 1)}

	g := room.LeastLoadedGroup(false)
	require.NotNil(t, g)
	assert.Equal(t, GroupID("b"), g.ID)
}

func TestLeastLoadedGroupTieGoesToEarliest(t *testing.T) {
	room := &Room{Groups: makeGroups(1, 1, 1)}

	g := room.LeastLoadedGroup(false)
	require.NotNil(t, g)
	assert.Equal(t, GroupID("a"), g.ID)
}

func TestLeastLoadedGroupOverflowsWhenAllFull(t *testing.T) {
	// Every group at its capacity hint of 2; assignment still succeeds.
	room := &Room{Groups: makeGroups(2, 2, 2)}

	g := room.LeastLoadedGroup(false)
	require.NotNil(t, g)
	assert.Equal(t, GroupID("a"), g.ID)
}

func TestLeastLoadedGroupNoGroups(t *testing.T) {
	room := &Room{}
	assert.Nil(t, room.LeastLoadedGroup(false))
}

func TestRemovePlayerDetachesGroup(t *testing.T) {
	room := &Room{Groups: makeGroups(1)}
	room.AddPlayer("a0")
	require.True(t, room.Groups[0].HasMember("a0"))

	room.RemovePlayer("a0")

	assert.False(t, room.HasPlayer("a0"))
	assert.False(t, room.Groups[0].HasMember("a0"))
}

func TestAddPlayerIdempotent(t *testing.T) {
	room := &Room{}
	room.AddPlayer("p1")
	room.AddPlayer("p1")
	assert.Equal(t, 1, room.PlayerCount())
}

func TestModeValidity(t *testing.T) {
	valid := []Mode{
		{Kind: KindIndividual, Pace: PaceSpeed},
		{Kind: KindIndividual, Pace: PaceScore},
		{Kind: KindGrouped, Grouping: GroupingOneWinner, Pace: PaceSpeed},
		{Kind: KindGrouped, Grouping: GroupingOneWinner, Pace: PaceScore},
		{Kind: KindGrouped, Grouping: GroupingFreeForAll},
	}
	for _, m := range valid {
		assert.True(t, m.Valid(), "%+v should be valid", m)
	}

	invalid := []Mode{
		{},
		{Kind: KindIndividual},
		{Kind: KindGrouped},
		{Kind: KindGrouped, Grouping: GroupingOneWinner},
		{Kind: "solo", Pace: PaceSpeed},
	}
	for _, m := range invalid {
		assert.False(t, m.Valid(), "%+v should be invalid", m)
	}
}

func TestRoundBeginAndEnd(t *testing.T) {
	r := &RoundState{}
	r.Begin(SoundShortA, 3, testTime())

	assert.True(t, r.Active)
	assert.Equal(t, SoundShortA, r.Question)
	assert.Equal(t, 3, r.Expected)

	r.Answered["p1"] = true
	r.AnswerCount = 1

	board := &RankingResult{Scope: RankPlayers}
	r.End(board)

	assert.False(t, r.Active)
	assert.Equal(t, 0, r.AnswerCount)
	assert.Nil(t, r.Answered)
	assert.Same(t, board, r.LastLeaderboard)

	// A failed round keeps the previous snapshot.
	r.Begin(SoundLongU, 1, testTime())
	r.End(nil)
	assert.Same(t, board, r.LastLeaderboard)
}

func TestParseSound(t *testing.T) {
	s, ok := ParseSound("ai")
	require.True(t, ok)
	assert.Equal(t, SoundLongA, s)

	s, ok = ParseSound(" OA ")
	require.True(t, ok)
	assert.Equal(t, SoundLongO, s)

	_, ok = ParseSound("XYZ")
	assert.False(t, ok)
}

func TestWordListsFixedKeys(t *testing.T) {
	w := NewWordLists()
	assert.Len(t, w, len(Sounds))

	w.Add(SoundShortE, "bed")
	w.Add(SoundShortE, "pet")
	assert.Equal(t, []string{"bed", "pet"}, w[SoundShortE])

	w.Remove(SoundShortE, "bed")
	assert.Equal(t, []string{"pet"}, w[SoundShortE])

	w.Clear()
	assert.Len(t, w, len(Sounds))
	assert.Empty(t, w[SoundShortE])
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Alice", NormalizeName("alice"))
	assert.Equal(t, "Alice", NormalizeName("Alice"))
	assert.Equal(t, "", NormalizeName(""))
}

func TestPlayerPointsFloorAtZero(t *testing.T) {
	p := &Player{}
	p.AddPoints(-3)
	assert.Equal(t, 0, p.Points)

	p.AddPoints(2)
	p.AddPoints(-5)
	assert.Equal(t, 0, p.Points)
}
