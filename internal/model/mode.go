package model

// RoomKind is the top-level game structure of a room.
type RoomKind string

const (
	KindIndividual RoomKind = "individual" // every student scores independently
	KindGrouped    RoomKind = "grouped"    // students are organized into groups
)

// Grouping selects how grouped rooms resolve answers.
type Grouping string

const (
	// GroupingOneWinner allows at most one counted answer per group per round.
	GroupingOneWinner Grouping = "one_winner"
	// GroupingFreeForAll counts every player's answer; the first correct
	// answer per group is tracked as that group's round winner.
	GroupingFreeForAll Grouping = "free_for_all"
)

// Pace selects when a round resolves.
type Pace string

const (
	// PaceSpeed resolves the round on the first correct answer.
	PaceSpeed Pace = "speed"
	// PaceScore resolves the round only after all required respondents
	// have answered.
	PaceScore Pace = "score"
)

// Mode is the closed mode/sub-mode union for a room. Grouping is meaningful
// only when Kind is grouped; Pace is meaningful for Individual and
// OneWinnerPerGroup play (free-for-all always waits for every player).
type Mode struct {
	Kind     RoomKind
	Grouping Grouping
	Pace     Pace
}

// DefaultMode is what a freshly-created room plays until configured.
func DefaultMode() Mode {
	return Mode{Kind: KindIndividual, Pace: PaceSpeed}
}

// Valid reports whether the mode is a well-formed member of the union.
func (m Mode) Valid() bool {
	switch m.Kind {
	case KindIndividual:
		return m.Pace == PaceSpeed || m.Pace == PaceScore
	case KindGrouped:
		switch m.Grouping {
		case GroupingFreeForAll:
			return true
		case GroupingOneWinner:
			return m.Pace == PaceSpeed || m.Pace == PaceScore
		}
	}
	return false
}

// IsFreeForAll reports whether the mode is grouped free-for-all.
func (m Mode) IsFreeForAll() bool {
	return m.Kind == KindGrouped && m.Grouping == GroupingFreeForAll
}

// IsOneWinner reports whether the mode is grouped one-winner-per-group.
func (m Mode) IsOneWinner() bool {
	return m.Kind == KindGrouped && m.Grouping == GroupingOneWinner
}
