package model

import "time"

// RoundState is the per-room question-round tracker. Exactly one round may be
// active per room at a time; all mutation goes through the round controller.
type RoundState struct {
	Active   bool
	Question Sound

	// Expected is frozen at round start so players joining mid-round do not
	// move the finish line.
	Expected int

	// Answered tracks which players have submitted this round. A player
	// submits at most once; later submissions are no-ops.
	Answered map[PlayerID]bool

	// AnswerCount is the number of counted submissions so far.
	AnswerCount int

	// CorrectCount is the number of counted correct submissions so far.
	CorrectCount int

	// GroupAnswers records, per group, the name of the member whose answer
	// was counted (one-winner-per-group play).
	GroupAnswers map[GroupID]string

	// GroupWinners records, per group, the name of the first member to
	// answer correctly (free-for-all play).
	GroupWinners map[GroupID]string

	StartedAt time.Time

	// LastLeaderboard is the snapshot cached when the previous round
	// resolved, kept for late joiners and repeat renders.
	LastLeaderboard *RankingResult
}

// Begin activates a round for the given question, clearing every per-round
// tracker. The cached leaderboard from the previous round survives.
func (r *RoundState) Begin(question Sound, expected int, now time.Time) {
	r.Active = true
	r.Question = question
	r.Expected = expected
	r.Answered = make(map[PlayerID]bool)
	r.AnswerCount = 0
	r.CorrectCount = 0
	r.GroupAnswers = make(map[GroupID]string)
	r.GroupWinners = make(map[GroupID]string)
	r.StartedAt = now
}

// End deactivates the round and clears the per-round trackers, caching the
// resolved leaderboard snapshot.
func (r *RoundState) End(leaderboard *RankingResult) {
	r.Active = false
	r.Question = ""
	r.Expected = 0
	r.Answered = nil
	r.AnswerCount = 0
	r.CorrectCount = 0
	r.GroupAnswers = nil
	r.GroupWinners = nil
	r.StartedAt = time.Time{}
	if leaderboard != nil {
		r.LastLeaderboard = leaderboard
	}
}

// HasAnswered reports whether the player already submitted this round.
func (r *RoundState) HasAnswered(id PlayerID) bool {
	return r.Answered[id]
}
