package round

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/soundround/soundround/internal/dependencies/clock"
	"github.com/soundround/soundround/internal/dependencies/scheduler"
	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/render"
	"github.com/soundround/soundround/internal/roomlock"
	"github.com/soundround/soundround/internal/services/ranking"
	"github.com/soundround/soundround/internal/storage"
)

// Controller runs question rounds: dispatching questions, aggregating
// answers per the room's mode, and resolving rounds into leaderboard renders.
type Controller struct {
	storage   storage.Storage
	locks     *roomlock.Locker
	ranking   *ranking.Service
	sink      render.Sink
	clock     clock.Clock
	scheduler scheduler.Scheduler
	logger    *slog.Logger

	mu     sync.Mutex
	timers map[model.RoomID]scheduler.CancelFunc
}

// NewController creates a new round Controller
func NewController(
	storage storage.Storage,
	locks *roomlock.Locker,
	ranking *ranking.Service,
	sink render.Sink,
	clock clock.Clock,
	sched scheduler.Scheduler,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		locks:     locks,
		ranking:   ranking,
		sink:      sink,
		clock:     clock,
		scheduler: sched,
		logger:    logger.With(slog.String("component", "round")),
		timers:    make(map[model.RoomID]scheduler.CancelFunc),
	}
}

// SetQuestion starts a round on the given sound. An active round is reset
// and replaced; there is never more than one live round per room. A non-zero
// timeLimit arms a timer that force-finishes the round when it elapses.
func (c *Controller) SetQuestion(ctx context.Context, roomID model.RoomID, requester model.PlayerID, sound string, timeLimit time.Duration) error {
	s, ok := model.ParseSound(sound)
	if !ok {
		return model.ErrUnknownSound
	}

	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != requester {
		return model.ErrNotTeacher
	}
	if !room.SetUp {
		return model.ErrRoomNotSetUp
	}

	if room.Round.Active {
		c.cancelTimer(roomID)
		room.Round.End(nil)
	}

	room.Round.Begin(s, expectedAnswers(room), c.clock.Now())
	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	if timeLimit > 0 {
		c.armTimer(roomID, timeLimit)
	}

	c.logger.Info("round started",
		slog.String("room_id", string(roomID)),
		slog.String("question", string(s)),
		slog.Int("expected", room.Round.Expected),
	)

	c.sink.Render(ctx, model.ViewUpdate{
		Scope: model.RoomScope(roomID),
		View:  model.ViewSoundGrid,
	})
	c.sink.Render(ctx, model.ViewUpdate{
		Scope:   model.RoomScope(roomID),
		View:    model.ViewGridLabels,
		Context: model.SoundLabels,
	})
	c.renderTally(ctx, room)
	c.sink.Emit(ctx, model.RoomScope(roomID), model.EventRoundReady, nil)
	c.sink.Emit(ctx, model.RoomScope(roomID), model.EventPlaySound, s)
	return nil
}

// renderTally refreshes the teacher's answer-count display.
func (c *Controller) renderTally(ctx context.Context, room *model.Room) {
	c.sink.Render(ctx, model.ViewUpdate{
		Scope: model.PlayerScope(room.OwnerID),
		View:  model.ViewAnswerTally,
		Context: map[string]any{
			"answers":  room.Round.AnswerCount,
			"expected": room.Round.Expected,
		},
	})
}

// expectedAnswers is the finish-line answer count frozen at round start:
// first-correct play needs one, score-based play needs one per respondent,
// and free-for-all always hears from everyone.
func expectedAnswers(room *model.Room) int {
	switch {
	case room.Mode.IsFreeForAll():
		return room.PlayerCount()
	case room.Mode.IsOneWinner():
		if room.Mode.Pace == model.PaceSpeed {
			return 1
		}
		return room.GroupCount()
	default:
		if room.Mode.Pace == model.PaceSpeed {
			return 1
		}
		return room.PlayerCount()
	}
}

// SubmitAnswer records a student's answer for the live round. Submissions
// outside a live round, repeat submissions, and submissions from non-members
// are all silently dropped.
func (c *Controller) SubmitAnswer(ctx context.Context, roomID model.RoomID, handle model.PlayerID, answer string) error {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.Round.Active || !room.HasPlayer(handle) || room.Round.HasAnswered(handle) {
		return nil
	}
	player, err := c.storage.GetPlayer(ctx, handle)
	if err != nil {
		return err
	}

	// An unknown answer string never matches the question; it simply counts
	// as incorrect.
	given, _ := model.ParseSound(answer)
	correct := given == room.Round.Question

	switch {
	case room.Mode.IsOneWinner():
		err = c.answerOneWinner(ctx, room, player, answer, correct)
	case room.Mode.IsFreeForAll():
		err = c.answerFreeForAll(ctx, room, player, correct)
	default:
		err = c.answerIndividual(ctx, room, player, correct)
	}
	if err != nil {
		return err
	}

	if room.Round.Active {
		c.renderTally(ctx, room)
	}
	room.UpdatedAt = c.clock.Now()
	return c.storage.SaveRoom(ctx, room)
}

// answerIndividual scores independent students. First-correct play resolves
// immediately on a correct answer; score-based play waits for everyone but
// still awards only the first correct answer.
func (c *Controller) answerIndividual(ctx context.Context, room *model.Room, player *model.Player, correct bool) error {
	r := &room.Round
	r.Answered[player.ID] = true
	r.AnswerCount++

	if correct {
		if r.CorrectCount == 0 {
			player.AddPoints(1)
			if err := c.storage.SavePlayer(ctx, player); err != nil {
				return err
			}
		}
		r.CorrectCount++

		if room.Mode.Pace == model.PaceSpeed {
			return c.finishRound(ctx, room, player.Name, nil)
		}
	}

	if room.Mode.Pace == model.PaceSpeed {
		// The finish line is one correct answer; the round only dies when
		// every current member has answered wrong.
		if r.AnswerCount >= room.PlayerCount() {
			return c.failRound(ctx, room, true)
		}
		return nil
	}

	if r.AnswerCount >= r.Expected {
		if r.CorrectCount > 0 {
			return c.finishRound(ctx, room, "", nil)
		}
		return c.failRound(ctx, room, true)
	}
	return nil
}

// answerOneWinner counts one answer per group. A member whose group already
// answered is told who used the group's answer and what they would have
// said; the notice fires once because the member is marked answered first.
func (c *Controller) answerOneWinner(ctx context.Context, room *model.Room, player *model.Player, rawAnswer string, correct bool) error {
	r := &room.Round
	group := room.GroupOf(player.ID)
	if group == nil {
		return nil
	}
	r.Answered[player.ID] = true

	if by, taken := r.GroupAnswers[group.ID]; taken {
		c.sink.Render(ctx, model.ViewUpdate{
			Scope: model.PlayerScope(player.ID),
			View:  model.ViewAlreadyAnswered,
			Context: model.AlreadyAnsweredContext{
				AnsweredBy:    by,
				MyAnswer:      rawAnswer,
				CorrectAnswer: r.Question,
			},
		})
		c.sink.Emit(ctx, model.PlayerScope(player.ID), model.EventAlreadyAnswered, by)
		return nil
	}

	r.GroupAnswers[group.ID] = player.Name
	r.AnswerCount++

	if correct {
		if r.CorrectCount == 0 || room.Mode.Pace == model.PaceSpeed {
			group.AddPoints(1)
		}
		r.CorrectCount++

		if room.Mode.Pace == model.PaceSpeed {
			return c.finishRound(ctx, room, string(group.ID), nil)
		}
	}

	if room.Mode.Pace == model.PaceSpeed {
		if r.AnswerCount >= room.GroupCount() {
			return c.failRound(ctx, room, true)
		}
		return nil
	}

	if r.AnswerCount >= r.Expected {
		if r.CorrectCount > 0 {
			return c.finishRound(ctx, room, "", nil)
		}
		return c.failRound(ctx, room, true)
	}
	return nil
}

// answerFreeForAll counts every member's answer, awarding each correct one
// and tracking the first correct member per group as the group's round
// winner. The round resolves once every expected answer is in.
func (c *Controller) answerFreeForAll(ctx context.Context, room *model.Room, player *model.Player, correct bool) error {
	r := &room.Round
	r.Answered[player.ID] = true
	r.AnswerCount++

	if correct {
		player.AddPoints(1)
		if err := c.storage.SavePlayer(ctx, player); err != nil {
			return err
		}
		r.CorrectCount++

		if group := room.GroupOf(player.ID); group != nil {
			if _, won := r.GroupWinners[group.ID]; !won {
				r.GroupWinners[group.ID] = player.Name
			}
		}
	}

	if r.AnswerCount >= r.Expected {
		if len(r.GroupWinners) > 0 {
			return c.finishRound(ctx, room, "", r.GroupWinners)
		}
		return c.failRound(ctx, room, true)
	}
	return nil
}

// SkipQuestion abandons the live round with no winner. The class still sees
// the standings, plus the sound they missed when revealAnswer is set. No-op
// when no round is live.
func (c *Controller) SkipQuestion(ctx context.Context, roomID model.RoomID, requester model.PlayerID, revealAnswer bool) error {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != requester {
		return model.ErrNotTeacher
	}
	if !room.Round.Active {
		return nil
	}

	if err := c.failRound(ctx, room, revealAnswer); err != nil {
		return err
	}
	room.UpdatedAt = c.clock.Now()
	return c.storage.SaveRoom(ctx, room)
}

// ForceFinish resolves the live round as if every silent member had
// answered incorrectly.
func (c *Controller) ForceFinish(ctx context.Context, roomID model.RoomID, requester model.PlayerID) error {
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != requester {
		return model.ErrNotTeacher
	}
	return c.resolveNow(ctx, room)
}

// resolveNow ends the live round with whatever answers are in. Caller holds
// the room lock.
func (c *Controller) resolveNow(ctx context.Context, room *model.Room) error {
	if !room.Round.Active {
		return nil
	}

	r := &room.Round
	var err error
	switch {
	case room.Mode.IsFreeForAll():
		if len(r.GroupWinners) > 0 {
			err = c.finishRound(ctx, room, "", r.GroupWinners)
		} else {
			err = c.failRound(ctx, room, true)
		}
	default:
		if r.CorrectCount > 0 {
			err = c.finishRound(ctx, room, "", nil)
		} else {
			err = c.failRound(ctx, room, true)
		}
	}
	if err != nil {
		return err
	}

	room.UpdatedAt = c.clock.Now()
	return c.storage.SaveRoom(ctx, room)
}

// finishRound resolves a round that produced at least one correct answer:
// rank, cache the snapshot, and push the leaderboard to the whole room.
func (c *Controller) finishRound(ctx context.Context, room *model.Room, winner string, winners map[model.GroupID]string) error {
	c.cancelTimer(room.ID)

	question := room.Round.Question
	result, err := c.ranking.Rank(ctx, room)
	if err != nil {
		return err
	}
	room.Round.End(result)

	payload := model.LeaderboardContext{
		Ranking:  result,
		Question: question,
		Winner:   winner,
		Winners:  winners,
	}

	c.logger.Info("round finished",
		slog.String("room_id", string(room.ID)),
		slog.String("question", string(question)),
		slog.String("winner", winner),
	)

	c.sink.Render(ctx, model.ViewUpdate{
		Scope:   model.RoomScope(room.ID),
		View:    model.ViewLeaderboard,
		Context: payload,
	})
	c.sink.Emit(ctx, model.RoomScope(room.ID), model.EventRoundFinished, payload)
	return nil
}

// failRound resolves a round with no winner. The standings are still ranked,
// cached, and pushed to the room; reveal controls whether the missed sound
// goes out with them.
func (c *Controller) failRound(ctx context.Context, room *model.Room, reveal bool) error {
	c.cancelTimer(room.ID)

	question := room.Round.Question
	result, err := c.ranking.Rank(ctx, room)
	if err != nil {
		return err
	}
	room.Round.End(result)

	payload := model.LeaderboardContext{Ranking: result}
	if reveal {
		payload.Question = question
	}

	c.logger.Info("round failed",
		slog.String("room_id", string(room.ID)),
		slog.String("question", string(question)),
	)

	c.sink.Render(ctx, model.ViewUpdate{
		Scope:   model.RoomScope(room.ID),
		View:    model.ViewLeaderboard,
		Context: payload,
	})
	c.sink.Emit(ctx, model.RoomScope(room.ID), model.EventRoundFailed, payload)
	return nil
}

// armTimer schedules the round time limit, replacing any previous timer for
// the room. The callback takes the room lock itself, so it must not run
// under it.
func (c *Controller) armTimer(roomID model.RoomID, d time.Duration) {
	c.mu.Lock()
	if cancel, ok := c.timers[roomID]; ok {
		cancel()
	}
	c.timers[roomID] = c.scheduler.Schedule(d, func() {
		c.expireRound(roomID)
	})
	c.mu.Unlock()
}

func (c *Controller) cancelTimer(roomID model.RoomID) {
	c.mu.Lock()
	if cancel, ok := c.timers[roomID]; ok {
		cancel()
		delete(c.timers, roomID)
	}
	c.mu.Unlock()
}

// expireRound is the timer callback. A timer that fires after its round
// already resolved finds Active false and does nothing, so the resolve path
// and the timer can race safely.
func (c *Controller) expireRound(roomID model.RoomID) {
	c.mu.Lock()
	delete(c.timers, roomID)
	c.mu.Unlock()

	ctx := context.Background()
	defer c.locks.Lock(roomID)()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return
	}
	if err := c.resolveNow(ctx, room); err != nil {
		c.logger.Error("round expiry failed",
			slog.String("room_id", string(roomID)),
			slog.Any("error", err),
		)
	}
}

// ControllerInterface describes the round controller for dependency injection
type ControllerInterface interface {
	SetQuestion(ctx context.Context, roomID model.RoomID, requester model.PlayerID, sound string, timeLimit time.Duration) error
	SubmitAnswer(ctx context.Context, roomID model.RoomID, handle model.PlayerID, answer string) error
	SkipQuestion(ctx context.Context, roomID model.RoomID, requester model.PlayerID, revealAnswer bool) error
	ForceFinish(ctx context.Context, roomID model.RoomID, requester model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
