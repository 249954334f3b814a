package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/soundround/soundround/internal/dependencies/mocks"
	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/render"
	"github.com/soundround/soundround/internal/roomlock"
	"github.com/soundround/soundround/internal/services/ranking"
	"github.com/soundround/soundround/internal/storage/memory"
	"github.com/soundround/soundround/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	recorder   *render.Recorder
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.recorder = render.NewRecorder()
	logger := testutil.NopLogger()
	rankingService := ranking.New(s.storage)
	s.controller = NewController(s.storage, roomlock.New(), rankingService, s.recorder, s.clock, s.random, logger)
	s.ctx = context.Background()
}

func (s *ControllerSuite) addTeacher(id string) model.PlayerID {
	player := &model.Player{ID: model.PlayerID(id), Name: "Teacher", IsTeacher: true, CreatedAt: s.clock.Now()}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	return player.ID
}

func (s *ControllerSuite) addStudent(id, name string) model.PlayerID {
	player := &model.Player{ID: model.PlayerID(id), Name: name, CreatedAt: s.clock.Now()}
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	return player.ID
}

func (s *ControllerSuite) createRoom(owner model.PlayerID, name string) *model.Room {
	room, err := s.controller.CreateRoom(s.ctx, owner, name)
	s.Require().NoError(err)
	return room
}

func (s *ControllerSuite) configureIndividual(roomID model.RoomID, owner model.PlayerID) {
	err := s.controller.ConfigureRoom(s.ctx, roomID, owner, ConfigureOptions{
		Mode: model.Mode{Kind: model.KindIndividual, Pace: model.PaceSpeed},
	})
	s.Require().NoError(err)
}

// CreateRoom tests

func (s *ControllerSuite) TestCreateRoomSucceeds() {
	teacher := s.addTeacher("t1")

	room := s.createRoom(teacher, "maths")

	s.Equal(model.RoomID("maths"), room.ID)
	s.Equal(teacher, room.OwnerID)
	s.False(room.SetUp)
	s.Equal(model.DefaultMode(), room.Mode)
	s.Len(room.Words, len(model.Sounds))
}

func (s *ControllerSuite) TestCreateRoomRejectsShortName() {
	teacher := s.addTeacher("t1")

	_, err := s.controller.CreateRoom(s.ctx, teacher, "abc")
	s.ErrorIs(err, model.ErrNameTooShort)

	_, err = s.controller.CreateRoom(s.ctx, teacher, "   ")
	s.ErrorIs(err, model.ErrNameRequired)
}

func (s *ControllerSuite) TestCreateRoomRejectsStudents() {
	student := s.addStudent("p1", "Alice")

	_, err := s.controller.CreateRoom(s.ctx, student, "maths")
	s.ErrorIs(err, model.ErrNotTeacher)
}

func (s *ControllerSuite) TestCreateRoomDuplicateNameGetsSuffix() {
	teacher := s.addTeacher("t1")
	s.createRoom(teacher, "maths")

	s.random.QueueString("7")
	room := s.createRoom(teacher, "maths")

	s.Equal(model.RoomID("maths7"), room.ID)
}

// ConfigureRoom tests

func (s *ControllerSuite) TestConfigureRoomBandsSmallClass() {
	teacher := s.addTeacher("t1")
	room := s.createRoom(teacher, "maths")

	err := s.controller.ConfigureRoom(s.ctx, room.ID, teacher, ConfigureOptions{
		Mode:         model.Mode{Kind: model.KindGrouped, Grouping: model.GroupingOneWinner, Pace: model.PaceSpeed},
		StudentCount: 5,
	})
	s.Require().NoError(err)

	got, err := s.controller.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	s.True(got.SetUp)
	// 5 students in pairs makes 3 groups
	s.Len(got.Groups, 3)
	s.Equal(2, got.Groups[0].BaseNumber)
}

func (s *ControllerSuite) TestConfigureRoomBandsLargeClass() {
	teacher := s.addTeacher("t1")
	room := s.createRoom(teacher, "maths")

	err := s.controller.ConfigureRoom(s.ctx, room.ID, teacher, ConfigureOptions{
		Mode:         model.Mode{Kind: model.KindGrouped, Grouping: model.GroupingFreeForAll},
		StudentCount: 30,
	})
	s.Require().NoError(err)

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Len(got.Groups, 6)
	s.Equal(5, got.Groups[0].BaseNumber)
}

func (s *ControllerSuite) TestConfigureRoomExplicitLayout() {
	teacher := s.addTeacher("t1")
	room := s.createRoom(teacher, "maths")

	err := s.controller.ConfigureRoom(s.ctx, room.ID, teacher, ConfigureOptions{
		Mode:            model.Mode{Kind: model.KindGrouped, Grouping: model.GroupingOneWinner, Pace: model.PaceScore},
		NumGroups:       4,
		PlayersPerGroup: 3,
	})
	s.Require().NoError(err)

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Len(got.Groups, 4)
	s.Equal(3, got.Groups[0].BaseNumber)
}

func (s *ControllerSuite) TestConfigureRoomRejectsInvalidMode() {
	teacher := s.addTeacher("t1")
	room := s.createRoom(teacher, "maths")

	err := s.controller.ConfigureRoom(s.ctx, room.ID, teacher, ConfigureOptions{
		Mode: model.Mode{Kind: model.KindGrouped},
	})
	s.ErrorIs(err, model.ErrInvalidRoomOptions)
}

func (s *ControllerSuite) TestConfigureRoomRejectsNonOwner() {
	teacher := s.addTeacher("t1")
	other := s.addTeacher("t2")
	room := s.createRoom(teacher, "maths")

	err := s.controller.ConfigureRoom(s.ctx, room.ID, other, ConfigureOptions{
		Mode: model.Mode{Kind: model.KindIndividual, Pace: model.PaceSpeed},
	})
	s.ErrorIs(err, model.ErrNotTeacher)
}

// JoinRoom tests

func (s *ControllerSuite) TestJoinRoomBeforeSetupFails() {
	teacher := s.addTeacher("t1")
	student := s.addStudent("p1", "Alice")
	room := s.createRoom(teacher, "maths")

	err := s.controller.JoinRoom(s.ctx, room.ID, student)
	s.ErrorIs(err, model.ErrRoomNotSetUp)
}

func (s *ControllerSuite) TestJoinRoomAddsStudent() {
	teacher := s.addTeacher("t1")
	student := s.addStudent("p1", "Alice")
	room := s.createRoom(teacher, "maths")
	s.configureIndividual(room.ID, teacher)

	s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, student))

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.True(got.HasPlayer(student))

	player, _ := s.storage.GetPlayer(s.ctx, student)
	s.Equal(room.ID, player.Room)
}

func (s *ControllerSuite) TestJoinRoomShowsCachedLeaderboard() {
	teacher := s.addTeacher("t1")
	first := s.addStudent("p1", "Alice")
	room := s.createRoom(teacher, "maths")
	s.configureIndividual(room.ID, teacher)
	s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, first))

	player, _ := s.storage.GetPlayer(s.ctx, first)
	player.Points = 2
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))
	_, err := s.controller.SendLeaderboard(s.ctx, room.ID)
	s.Require().NoError(err)

	// A late joiner catches up on the cached standings
	late := s.addStudent("p2", "Bob")
	s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, late))

	boards := s.recorder.UpdatesFor(model.ViewLeaderboard)
	s.Require().Len(boards, 2)
	s.Equal([]model.PlayerID{late}, boards[1].Scope.Players)
	payload := boards[1].Context.(model.LeaderboardContext)
	s.Equal("Alice", payload.Ranking.Entries[0].Name)
}

func (s *ControllerSuite) TestJoinRoomUnknownRoom() {
	student := s.addStudent("p1", "Alice")

	err := s.controller.JoinRoom(s.ctx, "nope", student)
	s.ErrorIs(err, model.ErrRoomNotFound)
}

// AssignGroup tests

func (s *ControllerSuite) groupedRoom(teacher model.PlayerID, autoAssign bool) *model.Room {
	room := s.createRoom(teacher, "maths")
	err := s.controller.ConfigureRoom(s.ctx, room.ID, teacher, ConfigureOptions{
		Mode:         model.Mode{Kind: model.KindGrouped, Grouping: model.GroupingOneWinner, Pace: model.PaceSpeed},
		StudentCount: 4,
		AutoAssign:   autoAssign,
	})
	s.Require().NoError(err)
	got, err := s.controller.GetRoom(s.ctx, room.ID)
	s.Require().NoError(err)
	return got
}

func (s *ControllerSuite) TestAutoAssignFillsLeastLoaded() {
	teacher := s.addTeacher("t1")
	room := s.groupedRoom(teacher, true)

	for i, id := range []string{"p1", "p2", "p3"} {
		student := s.addStudent(id, "Student"+string(rune('A'+i)))
		s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, student))
		s.Require().NoError(s.controller.AssignGroup(s.ctx, room.ID, student, ""))
	}

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	// 4 students banded in pairs makes 2 groups; p1 and p2 fill them before
	// p3 doubles up
	s.Equal(2, got.Groups[0].MemberCount())
	s.Equal(1, got.Groups[1].MemberCount())
}

func (s *ControllerSuite) TestAssignGroupOverflowsWhenFull() {
	teacher := s.addTeacher("t1")
	room := s.groupedRoom(teacher, true)

	// 2 groups x capacity 2; the fifth student overflows
	for i := 0; i < 5; i++ {
		id := model.PlayerID([]string{"p1", "p2", "p3", "p4", "p5"}[i])
		s.addStudent(string(id), "Student"+string(rune('A'+i)))
		s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, id))
		s.Require().NoError(s.controller.AssignGroup(s.ctx, room.ID, id, ""))
	}

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Equal(5, got.Groups[0].MemberCount()+got.Groups[1].MemberCount())
	s.GreaterOrEqual(got.Groups[0].MemberCount(), 2)
}

func (s *ControllerSuite) TestManualAssignRequiresGroupID() {
	teacher := s.addTeacher("t1")
	room := s.groupedRoom(teacher, false)
	student := s.addStudent("p1", "Alice")
	s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, student))

	err := s.controller.AssignGroup(s.ctx, room.ID, student, "")
	s.ErrorIs(err, model.ErrGroupNotFound)

	s.Require().NoError(s.controller.AssignGroup(s.ctx, room.ID, student, "group-2"))
	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.True(got.GetGroup("group-2").HasMember(student))
}

func (s *ControllerSuite) TestReassignMovesBetweenGroups() {
	teacher := s.addTeacher("t1")
	room := s.groupedRoom(teacher, false)
	student := s.addStudent("p1", "Alice")
	s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, student))

	s.Require().NoError(s.controller.AssignGroup(s.ctx, room.ID, student, "group-1"))
	s.Require().NoError(s.controller.AssignGroup(s.ctx, room.ID, student, "group-2"))

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.False(got.GetGroup("group-1").HasMember(student))
	s.True(got.GetGroup("group-2").HasMember(student))
}

// ChangeGameMode tests

func (s *ControllerSuite) TestChangeGameModeResetsScores() {
	teacher := s.addTeacher("t1")
	student := s.addStudent("p1", "Alice")
	room := s.createRoom(teacher, "maths")
	s.configureIndividual(room.ID, teacher)
	s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, student))

	player, _ := s.storage.GetPlayer(s.ctx, student)
	player.Points = 7
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	before := s.clock.Now()
	s.clock.Advance(time.Minute)
	err := s.controller.ChangeGameMode(s.ctx, room.ID, teacher, model.Mode{Kind: model.KindIndividual, Pace: model.PaceScore})
	s.Require().NoError(err)

	player, _ = s.storage.GetPlayer(s.ctx, student)
	s.Equal(0, player.Points)

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.True(got.ModeChangedAt.After(before))
	s.Equal(model.PaceScore, got.Mode.Pace)
}

func (s *ControllerSuite) TestChangeGameModeEndsActiveRound() {
	teacher := s.addTeacher("t1")
	room := s.createRoom(teacher, "maths")
	s.configureIndividual(room.ID, teacher)

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	got.Round.Begin(model.SoundShortA, 1, s.clock.Now())
	s.Require().NoError(s.storage.SaveRoom(s.ctx, got))

	err := s.controller.ChangeGameMode(s.ctx, room.ID, teacher, model.Mode{Kind: model.KindIndividual, Pace: model.PaceScore})
	s.Require().NoError(err)

	got, _ = s.controller.GetRoom(s.ctx, room.ID)
	s.False(got.Round.Active)
}

// KickPlayer tests

func (s *ControllerSuite) TestKickPlayerRemovesAndNotifies() {
	teacher := s.addTeacher("t1")
	student := s.addStudent("p1", "Alice")
	room := s.createRoom(teacher, "maths")
	s.configureIndividual(room.ID, teacher)
	s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, student))

	s.Require().NoError(s.controller.KickPlayer(s.ctx, room.ID, teacher, student))

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.False(got.HasPlayer(student))

	kicked := s.recorder.EventsNamed(model.EventKicked)
	s.Require().Len(kicked, 1)
	s.Equal([]model.PlayerID{student}, kicked[0].Scope.Players)

	notices := s.recorder.UpdatesFor(model.ViewNotice)
	s.Require().Len(notices, 1)
	s.Equal("kicked", notices[0].Context.(model.NoticeContext).Code)
}

func (s *ControllerSuite) TestKickPlayerRequiresOwner() {
	teacher := s.addTeacher("t1")
	student := s.addStudent("p1", "Alice")
	room := s.createRoom(teacher, "maths")

	err := s.controller.KickPlayer(s.ctx, room.ID, student, student)
	s.ErrorIs(err, model.ErrNotTeacher)
}

// EndGame tests

func (s *ControllerSuite) TestEndGameRanksAndDestroys() {
	teacher := s.addTeacher("t1")
	student := s.addStudent("p1", "Alice")
	room := s.createRoom(teacher, "maths")
	s.configureIndividual(room.ID, teacher)
	s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, student))

	player, _ := s.storage.GetPlayer(s.ctx, student)
	player.Points = 3
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	result, err := s.controller.EndGame(s.ctx, room.ID, teacher)
	s.Require().NoError(err)
	s.Require().Len(result.Entries, 1)
	s.Equal("Alice", result.Entries[0].Name)

	_, err = s.controller.GetRoom(s.ctx, room.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)

	player, _ = s.storage.GetPlayer(s.ctx, student)
	s.Empty(player.Room)

	s.Len(s.recorder.UpdatesFor(model.ViewPodium), 1)
	s.Len(s.recorder.EventsNamed(model.EventGameOver), 1)
}

func (s *ControllerSuite) TestDestroyRoomsOwnedBy() {
	teacher := s.addTeacher("t1")
	s.createRoom(teacher, "maths")
	s.createRoom(teacher, "science")

	s.Require().NoError(s.controller.DestroyRoomsOwnedBy(s.ctx, teacher))

	_, err := s.controller.GetRoom(s.ctx, "maths")
	s.ErrorIs(err, model.ErrRoomNotFound)
	_, err = s.controller.GetRoom(s.ctx, "science")
	s.ErrorIs(err, model.ErrRoomNotFound)
	s.Len(s.recorder.EventsNamed(model.EventHostDisconnected), 2)
}

// Word list tests

func (s *ControllerSuite) TestWordListLifecycle() {
	teacher := s.addTeacher("t1")
	room := s.createRoom(teacher, "maths")

	s.Require().NoError(s.controller.AddWord(s.ctx, room.ID, teacher, "ee", "tree"))
	s.Require().NoError(s.controller.AddWord(s.ctx, room.ID, teacher, "EE", "sea"))

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Equal([]string{"tree", "sea"}, got.Words[model.SoundLongE])

	s.Require().NoError(s.controller.RemoveWord(s.ctx, room.ID, teacher, "ee", "tree"))
	got, _ = s.controller.GetRoom(s.ctx, room.ID)
	s.Equal([]string{"sea"}, got.Words[model.SoundLongE])

	s.Require().NoError(s.controller.ClearWordLists(s.ctx, room.ID, teacher))
	got, _ = s.controller.GetRoom(s.ctx, room.ID)
	s.Empty(got.Words[model.SoundLongE])
}

func (s *ControllerSuite) TestAddWordUnknownSound() {
	teacher := s.addTeacher("t1")
	room := s.createRoom(teacher, "maths")

	err := s.controller.AddWord(s.ctx, room.ID, teacher, "ZZ", "buzz")
	s.ErrorIs(err, model.ErrUnknownSound)
}

func (s *ControllerSuite) TestToggleWordSearch() {
	teacher := s.addTeacher("t1")
	room := s.createRoom(teacher, "maths")

	enabled, err := s.controller.ToggleWordSearch(s.ctx, room.ID, teacher)
	s.Require().NoError(err)
	s.True(enabled)

	enabled, err = s.controller.ToggleWordSearch(s.ctx, room.ID, teacher)
	s.Require().NoError(err)
	s.False(enabled)
}

// PlaySound tests

func (s *ControllerSuite) TestPlaySoundBroadcasts() {
	teacher := s.addTeacher("t1")
	room := s.createRoom(teacher, "maths")

	s.Require().NoError(s.controller.PlaySound(s.ctx, room.ID, teacher, "oa"))

	events := s.recorder.EventsNamed(model.EventPlaySound)
	s.Require().Len(events, 1)
	s.Equal(model.SoundLongO, events[0].Payload)
}

func (s *ControllerSuite) TestSendLeaderboardCachesSnapshot() {
	teacher := s.addTeacher("t1")
	student := s.addStudent("p1", "Alice")
	room := s.createRoom(teacher, "maths")
	s.configureIndividual(room.ID, teacher)
	s.Require().NoError(s.controller.JoinRoom(s.ctx, room.ID, student))

	player, _ := s.storage.GetPlayer(s.ctx, student)
	player.Points = 2
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	result, err := s.controller.SendLeaderboard(s.ctx, room.ID)
	s.Require().NoError(err)
	s.Require().Len(result.Entries, 1)

	got, _ := s.controller.GetRoom(s.ctx, room.ID)
	s.Equal(result, got.Round.LastLeaderboard)
	s.Len(s.recorder.UpdatesFor(model.ViewLeaderboard), 1)
}
