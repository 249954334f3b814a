package model

// EventType names a broadcast event delivered over the real-time channel.
type EventType string

const (
	// Session events
	EventLoginSuccess     EventType = "login_success"
	EventHostDisconnected EventType = "host_disconnected"
	EventKicked           EventType = "kicked"

	// Room events
	EventRoomJoined  EventType = "room_joined"
	EventRoomSetUp   EventType = "room_set_up"
	EventGroupJoined EventType = "group_joined"
	EventGameOver    EventType = "game_over"

	// Round events
	EventRoundReady       EventType = "round_ready"
	EventPlaySound        EventType = "play_sound"
	EventRoundFinished    EventType = "round_finished"
	EventRoundFailed      EventType = "round_failed"
	EventAlreadyAnswered  EventType = "already_answered"
	EventModeChanged      EventType = "mode_changed"
	EventWordListsChanged EventType = "word_lists_changed"
)

// View names a client-side view the rendering collaborator should draw. The
// engine never formats presentation; it only picks a view and supplies
// context.
type View string

const (
	ViewRoomName        View = "room_name"
	ViewRoomOptions     View = "room_options"
	ViewUsername        View = "username"
	ViewWaitingRoom     View = "waiting_room"
	ViewSoundGrid       View = "sound_grid"
	ViewGridLabels      View = "grid_labels"
	ViewAnswerTally     View = "answer_tally"
	ViewLeaderboard     View = "leaderboard"
	ViewPodium          View = "podium"
	ViewAlreadyAnswered View = "already_answered"
	ViewNotice          View = "notice"
)

// Scope addresses the recipients of a render or broadcast: a whole room, or
// a specific subset of players (possibly outside any room, e.g. during
// login).
type Scope struct {
	Room    RoomID
	Players []PlayerID // if non-empty, deliver only to these players
}

// RoomScope addresses every member of a room.
func RoomScope(room RoomID) Scope {
	return Scope{Room: room}
}

// PlayerScope addresses a single player.
func PlayerScope(player PlayerID) Scope {
	return Scope{Players: []PlayerID{player}}
}

// ViewUpdate is the opaque rendering instruction handed to the rendering
// collaborator: draw this view, for these recipients, with this context.
type ViewUpdate struct {
	Scope   Scope
	View    View
	Context any
}

// LeaderboardContext is the render context for leaderboard views.
type LeaderboardContext struct {
	Ranking  *RankingResult     `json:"ranking"`
	Question Sound              `json:"question,omitempty"`
	Winner   string             `json:"winner,omitempty"`
	Winners  map[GroupID]string `json:"winners,omitempty"`
}

// AlreadyAnsweredContext is the render context shown to a student whose
// group already used its answer this round.
type AlreadyAnsweredContext struct {
	AnsweredBy    string `json:"answered_by"`
	MyAnswer      string `json:"my_answer"`
	CorrectAnswer Sound  `json:"correct_answer"`
}

// NoticeContext is the render context for user-facing error notices, keyed
// by the error taxonomy code the API surfaces.
type NoticeContext struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
