package request

// ConnectRequest is the request body for opening a session
type ConnectRequest struct {
	Teacher bool `json:"teacher"`
}

// SetUsernameRequest is the request body for claiming a display name
type SetUsernameRequest struct {
	Name string `json:"name"`
}

// ReconnectRequest is the request body for restoring a held session from the
// client's prior-state snapshot
type ReconnectRequest struct {
	Name   string `json:"name"`
	RoomID string `json:"room_id"`
	Group  string `json:"group,omitempty"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// ConfigureRoomRequest is the request body for setting up a room
type ConfigureRoomRequest struct {
	Kind            string `json:"kind"`
	Grouping        string `json:"grouping,omitempty"`
	Pace            string `json:"pace,omitempty"`
	StudentCount    int    `json:"student_count,omitempty"`
	NumGroups       int    `json:"num_groups,omitempty"`
	PlayersPerGroup int    `json:"players_per_group,omitempty"`
	AutoAssign      bool   `json:"auto_assign,omitempty"`
}

// ChangeModeRequest is the request body for switching a room's mode mid-game
type ChangeModeRequest struct {
	Kind     string `json:"kind"`
	Grouping string `json:"grouping,omitempty"`
	Pace     string `json:"pace,omitempty"`
}

// JoinGroupRequest is the request body for picking a group
type JoinGroupRequest struct {
	GroupID string `json:"group_id,omitempty"`
}

// KickRequest is the request body for removing a student from a room
type KickRequest struct {
	PlayerID string `json:"player_id"`
}

// SetQuestionRequest is the request body for starting a round
type SetQuestionRequest struct {
	Sound            string `json:"sound"`
	TimeLimitSeconds int    `json:"time_limit_seconds,omitempty"`
}

// SkipRequest is the request body for skipping the live question
type SkipRequest struct {
	RevealAnswer bool `json:"reveal_answer,omitempty"`
}

// AnswerRequest is the request body for submitting an answer
type AnswerRequest struct {
	Sound string `json:"sound"`
}

// PlaySoundRequest is the request body for replaying a sound to the room
type PlaySoundRequest struct {
	Sound string `json:"sound"`
}

// WordRequest is the request body for word-list edits
type WordRequest struct {
	Sound string `json:"sound"`
	Word  string `json:"word"`
}
