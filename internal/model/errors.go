package model

import "errors"

// Common errors used across the application
var (
	// Validation errors
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooShort       = errors.New("name must be at least 4 characters")
	ErrDuplicateName      = errors.New("display name already in use")
	ErrInvalidRoomOptions = errors.New("invalid room options")
	ErrUnknownSound       = errors.New("unrecognized sound category")

	// Authorization errors
	ErrNotTeacher = errors.New("only a teacher can do this")

	// Not-found errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrRoomNotFound   = errors.New("room not found")
	ErrGroupNotFound  = errors.New("group not found")

	// State conflicts
	ErrDuplicateRoom = errors.New("room already exists")
	ErrRoomNotSetUp  = errors.New("room has not been set up")

	// Reconnection
	ErrFreshLoginRequired = errors.New("prior state unusable, fresh login required")
)
