package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soundround/soundround/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNameRequired       = "NAME_REQUIRED"
	CodeNameTooShort       = "NAME_TOO_SHORT"
	CodeDuplicateName      = "DUPLICATE_NAME"
	CodeInvalidRoomOptions = "INVALID_ROOM_OPTIONS"
	CodeUnknownSound       = "UNKNOWN_SOUND"
	CodeNotTeacher         = "NOT_TEACHER"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeRoomNotFound       = "ROOM_NOT_FOUND"
	CodeGroupNotFound      = "GROUP_NOT_FOUND"
	CodeDuplicateRoom      = "DUPLICATE_ROOM"
	CodeRoomNotSetUp       = "ROOM_NOT_SET_UP"
	CodeFreshLoginRequired = "FRESH_LOGIN_REQUIRED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrNameRequired):
		return &httpError{http.StatusBadRequest, APIError{CodeNameRequired, "A name is required"}}
	case errors.Is(err, model.ErrNameTooShort):
		return &httpError{http.StatusBadRequest, APIError{CodeNameTooShort, "Names must be at least four characters"}}
	case errors.Is(err, model.ErrDuplicateName):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateName, "That name is already in use"}}
	case errors.Is(err, model.ErrInvalidRoomOptions):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidRoomOptions, "Invalid room options"}}
	case errors.Is(err, model.ErrUnknownSound):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownSound, "Unknown sound category"}}
	case errors.Is(err, model.ErrNotTeacher):
		return &httpError{http.StatusForbidden, APIError{CodeNotTeacher, "Only the room's teacher can perform this action"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}
	case errors.Is(err, model.ErrGroupNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGroupNotFound, "Group not found"}}
	case errors.Is(err, model.ErrDuplicateRoom):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateRoom, "A room with that name already exists"}}
	case errors.Is(err, model.ErrRoomNotSetUp):
		return &httpError{http.StatusConflict, APIError{CodeRoomNotSetUp, "The room has not been set up yet"}}
	case errors.Is(err, model.ErrFreshLoginRequired):
		return &httpError{http.StatusGone, APIError{CodeFreshLoginRequired, "Session expired; log in again"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "A player handle is required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
