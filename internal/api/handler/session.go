package handler

import (
	"encoding/json"
	"net/http"

	"github.com/soundround/soundround/internal/api/middleware"
	"github.com/soundround/soundround/internal/api/request"
	"github.com/soundround/soundround/internal/api/response"
	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/services/session"
)

// SessionHandler handles session and login endpoints
type SessionHandler struct {
	sessions session.ControllerInterface
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions session.ControllerInterface) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Connect handles POST /api/v1/sessions
func (h *SessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var req request.ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Empty body means a student connection
		req = request.ConnectRequest{}
	}

	player, err := h.sessions.Connect(r.Context(), req.Teacher)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.PlayerFromModel(player))
}

// SetUsername handles POST /api/v1/sessions/me/username
func (h *SessionHandler) SetUsername(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.SetUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	updated, err := h.sessions.SetUsername(r.Context(), player.ID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(updated))
}

// Reconnect handles POST /api/v1/sessions/me/reconnect
func (h *SessionHandler) Reconnect(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.ReconnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	restored, err := h.sessions.Reconnect(r.Context(), player.ID, session.PriorState{
		Name:   req.Name,
		RoomID: model.RoomID(req.RoomID),
		Group:  model.GroupID(req.Group),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PlayerFromModel(restored))
}

// GetMe handles GET /api/v1/sessions/me
func (h *SessionHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	response.JSON(w, http.StatusOK, response.PlayerFromModel(player))
}

// Disconnect handles DELETE /api/v1/sessions/me
func (h *SessionHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	if err := h.sessions.Disconnect(r.Context(), player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
