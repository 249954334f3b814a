package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/soundround/soundround/internal/api/middleware"
	"github.com/soundround/soundround/internal/api/request"
	"github.com/soundround/soundround/internal/api/response"
	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/services/room"
)

// RoomHandler handles room lifecycle and membership endpoints
type RoomHandler struct {
	rooms room.ControllerInterface
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms room.ControllerInterface) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	created, err := h.rooms.CreateRoom(r.Context(), player.ID, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.RoomFromModel(created))
}

// Get handles GET /api/v1/rooms/{room}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["room"])

	rm, err := h.rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Configure handles PATCH /api/v1/rooms/{room}/config
func (h *RoomHandler) Configure(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	var req request.ConfigureRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	err := h.rooms.ConfigureRoom(r.Context(), roomID, player.ID, room.ConfigureOptions{
		Mode: model.Mode{
			Kind:     model.RoomKind(req.Kind),
			Grouping: model.Grouping(req.Grouping),
			Pace:     model.Pace(req.Pace),
		},
		StudentCount:    req.StudentCount,
		NumGroups:       req.NumGroups,
		PlayersPerGroup: req.PlayersPerGroup,
		AutoAssign:      req.AutoAssign,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	rm, err := h.rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// Join handles POST /api/v1/rooms/{room}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	if err := h.rooms.JoinRoom(r.Context(), roomID, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	rm, err := h.rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.RoomFromModel(rm))
}

// JoinGroup handles POST /api/v1/rooms/{room}/group
func (h *RoomHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	var req request.JoinGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// Empty body is fine when the room auto-assigns
		req = request.JoinGroupRequest{}
	}

	if err := h.rooms.AssignGroup(r.Context(), roomID, player.ID, model.GroupID(req.GroupID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Leave handles POST /api/v1/rooms/{room}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	if err := h.rooms.RemovePlayer(r.Context(), roomID, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Kick handles POST /api/v1/rooms/{room}/kick
func (h *RoomHandler) Kick(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	var req request.KickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.rooms.KickPlayer(r.Context(), roomID, player.ID, model.PlayerID(req.PlayerID)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ChangeMode handles PATCH /api/v1/rooms/{room}/mode
func (h *RoomHandler) ChangeMode(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	var req request.ChangeModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	mode := model.Mode{
		Kind:     model.RoomKind(req.Kind),
		Grouping: model.Grouping(req.Grouping),
		Pace:     model.Pace(req.Pace),
	}
	if err := h.rooms.ChangeGameMode(r.Context(), roomID, player.ID, mode); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// EndGame handles DELETE /api/v1/rooms/{room}
func (h *RoomHandler) EndGame(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	result, err := h.rooms.EndGame(r.Context(), roomID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Leaderboard{Ranking: result})
}

// Leaderboard handles GET /api/v1/rooms/{room}/leaderboard
func (h *RoomHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	roomID := model.RoomID(mux.Vars(r)["room"])

	result, err := h.rooms.SendLeaderboard(r.Context(), roomID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.Leaderboard{Ranking: result})
}

// AddWord handles POST /api/v1/rooms/{room}/words
func (h *RoomHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	var req request.WordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.rooms.AddWord(r.Context(), roomID, player.ID, req.Sound, req.Word); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// RemoveWord handles DELETE /api/v1/rooms/{room}/words
func (h *RoomHandler) RemoveWord(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	var req request.WordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.rooms.RemoveWord(r.Context(), roomID, player.ID, req.Sound, req.Word); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ClearWords handles DELETE /api/v1/rooms/{room}/words/all
func (h *RoomHandler) ClearWords(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	if err := h.rooms.ClearWordLists(r.Context(), roomID, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// ToggleWordSearch handles POST /api/v1/rooms/{room}/word-search
func (h *RoomHandler) ToggleWordSearch(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	enabled, err := h.rooms.ToggleWordSearch(r.Context(), roomID, player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WordSearchResponse{WordSearch: enabled})
}

// PlaySound handles POST /api/v1/rooms/{room}/play
func (h *RoomHandler) PlaySound(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	var req request.PlaySoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.rooms.PlaySound(r.Context(), roomID, player.ID, req.Sound); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
