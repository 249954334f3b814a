package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/soundround/soundround/internal/api/middleware"
	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/sse"
)

// StreamHandler serves the SSE event streams
type StreamHandler struct {
	hubs *sse.HubManager
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(hubs *sse.HubManager) *StreamHandler {
	return &StreamHandler{hubs: hubs}
}

// Lobby handles GET /api/v1/stream. Clients connect here right after
// opening a session, before they have a room.
func (h *StreamHandler) Lobby(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	hub := h.hubs.GetOrCreateHub("")
	sse.ServeSSE(w, r, hub, player.ID)
}

// Room handles GET /api/v1/rooms/{room}/stream
func (h *StreamHandler) Room(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])
	hub := h.hubs.GetOrCreateHub(roomID)
	sse.ServeSSE(w, r, hub, player.ID)
}
