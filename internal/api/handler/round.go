package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/soundround/soundround/internal/api/middleware"
	"github.com/soundround/soundround/internal/api/request"
	"github.com/soundround/soundround/internal/api/response"
	"github.com/soundround/soundround/internal/model"
	"github.com/soundround/soundround/internal/services/round"
)

// RoundHandler handles question-round endpoints
type RoundHandler struct {
	rounds round.ControllerInterface
}

// NewRoundHandler creates a new round handler
func NewRoundHandler(rounds round.ControllerInterface) *RoundHandler {
	return &RoundHandler{rounds: rounds}
}

// SetQuestion handles POST /api/v1/rooms/{room}/question
func (h *RoundHandler) SetQuestion(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	var req request.SetQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	timeLimit := time.Duration(req.TimeLimitSeconds) * time.Second
	if err := h.rounds.SetQuestion(r.Context(), roomID, player.ID, req.Sound, timeLimit); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Answer handles POST /api/v1/rooms/{room}/answer
func (h *RoundHandler) Answer(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	var req request.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}

	if err := h.rounds.SubmitAnswer(r.Context(), roomID, player.ID, req.Sound); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Skip handles POST /api/v1/rooms/{room}/question/skip
func (h *RoundHandler) Skip(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	// The body is optional; an absent body means no reveal
	var req request.SkipRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.rounds.SkipQuestion(r.Context(), roomID, player.ID, req.RevealAnswer); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Finish handles POST /api/v1/rooms/{room}/question/finish
func (h *RoundHandler) Finish(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())
	roomID := model.RoomID(mux.Vars(r)["room"])

	if err := h.rounds.ForceFinish(r.Context(), roomID, player.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
