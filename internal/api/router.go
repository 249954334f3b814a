package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/soundround/soundround/internal/api/handler"
	"github.com/soundround/soundround/internal/api/middleware"
	"github.com/soundround/soundround/internal/services/room"
	"github.com/soundround/soundround/internal/services/round"
	"github.com/soundround/soundround/internal/services/session"
	"github.com/soundround/soundround/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController session.ControllerInterface
	RoomController    room.ControllerInterface
	RoundController   round.ControllerInterface
	HubManager        *sse.HubManager
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.SessionController)
	roomHandler := handler.NewRoomHandler(cfg.RoomController)
	roundHandler := handler.NewRoundHandler(cfg.RoundController)
	streamHandler := handler.NewStreamHandler(cfg.HubManager)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.SessionController)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Opening a session needs no handle yet
	api.HandleFunc("/sessions", sessionHandler.Connect).Methods(http.MethodPost)

	// Session routes
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.Use(authMiddleware)
	sessions.HandleFunc("/me", sessionHandler.GetMe).Methods(http.MethodGet)
	sessions.HandleFunc("/me", sessionHandler.Disconnect).Methods(http.MethodDelete)
	sessions.HandleFunc("/me/username", sessionHandler.SetUsername).Methods(http.MethodPost)
	sessions.HandleFunc("/me/reconnect", sessionHandler.Reconnect).Methods(http.MethodPost)

	// Event streams
	streams := api.PathPrefix("").Subrouter()
	streams.Use(authMiddleware)
	streams.HandleFunc("/stream", streamHandler.Lobby).Methods(http.MethodGet)

	// Room routes (all require a handle)
	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.Create).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}", roomHandler.Get).Methods(http.MethodGet)
	rooms.HandleFunc("/{room}", roomHandler.EndGame).Methods(http.MethodDelete)
	rooms.HandleFunc("/{room}/config", roomHandler.Configure).Methods(http.MethodPatch)
	rooms.HandleFunc("/{room}/mode", roomHandler.ChangeMode).Methods(http.MethodPatch)
	rooms.HandleFunc("/{room}/join", roomHandler.Join).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}/leave", roomHandler.Leave).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}/group", roomHandler.JoinGroup).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}/kick", roomHandler.Kick).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}/leaderboard", roomHandler.Leaderboard).Methods(http.MethodGet)
	rooms.HandleFunc("/{room}/words", roomHandler.AddWord).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}/words", roomHandler.RemoveWord).Methods(http.MethodDelete)
	rooms.HandleFunc("/{room}/words/all", roomHandler.ClearWords).Methods(http.MethodDelete)
	rooms.HandleFunc("/{room}/word-search", roomHandler.ToggleWordSearch).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}/play", roomHandler.PlaySound).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}/stream", streamHandler.Room).Methods(http.MethodGet)

	// Round routes
	rooms.HandleFunc("/{room}/question", roundHandler.SetQuestion).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}/question/skip", roundHandler.Skip).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}/question/finish", roundHandler.Finish).Methods(http.MethodPost)
	rooms.HandleFunc("/{room}/answer", roundHandler.Answer).Methods(http.MethodPost)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
