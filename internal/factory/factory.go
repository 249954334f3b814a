package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/soundround/soundround/internal/dependencies/clock"
	"github.com/soundround/soundround/internal/dependencies/random"
	"github.com/soundround/soundround/internal/dependencies/scheduler"
	"github.com/soundround/soundround/internal/render"
	"github.com/soundround/soundround/internal/roomlock"
	"github.com/soundround/soundround/internal/services/ranking"
	"github.com/soundround/soundround/internal/services/room"
	"github.com/soundround/soundround/internal/services/round"
	"github.com/soundround/soundround/internal/services/session"
	"github.com/soundround/soundround/internal/sse"
	"github.com/soundround/soundround/internal/storage"
	"github.com/soundround/soundround/internal/storage/memory"
	redisstorage "github.com/soundround/soundround/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Scheduler scheduler.Scheduler

	// Services
	Locks             *roomlock.Locker
	RankingService    *ranking.Service
	RoomController    *room.Controller
	RoundController   *round.Controller
	SessionController *session.Controller
	HubManager        *sse.HubManager
	Sink              render.Sink
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()
	sched := scheduler.New()

	hubManager := sse.NewHubManager(logger)
	sink := sse.NewSink(hubManager, logger)

	app := newWithDependencies(store, clk, rnd, sched, sink, logger)
	app.HubManager = hubManager
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	sched scheduler.Scheduler,
	sink render.Sink,
	logger *slog.Logger,
) *App {
	locks := roomlock.New()
	rankingService := ranking.New(store)
	roomController := room.NewController(store, locks, rankingService, sink, clk, rnd, logger)
	roundController := round.NewController(store, locks, rankingService, sink, clk, sched, logger)
	sessionController := session.NewController(store, roomController, sink, clk, sched, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		Scheduler:         sched,
		Locks:             locks,
		RankingService:    rankingService,
		RoomController:    roomController,
		RoundController:   roundController,
		SessionController: sessionController,
		Sink:              sink,
	}
}
