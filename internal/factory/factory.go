package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/seiwell/gomokuhub/internal/dependencies/clock"
	"github.com/seiwell/gomokuhub/internal/dependencies/ident"
	"github.com/seiwell/gomokuhub/internal/registry"
	"github.com/seiwell/gomokuhub/internal/services/room"
	"github.com/seiwell/gomokuhub/internal/storage"
	"github.com/seiwell/gomokuhub/internal/storage/memory"
	redisstorage "github.com/seiwell/gomokuhub/internal/storage/redis"
	"github.com/seiwell/gomokuhub/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.RoomStore

	// External dependencies
	Clock clock.Clock
	Ident ident.Generator

	// Components
	Rooms       *room.Controller
	Registry    *registry.Registry
	Hub         *ws.Hub
	Coordinator *ws.Coordinator
	WSHandler   *ws.Handler
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

	var store storage.RoomStore
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

	return newWithDependencies(store, clock.New(), ident.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.RoomStore, clk clock.Clock, gen ident.Generator, logger *slog.Logger) *App {
	rooms := room.NewController(store, clk, gen, logger)
	reg := registry.New(logger)
	hub := ws.NewHub(logger)
	coordinator := ws.NewCoordinator(rooms, reg, hub, logger)
	hub.SetHandler(coordinator)
	wsHandler := ws.NewHandler(hub, logger)

	return &App{
		Store:       store,
		Clock:       clk,
		Ident:       gen,
		Rooms:       rooms,
		Registry:    reg,
		Hub:         hub,
		Coordinator: coordinator,
		WSHandler:   wsHandler,
	}
}
