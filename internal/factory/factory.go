package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/partyarcade/internal/dependencies/clock"
	"github.com/mcoot/partyarcade/internal/dependencies/random"
	"github.com/mcoot/partyarcade/internal/games"
	"github.com/mcoot/partyarcade/internal/realtime"
	"github.com/mcoot/partyarcade/internal/services/arcade"
	"github.com/mcoot/partyarcade/internal/services/auth"
	"github.com/mcoot/partyarcade/internal/services/session"
	"github.com/mcoot/partyarcade/internal/services/stats"
	"github.com/mcoot/partyarcade/internal/services/table"
	"github.com/mcoot/partyarcade/internal/storage"
	"github.com/mcoot/partyarcade/internal/storage/memory"
	redisstorage "github.com/mcoot/partyarcade/internal/storage/redis"
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
	Clock  clock.Clock
	Random random.Random

	// Services
	GameFactory  *games.Factory
	Table        *table.Table
	Registry     *session.Registry
	AuthService  *auth.Service
	StatsService *stats.Service
	Controller   *arcade.Controller
	HubManager   *realtime.HubManager
	Dispatcher   *realtime.Dispatcher
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// Zero fields take the values of auth.DefaultConfig()
	AuthConfig auth.Config
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

	return newWithDependencies(store, clock.New(), random.New(), cfg.AuthConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	gameFactory := games.NewFactory()
	activeGames := table.New(gameFactory, logger)
	registry := session.New(activeGames, gameFactory, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg, logger)
	statsService := stats.New(store, logger)
	hubManager := realtime.NewHubManager(logger)
	controller := arcade.NewController(registry, activeGames, gameFactory, statsService, hubManager, clk, logger)

	return &App{
		Storage:      store,
		Clock:        clk,
		Random:       rnd,
		GameFactory:  gameFactory,
		Table:        activeGames,
		Registry:     registry,
		AuthService:  authService,
		StatsService: statsService,
		Controller:   controller,
		HubManager:   hubManager,
		Dispatcher:   realtime.NewDispatcher(controller, logger),
	}
}

// Close releases the hubs and the storage backend
func (a *App) Close() error {
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
