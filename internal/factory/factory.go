package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/bingobot/internal/config"
	"github.com/mcoot/bingobot/internal/dependencies/clock"
	"github.com/mcoot/bingobot/internal/dependencies/random"
	"github.com/mcoot/bingobot/internal/events"
	"github.com/mcoot/bingobot/internal/services/card"
	"github.com/mcoot/bingobot/internal/services/game"
	"github.com/mcoot/bingobot/internal/services/notify"
	"github.com/mcoot/bingobot/internal/services/pattern"
	"github.com/mcoot/bingobot/internal/services/ratelimit"
	"github.com/mcoot/bingobot/internal/storage"
	"github.com/mcoot/bingobot/internal/storage/memory"
	redisstorage "github.com/mcoot/bingobot/internal/storage/redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Cards      *card.Service
	Patterns   *pattern.Service
	Limiter    *ratelimit.Service
	Hub        *events.Hub
	Dispatcher *notify.Dispatcher
	Game       *game.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Settings is the parsed environment configuration.
	// Zero-valued game settings fall back to their defaults.
	Settings config.Config
	// Notifier delivers private messages to players (optional)
	// If nil, notifications are only logged
	Notifier notify.Notifier
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	switch cfg.Settings.StorageType {
	case config.StorageTypeMemory, "":
		store = memory.New()
	case config.StorageTypeRedis:
		if cfg.Settings.RedisURL == "" {
			return nil, errors.New("RedisURL required when StorageType is redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Settings.RedisURL
		if cfg.Settings.RedisPrefix != "" {
			redisCfg.KeyPrefix = cfg.Settings.RedisPrefix
		}
		redisStore, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	notifier := cfg.Notifier
	if notifier == nil {
		notifier = notify.LogNotifier(logger)
	}

	return newWithDependencies(store, clock.New(), random.FromSeed(cfg.Settings.RandomSeed), cfg.Settings, notifier, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	settings config.Config,
	notifier notify.Notifier,
	logger *slog.Logger,
) *App {
	limit := settings.DailyLimit
	if limit <= 0 {
		limit = ratelimit.DefaultDailyLimit
	}

	cardService := card.New(rnd)
	patternService := pattern.New()
	limiter := ratelimit.New(store, clk, limit, settings.Location, logger)
	hub := events.NewHub(logger)
	dispatcher := notify.NewDispatcher(notifier, logger)
	controller := game.NewController(
		game.Config{
			LobbyWindow:  settings.LobbyWindow,
			CallInterval: settings.CallInterval,
			Cooldown:     settings.Cooldown,
		},
		cardService,
		patternService,
		limiter,
		store,
		hub,
		dispatcher,
		clk,
		rnd,
		logger,
	)

	return &App{
		Storage:    store,
		Clock:      clk,
		Random:     rnd,
		Cards:      cardService,
		Patterns:   patternService,
		Limiter:    limiter,
		Hub:        hub,
		Dispatcher: dispatcher,
		Game:       controller,
	}
}

// Start runs the background components
func (a *App) Start() {
	go a.Hub.Run()
}

// Close stops the background components and releases storage
func (a *App) Close() error {
	a.Dispatcher.Close()
	a.Hub.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
