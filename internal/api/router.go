package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/bingobot/internal/api/apierr"
	"github.com/mcoot/bingobot/internal/api/handler"
	apimw "github.com/mcoot/bingobot/internal/api/middleware"
	"github.com/mcoot/bingobot/internal/api/response"
	"github.com/mcoot/bingobot/internal/middleware"
	"github.com/mcoot/bingobot/internal/services/game"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger *slog.Logger
	Game   game.Game
	Events handler.Subscriber

	// AdminKeyHash is the bcrypt hash of the bearer token that grants
	// privileged access. Empty disables privileged API access.
	AdminKeyHash string

	// Per-caller request rate; zero disables throttling
	RateLimit float64
	Burst     int
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	gameHandler := handler.NewGameHandler(cfg.Game, cfg.Logger)
	eventsHandler := handler.NewEventsHandler(cfg.Events, cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RequestID)
	api.Use(middleware.Recovery(cfg.Logger, apierr.PanicHandler))
	api.Use(middleware.Logging(cfg.Logger, apimw.PlayerAttr))
	api.Use(apimw.Identity(cfg.AdminKeyHash))
	if cfg.RateLimit > 0 {
		api.Use(apimw.NewThrottle(cfg.RateLimit, cfg.Burst).Middleware)
	}

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Read-only routes (no player id required)
	api.HandleFunc("/game", gameHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/game/players", gameHandler.Players).Methods(http.MethodGet)
	api.HandleFunc("/history", gameHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/events", eventsHandler.Stream).Methods(http.MethodGet)

	// Player routes
	player := api.NewRoute().Subrouter()
	player.Use(apimw.RequirePlayer)
	player.HandleFunc("/game", gameHandler.Create).Methods(http.MethodPost)
	player.HandleFunc("/game", gameHandler.Stop).Methods(http.MethodDelete)
	player.HandleFunc("/game/join", gameHandler.Join).Methods(http.MethodPost)
	player.HandleFunc("/game/mode", gameHandler.SetMode).Methods(http.MethodPut)
	player.HandleFunc("/game/mark", gameHandler.Mark).Methods(http.MethodPost)
	player.HandleFunc("/game/bingo", gameHandler.Bingo).Methods(http.MethodPost)
	player.HandleFunc("/game/card", gameHandler.Card).Methods(http.MethodGet)

	r.HandleFunc("/", rootHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	response.Text(w, http.StatusOK, "Bingo Bot is running")
}
