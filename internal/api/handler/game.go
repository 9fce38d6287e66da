package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mcoot/bingobot/internal/api/apierr"
	"github.com/mcoot/bingobot/internal/api/middleware"
	"github.com/mcoot/bingobot/internal/api/request"
	"github.com/mcoot/bingobot/internal/api/response"
	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/services/game"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// GameHandler handles game endpoints
type GameHandler struct {
	game   game.Game
	logger *slog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(g game.Game, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		game:   g,
		logger: logger,
	}
}

// writeError logs unexpected failures before writing the response
func (h *GameHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if model.KindOf(err) == model.KindUnknown {
		h.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	}
	apierr.WriteError(w, err)
}

// Create handles POST /api/v1/game
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	if err := h.game.Create(r.Context(), caller.ID, caller.Privileged); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromSnapshot(h.game.Snapshot()))
}

// Get handles GET /api/v1/game
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.GameFromSnapshot(h.game.Snapshot()))
}

// Stop handles DELETE /api/v1/game
func (h *GameHandler) Stop(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	if err := h.game.Stop(r.Context(), caller.ID, caller.Privileged); err != nil {
		h.writeError(w, r, err)
		return
	}

	response.NoContent(w)
}

// Join handles POST /api/v1/game/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	card, err := h.game.Join(r.Context(), caller.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CardFromModel(card, nil))
}

// SetMode handles PUT /api/v1/game/mode
func (h *GameHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	var req request.SetModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	mode, err := h.game.SetMode(r.Context(), caller.ID, caller.Privileged, req.Mode)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ModeResponse{Mode: string(mode)})
}

// Mark handles POST /api/v1/game/mark
func (h *GameHandler) Mark(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	var req request.MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	if err := h.game.Mark(r.Context(), caller.ID, req.Number); err != nil {
		h.writeError(w, r, err)
		return
	}

	view, err := h.game.Card(caller.ID)
	if err != nil {
		// The game ended between the mark and the read
		response.JSON(w, http.StatusOK, response.MarkResponse{Marked: req.Number})
		return
	}

	response.JSON(w, http.StatusOK, response.MarkResponse{
		Marked: req.Number,
		Card:   response.CardFromModel(view.Card, view.Marked),
	})
}

// Bingo handles POST /api/v1/game/bingo
func (h *GameHandler) Bingo(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	result, err := h.game.DeclareWin(r.Context(), caller.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.BingoFromResult(result))
}

// Players handles GET /api/v1/game/players
func (h *GameHandler) Players(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.PlayersFromModel(h.game.ListPlayers()))
}

// Card handles GET /api/v1/game/card
func (h *GameHandler) Card(w http.ResponseWriter, r *http.Request) {
	caller := middleware.MustGetCaller(r.Context())

	view, err := h.game.Card(caller.ID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CardViewFromGame(view))
}

// History handles GET /api/v1/history
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxHistoryLimit {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit must be between 1 and 100"))
			return
		}
		limit = n
	}

	summaries, err := h.game.History(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.HistoryFromModel(summaries))
}
