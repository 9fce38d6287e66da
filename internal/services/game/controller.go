package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/bingobot/internal/dependencies/clock"
	"github.com/mcoot/bingobot/internal/dependencies/random"
	"github.com/mcoot/bingobot/internal/events"
	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/services/caller"
	"github.com/mcoot/bingobot/internal/services/card"
	"github.com/mcoot/bingobot/internal/services/notify"
	"github.com/mcoot/bingobot/internal/services/pattern"
	"github.com/mcoot/bingobot/internal/services/ratelimit"
	"github.com/mcoot/bingobot/internal/services/registry"
	"github.com/mcoot/bingobot/internal/storage"
)

const (
	// DefaultLobbyWindow is how long a new game accepts players before calling starts
	DefaultLobbyWindow = 15 * time.Second
	// DefaultCooldown is how long a player must wait after an incorrect bingo
	DefaultCooldown = 5 * time.Second

	summaryTimeout = 5 * time.Second
)

// Config holds the game's timing settings
type Config struct {
	LobbyWindow  time.Duration
	CallInterval time.Duration
	Cooldown     time.Duration
}

// DefaultConfig returns the standard timings
func DefaultConfig() Config {
	return Config{
		LobbyWindow:  DefaultLobbyWindow,
		CallInterval: caller.DefaultInterval,
		Cooldown:     DefaultCooldown,
	}
}

// WinResult is the outcome of an evaluated bingo declaration
type WinResult struct {
	Won           bool
	Mode          model.Mode
	TotalCalled   int
	CooldownUntil time.Time // Set when the declaration was incorrect
}

// CardView is a player's card with their progress toward the current mode
type CardView struct {
	Player  model.PlayerID
	Card    model.Card
	Marked  []int
	Called  []int
	Mode    model.Mode
	Missing []int
}

// Controller owns the single game and its state machine. Every command and
// every timer firing runs under mu.
type Controller struct {
	mu sync.Mutex

	// Guarded by mu
	state      model.GameState
	mode       model.Mode
	called     *model.CalledNumbers
	round      uint64
	lobbyTimer clock.Timer
	createdBy  model.PlayerID
	createdAt  time.Time
	startedAt  time.Time

	registry *registry.Registry
	caller   *caller.Caller
	matcher  pattern.Matcher
	limiter  ratelimit.Limiter
	storage  storage.Storage
	events   events.Publisher
	notify   notify.Queue
	clock    clock.Clock
	cfg      Config
	logger   *slog.Logger
}

// NewController creates a Controller in the idle state
func NewController(
	cfg Config,
	cards card.Generator,
	matcher pattern.Matcher,
	limiter ratelimit.Limiter,
	storage storage.Storage,
	publisher events.Publisher,
	notifications notify.Queue,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	if cfg.LobbyWindow <= 0 {
		cfg.LobbyWindow = DefaultLobbyWindow
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	logger = logger.With(slog.String("component", "game"))

	c := &Controller{
		state:    model.GameStateIdle,
		mode:     model.DefaultMode,
		called:   model.NewCalledNumbers(),
		registry: registry.New(cards, clock),
		matcher:  matcher,
		limiter:  limiter,
		storage:  storage,
		events:   publisher,
		notify:   notifications,
		clock:    clock,
		cfg:      cfg,
		logger:   logger,
	}
	c.caller = caller.New(&c.mu, clock, random, cfg.CallInterval, logger)
	return c
}

// Create opens a new game lobby. Unprivileged requesters are rate limited
// before the active-game check, and every attempt that passes the limiter
// is counted.
func (c *Controller) Create(ctx context.Context, requester model.PlayerID, privileged bool) error {
	if !privileged {
		allowed, err := c.limiter.Allow(ctx, requester)
		if err != nil {
			return fmt.Errorf("check rate limit: %w", err)
		}
		if !allowed {
			c.logger.Info("game creation rate limited", slog.String("player_id", string(requester)))
			return model.ErrRateLimited
		}
		if _, err := c.limiter.RecordAttempt(ctx, requester); err != nil {
			return fmt.Errorf("record attempt: %w", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.GameStateIdle {
		return model.ErrAlreadyActive
	}

	now := c.clock.Now()
	c.round++
	c.state = model.GameStateLobby
	c.called = model.NewCalledNumbers()
	c.registry.Clear()
	c.createdBy = requester
	c.createdAt = now
	c.startedAt = time.Time{}

	round := c.round
	c.lobbyTimer = c.clock.AfterFunc(c.cfg.LobbyWindow, func() { c.startGame(round) })

	c.publish(model.EventLobbyStarted, requester, model.LobbyStartedPayload{
		CreatedBy:   requester,
		Mode:        c.mode,
		LobbyWindow: c.cfg.LobbyWindow,
	})

	c.logger.Info("lobby opened",
		slog.String("created_by", string(requester)),
		slog.Bool("privileged", privileged),
		slog.String("mode", string(c.mode)),
		slog.Duration("lobby_window", c.cfg.LobbyWindow),
	)
	return nil
}

// startGame runs when the lobby window closes
func (c *Controller) startGame(round uint64) {
	c.mu.Lock()

	if c.round != round || c.state != model.GameStateLobby {
		c.mu.Unlock()
		return
	}
	c.lobbyTimer = nil

	if c.registry.Len() == 0 {
		summary := c.endLocked(model.OutcomeCancelled, "")
		c.publish(model.EventGameCancelledNoPlayers, "", nil)
		c.logger.Info("game cancelled - no players")
		c.mu.Unlock()

		c.saveSummary(summary)
		return
	}
	defer c.mu.Unlock()

	c.state = model.GameStateRunning
	c.startedAt = c.clock.Now()
	c.caller.Start(c.called, caller.Hooks{
		OnCall:      c.onCall,
		OnExhausted: c.onExhausted,
	})

	players := c.registry.List()
	c.publish(model.EventGameStarted, "", model.GameStartedPayload{
		Players: players,
		Mode:    c.mode,
	})
	c.logger.Info("game started",
		slog.Int("player_count", len(players)),
		slog.String("mode", string(c.mode)),
	)
}

// onCall runs under mu from the caller's tick
func (c *Controller) onCall(number, total int) {
	c.publish(model.EventNumberCalled, "", model.NumberCalledPayload{
		Number:      number,
		TotalCalled: total,
	})
	for _, p := range c.registry.Players() {
		c.notify.Enqueue(notify.Notification{
			Kind:   notify.KindNumberCalled,
			Player: p.ID,
			Card:   p.Card,
			Marked: append([]int(nil), p.Marked...),
			Number: number,
		})
	}
}

// onExhausted runs under mu. The game stays running until stopped or won.
func (c *Controller) onExhausted() {
	c.publish(model.EventPoolExhausted, "", nil)
}

// Join enrolls a player and issues their card
func (c *Controller) Join(ctx context.Context, player model.PlayerID) (model.Card, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.GameStateLobby && c.state != model.GameStateRunning {
		return model.Card{}, model.ErrNotJoinable
	}

	issued, err := c.registry.Join(player)
	if err != nil {
		return model.Card{}, err
	}

	c.publish(model.EventPlayerJoined, player, nil)
	c.notify.Enqueue(notify.Notification{
		Kind:   notify.KindCardIssued,
		Player: player,
		Card:   issued,
	})

	c.logger.Info("player joined",
		slog.String("player_id", string(player)),
		slog.String("state", string(c.state)),
		slog.Int("player_count", c.registry.Len()),
	)
	return issued, nil
}

// SetMode changes the winning pattern. The mode carries over to later games.
func (c *Controller) SetMode(ctx context.Context, requester model.PlayerID, privileged bool, mode string) (model.Mode, error) {
	if !privileged {
		return "", model.ErrPermissionDenied
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.GameStateLobby && c.state != model.GameStateRunning {
		return "", model.ErrNotJoinable
	}

	parsed, err := model.ParseMode(mode)
	if err != nil {
		return "", err
	}

	c.mode = parsed
	c.publish(model.EventModeChanged, requester, model.ModeChangedPayload{Mode: parsed})
	c.logger.Info("mode changed",
		slog.String("player_id", string(requester)),
		slog.String("mode", string(parsed)),
	)
	return parsed, nil
}

// Mark records a called number on the player's card
func (c *Controller) Mark(ctx context.Context, player model.PlayerID, number int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.GameStateRunning {
		return model.ErrNotRunning
	}
	if c.registry.Get(player) == nil {
		return model.ErrNotInGame
	}
	if number < 1 || number > model.MaxNumber {
		return model.ErrInvalidNumber
	}

	if err := c.registry.Mark(player, number, c.called); err != nil {
		return err
	}

	p := c.registry.Get(player)
	c.notify.Enqueue(notify.Notification{
		Kind:   notify.KindCardUpdated,
		Player: player,
		Card:   p.Card,
		Marked: append([]int(nil), p.Marked...),
		Number: number,
	})

	c.logger.Debug("number marked",
		slog.String("player_id", string(player)),
		slog.Int("number", number),
	)
	return nil
}

// DeclareWin evaluates a player's bingo claim against the current mode.
// A claim during cooldown is rejected without evaluation and leaves the
// cooldown as it was.
func (c *Controller) DeclareWin(ctx context.Context, player model.PlayerID) (WinResult, error) {
	c.mu.Lock()

	// Membership comes first so claims from non-players are always NotInGame
	p := c.registry.Get(player)
	if p == nil {
		c.mu.Unlock()
		return WinResult{}, model.ErrNotInGame
	}
	if c.state != model.GameStateRunning {
		c.mu.Unlock()
		return WinResult{}, model.ErrNotRunning
	}

	now := c.clock.Now()
	if p.OnCooldown(now) {
		c.mu.Unlock()
		return WinResult{CooldownUntil: p.CooldownUntil}, model.ErrOnCooldown
	}

	mode := c.mode
	total := c.called.Len()

	if !c.matcher.Matches(p.Card, p.MarkedSet(), mode) {
		defer c.mu.Unlock()
		p.CooldownUntil = now.Add(c.cfg.Cooldown)
		c.publish(model.EventGameIncorrect, player, nil)
		c.logger.Info("incorrect bingo",
			slog.String("player_id", string(player)),
			slog.String("mode", string(mode)),
			slog.Time("cooldown_until", p.CooldownUntil),
		)
		return WinResult{Won: false, Mode: mode, TotalCalled: total, CooldownUntil: p.CooldownUntil}, nil
	}

	summary := c.endLocked(model.OutcomeWon, player)
	c.publish(model.EventGameWon, player, model.GameWonPayload{
		Winner:      player,
		Mode:        mode,
		TotalCalled: total,
	})
	c.logger.Info("game won",
		slog.String("player_id", string(player)),
		slog.String("mode", string(mode)),
		slog.Int("total_called", total),
	)
	c.mu.Unlock()

	c.saveSummary(summary)
	return WinResult{Won: true, Mode: mode, TotalCalled: total}, nil
}

// Stop ends the current game without a winner
func (c *Controller) Stop(ctx context.Context, requester model.PlayerID, privileged bool) error {
	if !privileged {
		return model.ErrPermissionDenied
	}

	c.mu.Lock()

	if c.state != model.GameStateLobby && c.state != model.GameStateRunning {
		c.mu.Unlock()
		return model.ErrNotActive
	}

	summary := c.endLocked(model.OutcomeStopped, "")
	c.publish(model.EventGameStopped, requester, nil)
	c.logger.Info("game stopped", slog.String("player_id", string(requester)))
	c.mu.Unlock()

	c.saveSummary(summary)
	return nil
}

// ListPlayers returns enrolled players in join order
func (c *Controller) ListPlayers() []model.PlayerID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.List()
}

// Snapshot returns a read-only view of the game
func (c *Controller) Snapshot() model.GameSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return model.GameSnapshot{
		State:       c.state,
		Mode:        c.mode,
		Called:      c.called.Values(),
		LastCalled:  c.called.Last(),
		PlayerCount: c.registry.Len(),
		CreatedBy:   c.createdBy,
		CreatedAt:   c.createdAt,
		StartedAt:   c.startedAt,
	}
}

// Card returns a player's card and progress
func (c *Controller) Card(player model.PlayerID) (CardView, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.registry.Get(player)
	if p == nil {
		return CardView{}, model.ErrNotInGame
	}

	return CardView{
		Player:  player,
		Card:    p.Card,
		Marked:  append([]int(nil), p.Marked...),
		Called:  c.called.Values(),
		Mode:    c.mode,
		Missing: c.matcher.Missing(p.Card, p.MarkedSet(), c.mode),
	}, nil
}

// History returns summaries of finished games, newest first
func (c *Controller) History(ctx context.Context, limit int) ([]model.GameSummary, error) {
	summaries, err := c.storage.ListGameSummaries(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list game summaries: %w", err)
	}
	return summaries, nil
}

// endLocked returns the game to idle and builds its summary. Requires mu.
func (c *Controller) endLocked(outcome model.GameOutcome, winner model.PlayerID) *model.GameSummary {
	summary := &model.GameSummary{
		ID:          uuid.NewString(),
		Outcome:     outcome,
		Winner:      winner,
		Mode:        c.mode,
		CalledCount: c.called.Len(),
		PlayerCount: c.registry.Len(),
		CreatedBy:   c.createdBy,
		CreatedAt:   c.createdAt,
		EndedAt:     c.clock.Now(),
	}

	c.caller.Cancel()
	if c.lobbyTimer != nil {
		c.lobbyTimer.Stop()
		c.lobbyTimer = nil
	}
	c.round++
	c.state = model.GameStateIdle
	c.registry.Clear()
	c.notify.Reset()

	return summary
}

// saveSummary records a finished game. Failures are logged, never returned.
func (c *Controller) saveSummary(summary *model.GameSummary) {
	ctx, cancel := context.WithTimeout(context.Background(), summaryTimeout)
	defer cancel()

	if err := c.storage.SaveGameSummary(ctx, summary); err != nil {
		c.logger.Error("failed to save game summary",
			slog.String("game_id", summary.ID),
			slog.Any("error", err),
		)
	}
}

// publish requires mu so events leave in state-change order
func (c *Controller) publish(eventType model.EventType, player model.PlayerID, payload any) {
	c.events.Publish(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		PlayerID:  player,
		Payload:   payload,
	})
}

// Interface for dependency injection
type Game interface {
	Create(ctx context.Context, requester model.PlayerID, privileged bool) error
	Join(ctx context.Context, player model.PlayerID) (model.Card, error)
	SetMode(ctx context.Context, requester model.PlayerID, privileged bool, mode string) (model.Mode, error)
	Mark(ctx context.Context, player model.PlayerID, number int) error
	DeclareWin(ctx context.Context, player model.PlayerID) (WinResult, error)
	Stop(ctx context.Context, requester model.PlayerID, privileged bool) error
	ListPlayers() []model.PlayerID
	Snapshot() model.GameSnapshot
	Card(player model.PlayerID) (CardView, error)
	History(ctx context.Context, limit int) ([]model.GameSummary, error)
}

var _ Game = (*Controller)(nil)
