package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"

	"github.com/mcoot/bingobot/internal/dependencies/clock"
	"github.com/mcoot/bingobot/internal/events"
	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/services/game"
)

const (
	// Prefix starts every bot command
	Prefix = "!bn"
	// WinCommand declares bingo; it takes no prefix
	WinCommand = "bingo!"

	historyLimit   = 5
	commandTimeout = 10 * time.Second
)

// Config holds the bot's guild settings
type Config struct {
	// GuildID ignores guild messages from any other server
	GuildID string
	// ChannelID restricts guild commands and announcements to one channel.
	// When empty, announcements go to the channel the game was created in.
	ChannelID string
	// AdminRoleID grants privileged commands to members with this role
	AdminRoleID string
}

// Bot turns chat messages into game commands and game events into
// channel announcements
type Bot struct {
	session Session
	game    game.Game
	clock   clock.Clock
	cfg     Config
	logger  *slog.Logger

	mu              sync.Mutex
	announceChannel string
}

// New creates a new Bot
func New(session Session, g game.Game, clk clock.Clock, cfg Config, logger *slog.Logger) *Bot {
	return &Bot{
		session:         session,
		game:            g,
		clock:           clk,
		cfg:             cfg,
		logger:          logger.With(slog.String("component", "bot")),
		announceChannel: cfg.ChannelID,
	}
}

// OnMessageCreate is the discordgo handler for new messages
func (b *Bot) OnMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	content := strings.ToLower(strings.TrimSpace(m.Content))
	if content != WinCommand && !strings.HasPrefix(content, Prefix) {
		return
	}
	if b.cfg.GuildID != "" && m.GuildID != "" && m.GuildID != b.cfg.GuildID {
		return
	}
	// DMs are always accepted so players can mark and declare privately
	if b.cfg.ChannelID != "" && m.GuildID != "" && m.ChannelID != b.cfg.ChannelID {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reply := b.handle(ctx, m.Message, content)
	if reply == "" {
		return
	}
	if _, err := b.session.ChannelMessageSend(m.ChannelID, reply); err != nil {
		b.logger.Warn("failed to send reply",
			slog.String("channel_id", m.ChannelID),
			slog.Any("error", err))
	}
}

// handle runs one command and returns the reply, if any
func (b *Bot) handle(ctx context.Context, m *discordgo.Message, content string) string {
	player := model.PlayerID(m.Author.ID)

	if content == WinCommand {
		return b.declareWin(ctx, player)
	}

	args := strings.Fields(strings.TrimPrefix(content, Prefix))
	if len(args) == 0 {
		return helpText()
	}

	b.logger.Debug("command received",
		slog.String("player_id", string(player)),
		slog.String("command", args[0]))

	switch args[0] {
	case "help":
		return helpText()
	case "create":
		if m.GuildID != "" {
			b.setAnnounceChannel(m.ChannelID)
		}
		return errorReply(b.game.Create(ctx, player, b.isPrivileged(m)))
	case "join":
		_, err := b.game.Join(ctx, player)
		return errorReply(err)
	case "mode":
		if len(args) != 2 {
			return fmt.Sprintf("❗ Usage: `%s mode <%s>`", Prefix, modeList())
		}
		_, err := b.game.SetMode(ctx, player, b.isPrivileged(m), args[1])
		return errorReply(err)
	case "mark":
		return b.mark(ctx, player, args)
	case "stop":
		return errorReply(b.game.Stop(ctx, player, b.isPrivileged(m)))
	case "players":
		return playersText(b.game.ListPlayers())
	case "card":
		return b.card(player)
	case "status":
		return statusText(b.game.Snapshot())
	case "history":
		return b.history(ctx)
	}
	return fmt.Sprintf("❓ Unknown command. Try `%s help`.", Prefix)
}

func (b *Bot) mark(ctx context.Context, player model.PlayerID, args []string) string {
	usage := fmt.Sprintf("❗ Usage: `%s mark <number>` (e.g. `%s mark 27`)", Prefix, Prefix)
	if len(args) != 2 {
		return usage
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return usage
	}
	if err := b.game.Mark(ctx, player, n); err != nil {
		return markErrorReply(n, err)
	}
	return fmt.Sprintf("✅ You have marked number %d.", n)
}

func (b *Bot) declareWin(ctx context.Context, player model.PlayerID) string {
	result, err := b.game.DeclareWin(ctx, player)
	switch {
	case errors.Is(err, model.ErrNotInGame):
		// Chatter from non-players is ignored
		return ""
	case errors.Is(err, model.ErrOnCooldown):
		wait := result.CooldownUntil.Sub(b.clock.Now()).Round(time.Second)
		if wait < time.Second {
			wait = time.Second
		}
		return fmt.Sprintf("🕒 You're on cooldown. Try again in %s.", wait)
	}
	// Wins and misses are announced from events
	return errorReply(err)
}

func (b *Bot) card(player model.PlayerID) string {
	view, err := b.game.Card(player)
	if err != nil {
		return errorReply(err)
	}
	text := renderCard(view.Card, view.Marked)
	if len(view.Missing) > 0 {
		text += fmt.Sprintf("\nStill needed for **%s**: %s", view.Mode, joinInts(view.Missing))
	}
	return text
}

func (b *Bot) history(ctx context.Context) string {
	summaries, err := b.game.History(ctx, historyLimit)
	if err != nil {
		b.logger.Error("failed to load history", slog.Any("error", err))
		return "⚠️ History is unavailable right now."
	}
	if len(summaries) == 0 {
		return "📜 No games have finished yet."
	}
	lines := lo.Map(summaries, func(s model.GameSummary, _ int) string {
		line := fmt.Sprintf("• %s: %s, %s mode, %d called, %d player(s)",
			s.EndedAt.UTC().Format(time.DateTime), s.Outcome, s.Mode, s.CalledCount, s.PlayerCount)
		if s.Winner != "" {
			line += ", winner " + mention(s.Winner)
		}
		return line
	})
	return "📜 **Recent games:**\n" + strings.Join(lines, "\n")
}

// isPrivileged is true for guild administrators, members who can manage
// the guild, and holders of the admin role
func (b *Bot) isPrivileged(m *discordgo.Message) bool {
	if m.GuildID == "" {
		return false
	}
	if b.cfg.AdminRoleID != "" && m.Member != nil && lo.Contains(m.Member.Roles, b.cfg.AdminRoleID) {
		return true
	}
	perms, err := b.session.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		b.logger.Warn("failed to read permissions",
			slog.String("player_id", m.Author.ID),
			slog.Any("error", err))
		return false
	}
	return perms&(discordgo.PermissionAdministrator|discordgo.PermissionManageGuild) != 0
}

func (b *Bot) setAnnounceChannel(channelID string) {
	if b.cfg.ChannelID != "" {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.announceChannel = channelID
}

func (b *Bot) channel() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.announceChannel
}

// Announce posts game events to the announcement channel until the
// subscription closes
func (b *Bot) Announce(sub *events.Subscription) {
	for e := range sub.Events() {
		text := renderEvent(e)
		channelID := b.channel()
		if text == "" || channelID == "" {
			continue
		}
		if _, err := b.session.ChannelMessageSend(channelID, text); err != nil {
			b.logger.Warn("failed to announce event",
				slog.String("event", string(e.Type)),
				slog.Any("error", err))
		}
	}
}

// errorReply turns a command error into a chat reply. Success has no reply
// because the outcome is announced from events.
func errorReply(err error) string {
	if err == nil {
		return ""
	}
	var ge *model.Error
	if !errors.As(err, &ge) {
		return "⚠️ Something went wrong. Please try again."
	}
	if msg, ok := replies[ge]; ok {
		return msg
	}
	return "⚠️ " + ge.Error()
}

func markErrorReply(n int, err error) string {
	switch {
	case errors.Is(err, model.ErrNotCalled):
		return fmt.Sprintf("❌ Number %d hasn't been called yet.", n)
	case errors.Is(err, model.ErrNotOnCard):
		return fmt.Sprintf("❌ Number %d is not on your card.", n)
	case errors.Is(err, model.ErrAlreadyMarked):
		return fmt.Sprintf("⚠️ Number %d is already marked.", n)
	}
	return errorReply(err)
}

var replies = map[*model.Error]string{
	model.ErrAlreadyActive:    "⛔ A game is already running.",
	model.ErrNotJoinable:      "🎮 No active game. Use `" + Prefix + " create` first.",
	model.ErrNotRunning:       "⏳ The game hasn't started calling numbers yet.",
	model.ErrNotActive:        "⚠️ No game is currently active.",
	model.ErrPermissionDenied: "🔒 Only server admins can do that.",
	model.ErrInvalidMode:      "❗ Invalid mode. Use one of: " + modeList() + ".",
	model.ErrInvalidNumber:    "❗ Numbers go from 1 to 75.",
	model.ErrNotInGame:        "🙅 You're not in the game.",
	model.ErrAlreadyJoined:    "🎮 You already joined!",
	model.ErrOnCooldown:       "🕒 You're on cooldown. Try again soon.",
	model.ErrRateLimited:      "⛔ You've reached today's game creation limit.",
}

func modeList() string {
	return strings.Join(lo.Map(model.ValidModes(), func(m model.Mode, _ int) string { return string(m) }), ", ")
}

func joinInts(values []int) string {
	return strings.Join(lo.Map(values, func(v int, _ int) string { return strconv.Itoa(v) }), ", ")
}

func playersText(ids []model.PlayerID) string {
	if len(ids) == 0 {
		return "👥 No players have joined."
	}
	return fmt.Sprintf("👥 **Players (%d):** %s", len(ids),
		strings.Join(lo.Map(ids, func(id model.PlayerID, _ int) string { return mention(id) }), ", "))
}

func statusText(s model.GameSnapshot) string {
	switch s.State {
	case model.GameStateLobby:
		return fmt.Sprintf("🎲 Lobby open in **%s** mode with %d player(s).", s.Mode, s.PlayerCount)
	case model.GameStateRunning:
		last := "none yet"
		if s.LastCalled != 0 {
			last = columnLetter(s.LastCalled) + "-" + strconv.Itoa(s.LastCalled)
		}
		return fmt.Sprintf("🎱 Game running in **%s** mode: %d player(s), %d called, last %s.",
			s.Mode, s.PlayerCount, len(s.Called), last)
	}
	return fmt.Sprintf("💤 No game running. Mode is **%s**. Use `%s create` to start one.", s.Mode, Prefix)
}

func helpText() string {
	return fmt.Sprintf(`📋 **Bingo Commands:**
%[1]s create - Start new game
%[1]s join - Join the game
%[1]s mode <mode> - Set pattern mode (%[2]s)
%[1]s mark <number> - Mark a called number
%[1]s card - Show your card
%[1]s players - List players
%[1]s status - Show the game state
%[1]s history - Show recent games
%[1]s stop - Stop the current game
bingo! - Declare Bingo if you completed the pattern`, Prefix, modeList())
}
