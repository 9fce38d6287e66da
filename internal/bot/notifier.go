package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/bingobot/internal/services/notify"
)

// DMNotifier delivers notifications as direct messages
type DMNotifier struct {
	session Session
	logger  *slog.Logger
}

// NewDMNotifier creates a notifier that sends through session
func NewDMNotifier(session Session, logger *slog.Logger) *DMNotifier {
	return &DMNotifier{
		session: session,
		logger:  logger.With(slog.String("component", "dm")),
	}
}

// Notify opens (or reuses) the player's DM channel and sends the card
func (d *DMNotifier) Notify(ctx context.Context, n notify.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ch, err := d.session.UserChannelCreate(string(n.Player))
	if err != nil {
		return fmt.Errorf("open DM channel: %w", err)
	}
	if _, err := d.session.ChannelMessageSend(ch.ID, renderNotification(n)); err != nil {
		return fmt.Errorf("send DM: %w", err)
	}
	d.logger.Debug("card delivered",
		slog.String("player_id", string(n.Player)),
		slog.String("kind", string(n.Kind)))
	return nil
}

var _ notify.Notifier = (*DMNotifier)(nil)
