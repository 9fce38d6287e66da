package bot

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/mcoot/bingobot/internal/model"
	"github.com/mcoot/bingobot/internal/services/notify"
)

// renderCard draws a card as a monospace grid. Marked cells are bracketed
// and the free cell shows as **.
func renderCard(card model.Card, marked []int) string {
	var b strings.Builder
	b.WriteString("```\n")
	for _, letter := range model.ColumnLetters {
		fmt.Fprintf(&b, "  %c  ", letter)
	}
	b.WriteString("\n")
	for row := 0; row < model.CardSize; row++ {
		for col := 0; col < model.CardSize; col++ {
			v := card.At(row, col)
			switch {
			case v == model.FreeCell:
				b.WriteString(" ** ")
			case lo.Contains(marked, v):
				fmt.Fprintf(&b, "[%2d]", v)
			default:
				fmt.Fprintf(&b, " %2d ", v)
			}
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}
	b.WriteString("```")
	return b.String()
}

// renderNotification builds the DM text for a notification
func renderNotification(n notify.Notification) string {
	var header string
	switch n.Kind {
	case notify.KindCardIssued:
		header = "🎴 Here is your Bingo card!"
	case notify.KindCardUpdated:
		header = fmt.Sprintf("🆕 Here's your updated card with %d marked:", n.Number)
	case notify.KindNumberCalled:
		header = fmt.Sprintf("Number %d called!", n.Number)
	default:
		header = "Your card:"
	}
	return header + "\n" + renderCard(n.Card, n.Marked)
}

// renderEvent returns the channel announcement for an event, or "" if the
// event is not announced
func renderEvent(e model.Event) string {
	switch e.Type {
	case model.EventLobbyStarted:
		p, _ := e.Payload.(model.LobbyStartedPayload)
		return fmt.Sprintf("🎲 Bingo game started in **%s** mode! Type `%s join` to join. Game starts in %s.",
			p.Mode, Prefix, p.LobbyWindow)
	case model.EventGameCancelledNoPlayers:
		return "⚠️ No players joined. Game cancelled."
	case model.EventGameStarted:
		p, _ := e.Payload.(model.GameStartedPayload)
		return fmt.Sprintf("🚀 Calling has started with %d player(s) in **%s** mode!", len(p.Players), p.Mode)
	case model.EventGameStopped:
		return "🚓 Game has been stopped manually."
	case model.EventNumberCalled:
		p, _ := e.Payload.(model.NumberCalledPayload)
		return fmt.Sprintf("🎱 **Number called: %s%d**", columnLetter(p.Number), p.Number)
	case model.EventPoolExhausted:
		return fmt.Sprintf("📭 All %d numbers have been called. Declare `bingo!` or stop the game.", model.MaxNumber)
	case model.EventPlayerJoined:
		return fmt.Sprintf("%s has joined the game.", mention(e.PlayerID))
	case model.EventModeChanged:
		p, _ := e.Payload.(model.ModeChangedPayload)
		return fmt.Sprintf("🔁 Game mode set to **%s**.", p.Mode)
	case model.EventGameWon:
		p, _ := e.Payload.(model.GameWonPayload)
		return fmt.Sprintf("🎉 %s wins BINGO in **%s** mode after %d calls!", mention(p.Winner), p.Mode, p.TotalCalled)
	case model.EventGameIncorrect:
		return fmt.Sprintf("❌ Incorrect Bingo from %s! Cooldown applied.", mention(e.PlayerID))
	}
	return ""
}

func columnLetter(n int) string {
	col := model.ColumnOf(n)
	if col < 0 || col >= len(model.ColumnLetters) {
		return ""
	}
	return string(model.ColumnLetters[col])
}

func mention(id model.PlayerID) string {
	return "<@" + string(id) + ">"
}
