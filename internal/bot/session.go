package bot

import "github.com/bwmarrin/discordgo"

// Session is the part of *discordgo.Session the bot uses
type Session interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)
}

var _ Session = (*discordgo.Session)(nil)

// Intents the bot needs to read commands in guild channels and DMs.
// Guilds keeps guild, role and channel state cached for permission checks.
const Intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// NewSession creates an unopened discordgo session with the bot's intents
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = Intents
	return dg, nil
}
