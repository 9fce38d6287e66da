package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionIntents(t *testing.T) {
	dg, err := NewSession("token")
	require.NoError(t, err)

	intents := dg.Identify.Intents
	for _, want := range []discordgo.Intent{
		discordgo.IntentsGuilds,
		discordgo.IntentsGuildMessages,
		discordgo.IntentsDirectMessages,
		discordgo.IntentsMessageContent,
	} {
		assert.Equal(t, want, intents&want)
	}
	assert.True(t, dg.StateEnabled)
}
