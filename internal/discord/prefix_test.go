package discord

import (
	"context"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/watson/internal/domain"
)

func newMessage(authorID string, bot bool, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			ChannelID: "chan-1",
			Content:   content,
			Author:    &discordgo.User{ID: authorID, Bot: bot},
		},
	}
}

func TestMessageCreate(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Session.State.User = &discordgo.User{ID: "bot-self"}
	ctx.Runner.outcome = domain.ProcessOutcome{Stdout: "[+] github: https://github.com/alice\n"}
	bot := &Bot{Session: ctx.Session, dispatcher: ctx.Dispatcher, ctx: context.Background()}

	bot.messageCreate(ctx.Session, newMessage("42", false, "!sherlock alice"))

	sent := ctx.RequestsMatching(http.MethodPost, "/channels/chan-1/messages")
	require.Len(t, sent, 4)
	assert.Equal(t, "Searching username `alice` for <@42>", sent[0].Content(t))
	assert.Equal(t, "[github](https://github.com/alice)\n", sent[1].Content(t))
	assert.Equal(t, 1, ctx.Runner.Calls())
}

func TestMessageCreate_Ignored(t *testing.T) {
	tests := []struct {
		name string
		msg  *discordgo.MessageCreate
	}{
		{"own message", newMessage("bot-self", false, "!help")},
		{"other bot", newMessage("99", true, "!help")},
		{"chatter", newMessage("42", false, "hello")},
		{"unknown command", newMessage("42", false, "!ping")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := SetupTestContext(t)
			ctx.Session.State.User = &discordgo.User{ID: "bot-self"}
			bot := &Bot{Session: ctx.Session, dispatcher: ctx.Dispatcher, ctx: context.Background()}

			bot.messageCreate(ctx.Session, tt.msg)

			assert.Empty(t, ctx.Requests())
		})
	}
}
