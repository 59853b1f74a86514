package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/osse101/watson/internal/domain"
)

// messageCreate serves "!" commands typed into channels the bot can read
func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	b.dispatcher.HandleText(b.ctx, domain.PlatformDiscord, m.Author.ID, m.Author.Mention(), m.Content, channelSender(s, m.ChannelID))
}
