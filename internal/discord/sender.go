package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/watson/internal/domain"
	"github.com/osse101/watson/internal/metrics"
)

// interactionSender replies to a deferred interaction. The first message
// replaces the "thinking" placeholder; later ones are followups.
type interactionSender struct {
	s           *discordgo.Session
	interaction *discordgo.Interaction

	mu       sync.Mutex
	answered bool
}

func newInteractionSender(s *discordgo.Session, i *discordgo.Interaction) *interactionSender {
	return &interactionSender{s: s, interaction: i}
}

// Send delivers one message
func (is *interactionSender) Send(ctx context.Context, message string) error {
	is.mu.Lock()
	defer is.mu.Unlock()

	if !is.answered {
		if _, err := is.s.InteractionResponseEdit(is.interaction, &discordgo.WebhookEdit{
			Content: &message,
		}, discordgo.WithContext(ctx)); err != nil {
			deliveryFailed()
			return fmt.Errorf("edit interaction response: %w", err)
		}
		is.answered = true
		return nil
	}

	if _, err := is.s.FollowupMessageCreate(is.interaction, true, &discordgo.WebhookParams{
		Content: message,
	}, discordgo.WithContext(ctx)); err != nil {
		deliveryFailed()
		return fmt.Errorf("create followup message: %w", err)
	}
	return nil
}

// channelSender posts plain messages to a channel
func channelSender(s *discordgo.Session, channelID string) func(ctx context.Context, message string) error {
	return func(ctx context.Context, message string) error {
		if _, err := s.ChannelMessageSend(channelID, message, discordgo.WithContext(ctx)); err != nil {
			deliveryFailed()
			return fmt.Errorf("send channel message: %w", err)
		}
		return nil
	}
}

func deliveryFailed() {
	metrics.DeliveryFailures.WithLabelValues(string(domain.PlatformDiscord)).Inc()
}
