package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/watson/internal/dispatch"
	"github.com/osse101/watson/internal/domain"
)

// NewDispatchRegistry exposes every dispatcher command as a slash command
func NewDispatchRegistry(d *dispatch.Dispatcher) *CommandRegistry {
	r := NewCommandRegistry()
	for _, c := range d.Commands() {
		cmd, handler := DispatchCommand(d, c)
		r.Register(cmd, handler)
	}
	return r
}

// DispatchCommand returns the slash command definition and handler for one
// dispatcher command. Commands taking an argument get a required username option.
func DispatchCommand(d *dispatch.Dispatcher, c dispatch.Command) (*discordgo.ApplicationCommand, CommandHandler) {
	cmd := &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
	}
	if c.TakesArg {
		cmd.Options = []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        dispatch.UsernameOption,
				Description: dispatch.DescUsernameOption,
				Required:    true,
			},
		}
	}

	handler := func(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) {
		if !deferResponse(s, i) {
			return
		}

		user := getInteractionUser(i)
		req := dispatch.Request{
			Platform: domain.PlatformDiscord,
			Surface:  dispatch.SurfaceSlash,
			Command:  c.Name,
			Argument: getStringOption(i, dispatch.UsernameOption),
		}
		if user != nil {
			req.SenderID = user.ID
			req.Requester = user.Mention()
		}

		d.Handle(ctx, req, newInteractionSender(s, i.Interaction).Send)
	}

	return cmd, handler
}
