// Package discord connects the dispatcher to a Discord gateway session,
// serving slash commands and, optionally, "!" message commands.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/osse101/watson/internal/dispatch"
	"github.com/osse101/watson/internal/domain"
)

// Bot represents the Discord bot
type Bot struct {
	Session  *discordgo.Session
	AppID    string
	GuildID  string
	Registry *CommandRegistry

	dispatcher      *dispatch.Dispatcher
	messageCommands bool
	forceUpdate     bool
	ctx             context.Context
	connected       atomic.Bool
}

// Config holds the bot configuration
type Config struct {
	Token              string
	AppID              string
	GuildID            string // empty registers commands globally
	ForceCommandUpdate bool
	MessageCommands    bool
}

// New creates a new Discord bot serving the dispatcher's commands
func New(cfg Config, d *dispatch.Dispatcher) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	s.Identify.Intents = discordgo.IntentsGuilds
	if cfg.MessageCommands {
		s.Identify.Intents |= discordgo.IntentsGuildMessages |
			discordgo.IntentsDirectMessages |
			discordgo.IntentsMessageContent
	}

	return &Bot{
		Session:         s,
		AppID:           cfg.AppID,
		GuildID:         cfg.GuildID,
		Registry:        NewDispatchRegistry(d),
		dispatcher:      d,
		messageCommands: cfg.MessageCommands,
		forceUpdate:     cfg.ForceCommandUpdate,
		ctx:             context.Background(),
	}, nil
}

// Name identifies the backend in logs and health output
func (b *Bot) Name() string {
	return string(domain.PlatformDiscord)
}

// Connected reports whether the gateway session is ready
func (b *Bot) Connected() bool {
	return b.connected.Load()
}

// Start opens the gateway connection. Handlers run with ctx.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	b.Session.AddHandler(b.ready)
	b.Session.AddHandler(b.resumed)
	b.Session.AddHandler(b.disconnect)
	b.Session.AddHandler(b.interactionCreate)
	if b.messageCommands {
		b.Session.AddHandler(b.messageCreate)
	}

	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	if b.AppID == "" && b.Session.State != nil && b.Session.State.User != nil {
		b.AppID = b.Session.State.User.ID
	}

	slog.Info(LogMsgBotRunning, "message_commands", b.messageCommands)
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() {
	b.connected.Store(false)
	if err := b.Session.Close(); err != nil {
		slog.Error(LogMsgCloseFailed, "error", err)
	}
}

// Run starts the bot, registers its slash commands and blocks until ctx is done
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Start(ctx); err != nil {
		return err
	}
	defer b.Stop()

	if err := b.RegisterCommands(b.Registry, b.forceUpdate); err != nil {
		// commands registered by an earlier run keep working
		slog.Error(LogMsgRegisterFailed, "error", err)
	}

	<-ctx.Done()
	slog.Info(LogMsgBotStopping)
	return nil
}

func (b *Bot) ready(s *discordgo.Session, r *discordgo.Ready) {
	b.connected.Store(true)
	slog.Info(LogMsgBotReady, "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) resumed(s *discordgo.Session, r *discordgo.Resumed) {
	b.connected.Store(true)
}

func (b *Bot) disconnect(s *discordgo.Session, d *discordgo.Disconnect) {
	b.connected.Store(false)
	slog.Warn(LogMsgDisconnected)
}

func (b *Bot) interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if b.Registry != nil {
		b.Registry.Handle(b.ctx, s, i)
	}
}
