// Package matrix connects the dispatcher to a Matrix homeserver. It answers
// "!" commands in any room it has joined and accepts every invite.
package matrix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/osse101/watson/internal/dispatch"
	"github.com/osse101/watson/internal/domain"
	"github.com/osse101/watson/internal/metrics"
)

// Config holds the login settings. AccessToken wins over Password.
type Config struct {
	Homeserver  string
	Username    string
	Password    string
	AccessToken string
	DeviceID    string
}

// RoomAPI is the slice of the client-server API the bot talks back through
type RoomAPI interface {
	SendText(ctx context.Context, roomID id.RoomID, text string) (*mautrix.RespSendEvent, error)
	JoinRoomByID(ctx context.Context, roomID id.RoomID) (*mautrix.RespJoinRoom, error)
}

// Bot owns one Matrix client session
type Bot struct {
	cfg        Config
	client     *mautrix.Client
	api        RoomAPI
	userID     id.UserID
	dispatcher *dispatch.Dispatcher

	connected atomic.Bool
	inflight  sync.WaitGroup
}

// New creates a bot. Nothing touches the network until Run.
func New(cfg Config, d *dispatch.Dispatcher) (*Bot, error) {
	client, err := mautrix.NewClient(cfg.Homeserver, "", "")
	if err != nil {
		return nil, fmt.Errorf("error creating Matrix client: %w", err)
	}
	return &Bot{cfg: cfg, client: client, api: client, dispatcher: d}, nil
}

// Name identifies the backend in logs and health output
func (b *Bot) Name() string {
	return string(domain.PlatformMatrix)
}

// Connected reports whether the last sync succeeded
func (b *Bot) Connected() bool {
	return b.connected.Load()
}

// Run logs in, syncs until ctx is done and waits for in-flight commands
func (b *Bot) Run(ctx context.Context) error {
	if err := b.login(ctx); err != nil {
		return err
	}

	syncer, ok := b.client.Syncer.(mautrix.ExtensibleSyncer)
	if !ok {
		return errors.New("matrix client syncer does not accept handlers")
	}
	syncer.OnSync(b.joinPendingInvites)
	syncer.OnSync(b.client.DontProcessOldEvents)
	syncer.OnSync(func(ctx context.Context, resp *mautrix.RespSync, since string) bool {
		if !b.connected.Swap(true) {
			slog.Info(LogMsgSynced, "user", b.userID)
		}
		return true
	})
	syncer.OnEventType(event.EventMessage, b.handleMessage)
	syncer.OnEventType(event.StateMember, b.handleMember)

	slog.Info(LogMsgBotRunning, "homeserver", b.cfg.Homeserver, "user", b.userID)
	err := b.client.SyncWithContext(ctx)
	b.connected.Store(false)
	b.inflight.Wait()

	if ctx.Err() != nil {
		slog.Info(LogMsgBotStopping)
		return nil
	}
	return fmt.Errorf("matrix sync stopped: %w", err)
}

func (b *Bot) login(ctx context.Context) error {
	if b.cfg.AccessToken != "" {
		b.client.AccessToken = b.cfg.AccessToken
		whoami, err := b.client.Whoami(ctx)
		if err != nil {
			return fmt.Errorf("matrix token check failed: %w", err)
		}
		b.client.UserID = whoami.UserID
		b.client.DeviceID = whoami.DeviceID
		b.userID = whoami.UserID
		return nil
	}

	resp, err := b.client.Login(ctx, &mautrix.ReqLogin{
		Type: mautrix.AuthTypePassword,
		Identifier: mautrix.UserIdentifier{
			Type: mautrix.IdentifierTypeUser,
			User: b.cfg.Username,
		},
		Password:                 b.cfg.Password,
		DeviceID:                 id.DeviceID(b.cfg.DeviceID),
		InitialDeviceDisplayName: LoginDeviceName,
		StoreCredentials:         true,
	})
	if err != nil {
		return fmt.Errorf("matrix login failed: %w", err)
	}
	b.userID = resp.UserID
	return nil
}

// handleMessage runs commands on their own goroutine so the sync loop keeps going
func (b *Bot) handleMessage(ctx context.Context, evt *event.Event) {
	if evt.Sender == b.userID {
		return
	}
	content := evt.Content.AsMessage()
	if content.MsgType != event.MsgText {
		return
	}
	name, _, ok := dispatch.ParseText(content.Body)
	if !ok {
		return
	}
	if _, known := b.dispatcher.Lookup(name); !known {
		return
	}

	roomID := evt.RoomID
	sender := string(evt.Sender)
	body := content.Body

	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		b.dispatcher.HandleText(ctx, domain.PlatformMatrix, sender, sender, body, b.roomSender(roomID))
	}()
}

// handleMember joins rooms the bot is invited to
func (b *Bot) handleMember(ctx context.Context, evt *event.Event) {
	if evt.GetStateKey() != b.userID.String() {
		return
	}
	if evt.Content.AsMember().Membership != event.MembershipInvite {
		return
	}
	b.join(ctx, evt.RoomID, evt.Sender)
}

// joinPendingInvites accepts invites that arrived while the bot was offline.
// They only show up in the first sync, whose events are otherwise skipped.
func (b *Bot) joinPendingInvites(ctx context.Context, resp *mautrix.RespSync, since string) bool {
	if since != "" {
		return true
	}
	for roomID, room := range resp.Rooms.Invite {
		var inviter id.UserID
		if room != nil {
			for _, evt := range room.State.Events {
				if evt.Type == event.StateMember && evt.GetStateKey() == b.userID.String() {
					inviter = evt.Sender
				}
			}
		}
		b.join(ctx, roomID, inviter)
	}
	return true
}

func (b *Bot) join(ctx context.Context, roomID id.RoomID, inviter id.UserID) {
	if _, err := b.api.JoinRoomByID(ctx, roomID); err != nil {
		slog.Error(LogMsgJoinFailed, "room", roomID, "inviter", inviter, "error", err)
		return
	}
	slog.Info(LogMsgJoinedRoom, "room", roomID, "inviter", inviter)
}

func (b *Bot) roomSender(roomID id.RoomID) dispatch.SendFunc {
	return func(ctx context.Context, message string) error {
		if _, err := b.api.SendText(ctx, roomID, message); err != nil {
			metrics.DeliveryFailures.WithLabelValues(string(domain.PlatformMatrix)).Inc()
			return fmt.Errorf("send to %s: %w", roomID, err)
		}
		return nil
	}
}

// Wait blocks until every command started so far has finished
func (b *Bot) Wait() {
	b.inflight.Wait()
}
