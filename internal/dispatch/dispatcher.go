// Package dispatch routes chat commands to handlers and runs the search
// pipeline behind them.
package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/osse101/watson/internal/domain"
	"github.com/osse101/watson/internal/logger"
	"github.com/osse101/watson/internal/metrics"
)

// SendFunc delivers one message to the room or channel a command came from
type SendFunc func(ctx context.Context, message string) error

// Surface is the syntax a command arrived in
type Surface int

const (
	// SurfaceMessage is the "!sherlock alice" text form
	SurfaceMessage Surface = iota
	// SurfaceSlash is the "/sherlock username:alice" interaction form
	SurfaceSlash
)

// MessagePrefix starts every text command
const MessagePrefix = "!"

// UsernameOption is the slash command option carrying the username
const UsernameOption = "username"

// Request is a normalized command invocation
type Request struct {
	Platform  domain.Platform
	Surface   Surface
	SenderID  string
	Requester string // display form of the sender, e.g. a mention
	Command   string
	Argument  string
}

// HandlerFunc handles one command
type HandlerFunc func(ctx context.Context, req Request, send SendFunc) error

// Command is one entry in the dispatch table
type Command struct {
	Name        string
	Description string
	TakesArg    bool
	Handler     HandlerFunc
}

// Usage renders the invocation syntax for a surface
func (c Command) Usage(s Surface) string {
	switch {
	case s == SurfaceSlash && c.TakesArg:
		return "/" + c.Name + " " + UsernameOption + ":<username>"
	case s == SurfaceSlash:
		return "/" + c.Name
	case c.TakesArg:
		return MessagePrefix + c.Name + " <username>"
	default:
		return MessagePrefix + c.Name
	}
}

// Dispatcher owns the command table. It holds no per-request state.
type Dispatcher struct {
	commands map[string]Command
	order    []string

	received    atomic.Int64
	lastCommand atomic.Int64 // unix nanos
}

// New creates a dispatcher with the sherlock, sherlock-similar and help commands
func New(searcher *Searcher) *Dispatcher {
	d := &Dispatcher{commands: make(map[string]Command)}

	d.Register(Command{
		Name:        domain.CommandSherlock,
		Description: DescSherlock,
		TakesArg:    true,
		Handler:     searchHandler(searcher, false),
	})
	d.Register(Command{
		Name:        domain.CommandSherlockSimilar,
		Description: DescSherlockSimilar,
		TakesArg:    true,
		Handler:     searchHandler(searcher, true),
	})
	d.Register(Command{
		Name:        domain.CommandHelp,
		Description: DescHelp,
		Handler:     d.helpHandler,
	})

	return d
}

// Register adds a command, replacing any with the same name
func (d *Dispatcher) Register(cmd Command) {
	if _, ok := d.commands[cmd.Name]; !ok {
		d.order = append(d.order, cmd.Name)
	}
	d.commands[cmd.Name] = cmd
}

// Commands returns the table in registration order
func (d *Dispatcher) Commands() []Command {
	out := make([]Command, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.commands[name])
	}
	return out
}

// Lookup returns the named command
func (d *Dispatcher) Lookup(name string) (Command, bool) {
	cmd, ok := d.commands[name]
	return cmd, ok
}

// ParseText splits "!name argument" into its parts. The argument keeps any
// inner whitespace so validation can reject it.
func ParseText(text string) (name, arg string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, MessagePrefix) {
		return "", "", false
	}
	body := strings.TrimPrefix(text, MessagePrefix)

	name, arg = body, ""
	if i := strings.IndexFunc(body, unicode.IsSpace); i >= 0 {
		name, arg = body[:i], strings.TrimSpace(body[i:])
	}
	if name == "" {
		return "", "", false
	}
	return name, arg, true
}

// HandleText handles a raw chat message. It returns false when the text is
// not a known command, in which case nothing is sent.
func (d *Dispatcher) HandleText(ctx context.Context, platform domain.Platform, senderID, requester, text string, send SendFunc) bool {
	name, arg, ok := ParseText(text)
	if !ok {
		return false
	}
	if _, known := d.commands[name]; !known {
		return false
	}

	d.Handle(ctx, Request{
		Platform:  platform,
		Surface:   SurfaceMessage,
		SenderID:  senderID,
		Requester: requester,
		Command:   name,
		Argument:  arg,
	}, send)
	return true
}

// Handle runs a command. Errors and panics stop here: they are logged with
// the request ID and the user gets one generic message.
func (d *Dispatcher) Handle(ctx context.Context, req Request, send SendFunc) {
	cmd, ok := d.commands[req.Command]
	if !ok {
		return
	}
	if req.Requester == "" {
		req.Requester = req.SenderID
	}

	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())
	log := logger.FromContext(ctx).With(
		logger.AttrKeyPlatform, string(req.Platform),
		"command", req.Command,
		"sender", req.SenderID,
	)

	d.received.Add(1)
	d.lastCommand.Store(time.Now().UnixNano())
	metrics.CommandsTotal.WithLabelValues(string(req.Platform), req.Command).Inc()
	log.Info(LogMsgCommandReceived, "argument", req.Argument)

	defer func() {
		if r := recover(); r != nil {
			metrics.HandlerPanics.WithLabelValues(string(req.Platform)).Inc()
			log.Error(LogMsgCommandPanicked, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			d.reply(ctx, req, send, MsgInternalError)
		}
	}()

	if err := cmd.Handler(ctx, req, send); err != nil {
		log.Error(LogMsgCommandFailed, "error", err)
		d.reply(ctx, req, send, MsgInternalError)
	}
}

// reply sends a best-effort message, logging delivery failures
func (d *Dispatcher) reply(ctx context.Context, req Request, send SendFunc, msg string) {
	if err := send(ctx, msg); err != nil {
		logger.FromContext(ctx).Error(LogMsgDeliveryFailed, "error", err)
	}
}

// CommandsReceived returns the number of commands handled since start
func (d *Dispatcher) CommandsReceived() int64 {
	return d.received.Load()
}

// LastCommandTime returns when the last command arrived, or the zero time
func (d *Dispatcher) LastCommandTime() time.Time {
	n := d.lastCommand.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// HelpText lists the commands in the syntax of the given surface
func (d *Dispatcher) HelpText(s Surface) string {
	lines := []string{MsgHelpHeader}
	for _, cmd := range d.Commands() {
		lines = append(lines, fmt.Sprintf(MsgHelpLine, cmd.Usage(s), cmd.Description))
	}
	return strings.Join(lines, "\n")
}

func (d *Dispatcher) helpHandler(ctx context.Context, req Request, send SendFunc) error {
	return send(ctx, d.HelpText(req.Surface))
}
