package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/watson/internal/dispatch"
	"github.com/osse101/watson/internal/domain"
)

const (
	pathCallback  = "/interactions/interaction-1/token-1/callback"
	pathOriginal  = "/webhooks/app-1/token-1/messages/@original"
	pathFollowups = "/webhooks/app-1/token-1"
)

func TestDispatchRegistry_Definitions(t *testing.T) {
	ctx := SetupTestContext(t)
	registry := NewDispatchRegistry(ctx.Dispatcher)

	defs := registry.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, domain.CommandSherlock, defs[0].Name)
	assert.Equal(t, domain.CommandSherlockSimilar, defs[1].Name)
	assert.Equal(t, domain.CommandHelp, defs[2].Name)

	require.Len(t, defs[0].Options, 1)
	opt := defs[0].Options[0]
	assert.Equal(t, dispatch.UsernameOption, opt.Name)
	assert.Equal(t, discordgo.ApplicationCommandOptionString, opt.Type)
	assert.True(t, opt.Required)

	assert.Empty(t, defs[2].Options)
}

func TestSherlockCommand_DeliversResults(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Runner.outcome = domain.ProcessOutcome{
		Stdout: "[*] Checking username alice on:\n[+] github: https://github.com/alice\n[+] https://example.com/alice\n",
	}
	registry := NewDispatchRegistry(ctx.Dispatcher)

	registry.Handle(context.Background(), ctx.Session, newCommandInteraction(domain.CommandSherlock, usernameOption("alice")))

	callbacks := ctx.RequestsMatching(http.MethodPost, pathCallback)
	require.Len(t, callbacks, 1)
	var resp discordgo.InteractionResponse
	require.NoError(t, json.Unmarshal(callbacks[0].Body, &resp))
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, resp.Type)

	edits := ctx.RequestsMatching(http.MethodPatch, pathOriginal)
	require.Len(t, edits, 1)
	assert.Equal(t, "Searching username `alice` for <@42>", edits[0].Content(t))

	followups := ctx.RequestsMatching(http.MethodPost, pathFollowups)
	require.Len(t, followups, 3)
	assert.Equal(t, "[github](https://github.com/alice)\n[example.com](https://example.com/alice)\n", followups[0].Content(t))
	assert.Equal(t, "[*] Search completed with 2 results for `alice`", followups[1].Content(t))
	assert.Equal(t, "Finished report on `alice` for <@42>", followups[2].Content(t))

	assert.Equal(t, 1, ctx.Runner.Calls())
}

func TestSherlockCommand_InvalidUsername(t *testing.T) {
	ctx := SetupTestContext(t)
	registry := NewDispatchRegistry(ctx.Dispatcher)

	registry.Handle(context.Background(), ctx.Session, newCommandInteraction(domain.CommandSherlockSimilar, usernameOption("bob;rm")))

	edits := ctx.RequestsMatching(http.MethodPatch, pathOriginal)
	require.Len(t, edits, 1)
	assert.Equal(t, dispatch.MsgInvalidUsername, edits[0].Content(t))
	assert.Empty(t, ctx.RequestsMatching(http.MethodPost, pathFollowups))
	assert.Zero(t, ctx.Runner.Calls())
}

func TestSherlockCommand_ToolFailure(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Runner.outcome = domain.ProcessOutcome{ExitCode: -1, TimedOut: true, Stderr: domain.ErrMsgProcessTimedOut}
	registry := NewDispatchRegistry(ctx.Dispatcher)

	registry.Handle(context.Background(), ctx.Session, newCommandInteraction(domain.CommandSherlock, usernameOption("alice")))

	followups := ctx.RequestsMatching(http.MethodPost, pathFollowups)
	require.Len(t, followups, 1)
	assert.Equal(t, dispatch.MsgSearchFailed, followups[0].Content(t))
}

func TestSherlockCommand_DeferFailureStops(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Respond = func(req CapturedRequest) *http.Response {
		if strings.HasSuffix(req.Path, "/callback") {
			return jsonResponse(http.StatusBadRequest, `{"message":"Unknown interaction","code":10062}`)
		}
		return nil
	}
	registry := NewDispatchRegistry(ctx.Dispatcher)

	registry.Handle(context.Background(), ctx.Session, newCommandInteraction(domain.CommandSherlock, usernameOption("alice")))

	assert.Empty(t, ctx.RequestsMatching(http.MethodPatch, pathOriginal))
	assert.Zero(t, ctx.Runner.Calls())
}

func TestHelpCommand_UsesSlashSyntax(t *testing.T) {
	ctx := SetupTestContext(t)
	registry := NewDispatchRegistry(ctx.Dispatcher)

	registry.Handle(context.Background(), ctx.Session, newCommandInteraction(domain.CommandHelp))

	edits := ctx.RequestsMatching(http.MethodPatch, pathOriginal)
	require.Len(t, edits, 1)
	content := edits[0].Content(t)
	assert.Contains(t, content, "`/sherlock username:<username>`")
	assert.Contains(t, content, "`/sherlock-similar username:<username>`")
	assert.Contains(t, content, "`/help`")
	assert.Zero(t, ctx.Runner.Calls())
}

func TestRegistry_IgnoresOtherInteractionTypes(t *testing.T) {
	ctx := SetupTestContext(t)
	registry := NewDispatchRegistry(ctx.Dispatcher)

	i := newCommandInteraction(domain.CommandSherlock, usernameOption("alice"))
	i.Type = discordgo.InteractionMessageComponent
	i.Data = discordgo.MessageComponentInteractionData{CustomID: "button"}

	registry.Handle(context.Background(), ctx.Session, i)

	assert.Empty(t, ctx.Requests())
}

func TestGetInteractionUser_DirectMessage(t *testing.T) {
	i := newCommandInteraction(domain.CommandHelp)
	i.Member = nil
	i.User = &discordgo.User{ID: "7"}

	user := getInteractionUser(i)

	require.NotNil(t, user)
	assert.Equal(t, "7", user.ID)
}
