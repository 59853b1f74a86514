package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"github.com/osse101/watson/internal/dispatch"
	"github.com/osse101/watson/internal/domain"
	"github.com/osse101/watson/internal/sherlock"
)

// MockRoundTripper implements http.RoundTripper for intercepting requests
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// CapturedRequest is one Discord REST call made by the code under test
type CapturedRequest struct {
	Method string
	Path   string
	Body   []byte
}

// Content decodes the message content of a webhook or channel message body
func (c CapturedRequest) Content(t *testing.T) string {
	t.Helper()
	var body struct {
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(c.Body, &body))
	return body.Content
}

// stubRunner stands in for the sherlock process
type stubRunner struct {
	mu      sync.Mutex
	calls   int
	outcome domain.ProcessOutcome
}

func (r *stubRunner) Run(ctx context.Context, args []string, timeout time.Duration) domain.ProcessOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.outcome
}

func (r *stubRunner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// TestContext bundles a Discord session whose HTTP traffic is captured
// together with a dispatcher backed by a stub runner
type TestContext struct {
	Session      *discordgo.Session
	DiscordMocks *MockRoundTripper
	Runner       *stubRunner
	Dispatcher   *dispatch.Dispatcher

	mu       sync.Mutex
	requests []CapturedRequest
	// Respond overrides the default reply for a request; nil falls through
	Respond func(req CapturedRequest) *http.Response
}

func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)

	runner := &stubRunner{}
	ctx := &TestContext{
		Session: session,
		Runner:  runner,
		Dispatcher: dispatch.New(dispatch.NewSearcher(runner, sherlock.LineParser{}, dispatch.SearchConfig{
			Tool: sherlock.Tool{OutputDir: t.TempDir()},
		})),
	}

	ctx.DiscordMocks = &MockRoundTripper{
		RoundTripFunc: func(req *http.Request) (*http.Response, error) {
			captured := CapturedRequest{Method: req.Method, Path: req.URL.Path}
			if req.Body != nil {
				captured.Body, _ = io.ReadAll(req.Body)
			}
			ctx.mu.Lock()
			ctx.requests = append(ctx.requests, captured)
			respond := ctx.Respond
			ctx.mu.Unlock()

			if respond != nil {
				if resp := respond(captured); resp != nil {
					return resp, nil
				}
			}
			if strings.HasSuffix(captured.Path, "/commands") {
				return jsonResponse(http.StatusOK, "[]"), nil
			}
			return jsonResponse(http.StatusOK, "{}"), nil
		},
	}
	session.Client = &http.Client{Transport: ctx.DiscordMocks}

	return ctx
}

// Requests returns the captured Discord calls in order
func (c *TestContext) Requests() []CapturedRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CapturedRequest(nil), c.requests...)
}

// RequestsMatching filters captured calls by method and path fragment
func (c *TestContext) RequestsMatching(method, pathPart string) []CapturedRequest {
	var out []CapturedRequest
	for _, r := range c.Requests() {
		if r.Method == method && strings.Contains(r.Path, pathPart) {
			out = append(out, r)
		}
	}
	return out
}

func jsonResponse(status int, body string) *http.Response {
	header := make(http.Header)
	header.Set("Content-Type", "application/json")
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     header,
	}
}

// newCommandInteraction builds a slash command interaction from a guild member
func newCommandInteraction(name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:    "interaction-1",
			AppID: "app-1",
			Token: "token-1",
			Type:  discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: options,
			},
			Member: &discordgo.Member{
				User: &discordgo.User{ID: "42", Username: "Tester"},
			},
		},
	}
}

func usernameOption(value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  dispatch.UsernameOption,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}
