package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"
)

// Backend is a chat connection whose state is reported by the health routes
type Backend interface {
	Name() string
	Connected() bool
}

// CommandStats exposes command counters. *dispatch.Dispatcher satisfies it.
type CommandStats interface {
	CommandsReceived() int64
	LastCommandTime() time.Time
}

// HealthStatus represents the bot's health status
type HealthStatus struct {
	Status           string          `json:"status"`
	Uptime           string          `json:"uptime"`
	Backends         map[string]bool `json:"backends"`
	CommandsReceived int64           `json:"commands_received"`
	LastCommandTime  *time.Time      `json:"last_command_time,omitempty"`
}

// VersionInfo contains version and build information
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	BuildTime string `json:"build_time,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
}

// Build-time variables (injected via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unset"
)

// HandleHealthz reports liveness with uptime, command counters and the
// connection state of every backend. It always answers 200.
func HandleHealthz(started time.Time, backends []Backend, stats CommandStats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := HealthStatus{
			Status:   StatusOK,
			Uptime:   time.Since(started).Round(time.Second).String(),
			Backends: backendStates(backends),
		}
		if stats != nil {
			health.CommandsReceived = stats.CommandsReceived()
			if last := stats.LastCommandTime(); !last.IsZero() {
				health.LastCommandTime = &last
			}
		}
		for _, connected := range health.Backends {
			if !connected {
				health.Status = StatusDegraded
			}
		}

		writeJSON(w, http.StatusOK, health)
	}
}

// HandleReadyz answers 503 until every backend is connected
func HandleReadyz(backends []Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		states := backendStates(backends)
		status, code := StatusOK, http.StatusOK
		for _, connected := range states {
			if !connected {
				status, code = StatusDegraded, http.StatusServiceUnavailable
			}
		}

		writeJSON(w, code, struct {
			Status   string          `json:"status"`
			Backends map[string]bool `json:"backends"`
		}{status, states})
	}
}

// HandleVersion returns version information about the application
func HandleVersion() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, VersionInfo{
			Version:   getVersionInfo(),
			GoVersion: runtime.Version(),
			BuildTime: BuildTime,
			GitCommit: GitCommit,
		})
	}
}

// getVersionInfo returns version from build-time variable or environment
func getVersionInfo() string {
	if Version != "dev" && Version != "" {
		return Version
	}
	if envVersion := os.Getenv("VERSION"); envVersion != "" {
		return envVersion
	}
	return "dev"
}

func backendStates(backends []Backend) map[string]bool {
	states := make(map[string]bool, len(backends))
	for _, b := range backends {
		states[b.Name()] = b.Connected()
	}
	return states
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
