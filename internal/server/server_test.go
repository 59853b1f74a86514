package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBackend mocks a chat backend
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Name() string {
	return m.Called().String(0)
}

func (m *MockBackend) Connected() bool {
	return m.Called().Bool(0)
}

type fixedStats struct {
	received int64
	last     time.Time
}

func (f fixedStats) CommandsReceived() int64    { return f.received }
func (f fixedStats) LastCommandTime() time.Time { return f.last }

func newBackend(name string, connected bool) *MockBackend {
	b := &MockBackend{}
	b.On("Name").Return(name)
	b.On("Connected").Return(connected)
	return b
}

func TestHealthz(t *testing.T) {
	t.Run("all connected", func(t *testing.T) {
		last := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		srv := NewServer(":0", []Backend{newBackend("matrix", true), newBackend("discord", true)}, fixedStats{received: 7, last: last})

		req := httptest.NewRequest(http.MethodGet, PathHealthz, nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var health HealthStatus
		require.NoError(t, json.NewDecoder(w.Body).Decode(&health))
		assert.Equal(t, StatusOK, health.Status)
		assert.Equal(t, map[string]bool{"matrix": true, "discord": true}, health.Backends)
		assert.Equal(t, int64(7), health.CommandsReceived)
		require.NotNil(t, health.LastCommandTime)
		assert.True(t, last.Equal(*health.LastCommandTime))
		assert.NotEmpty(t, health.Uptime)
	})

	t.Run("disconnected backend is degraded but alive", func(t *testing.T) {
		backend := newBackend("matrix", false)
		srv := NewServer(":0", []Backend{backend}, fixedStats{})

		req := httptest.NewRequest(http.MethodGet, PathHealthz, nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"degraded"`)
		assert.NotContains(t, w.Body.String(), "last_command_time")
		backend.AssertExpectations(t)
	})
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name     string
		backends []Backend
		wantCode int
	}{
		{"ready", []Backend{newBackend("discord", true)}, http.StatusOK},
		{"not ready", []Backend{newBackend("discord", true), newBackend("matrix", false)}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(":0", tt.backends, nil)

			req := httptest.NewRequest(http.MethodGet, PathReadyz, nil)
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestVersion(t *testing.T) {
	srv := NewServer(":0", nil, nil)

	req := httptest.NewRequest(http.MethodGet, PathVersion, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var info VersionInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.NotEmpty(t, info.GoVersion)
	assert.NotEmpty(t, info.Version)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := NewServer(":0", nil, nil)

	// record one request so the HTTP series exist
	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, PathHealthz, nil))

	req := httptest.NewRequest(http.MethodGet, PathMetrics, nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "watson_http_requests_total")
	assert.Equal(t, HeaderValueNoSniff, w.Header().Get(HeaderContentTypeOptions))
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := NewServer("127.0.0.1:0", nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
