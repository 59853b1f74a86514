package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/watson/internal/config"
	"github.com/osse101/watson/internal/domain"
	"github.com/osse101/watson/internal/server"
)

// Log messages
const (
	LogMsgConfigFailed    = "Configuration failed"
	LogMsgConfigLoaded    = "Configuration loaded"
	LogMsgConfigWarning   = "Configuration warning"
	LogMsgBackendDisabled = "Backend disabled"
	LogMsgNoBackends      = "No backend is configured, nothing to do"
	LogMsgBackendFailed   = "Backend stopped with error"
	LogMsgShutdown        = "Shutdown complete"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error(LogMsgConfigFailed, "error", err)
		return 1
	}

	initLogger(cfg)
	slog.Info(LogMsgConfigLoaded, "source", cfg.Source)
	for _, w := range cfg.Warnings() {
		slog.Warn(LogMsgConfigWarning, "warning", w)
	}

	enabled, skipped := cfg.EnabledBackends()
	for platform, reason := range skipped {
		slog.Warn(LogMsgBackendDisabled, "platform", platform, "reason", reason)
	}
	if len(enabled) == 0 {
		slog.Error(LogMsgNoBackends, "error", domain.ErrNoBackendsConfigured)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := buildDispatcher(cfg)
	backends, err := buildBackends(cfg, enabled, d)
	if err != nil {
		slog.Error(LogMsgConfigFailed, "error", err)
		return 1
	}

	g, gctx := errgroup.WithContext(ctx)

	// a failing backend leaves the others running
	var failures atomic.Int32
	var running sync.WaitGroup
	for _, b := range backends {
		running.Add(1)
		g.Go(func() error {
			defer running.Done()
			if err := b.Run(gctx); err != nil {
				failures.Add(1)
				slog.Error(LogMsgBackendFailed, "backend", b.Name(), "error", err)
			}
			return nil
		})
	}

	if cfg.HTTP.Addr != "" {
		probes := make([]server.Backend, 0, len(backends))
		for _, b := range backends {
			probes = append(probes, b)
		}
		srv := server.NewServer(cfg.HTTP.Addr, probes, d)

		srvCtx, cancelSrv := context.WithCancel(gctx)
		go func() {
			running.Wait()
			cancelSrv()
		}()
		g.Go(func() error {
			defer cancelSrv()
			return srv.Run(srvCtx)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error(LogMsgBackendFailed, "backend", "http", "error", err)
		return 1
	}
	slog.Info(LogMsgShutdown)

	if int(failures.Load()) == len(backends) {
		return 1
	}
	return 0
}
