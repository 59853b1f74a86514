package main

import (
	"context"
	"fmt"

	"github.com/osse101/watson/internal/config"
	"github.com/osse101/watson/internal/discord"
	"github.com/osse101/watson/internal/dispatch"
	"github.com/osse101/watson/internal/domain"
	"github.com/osse101/watson/internal/matrix"
	"github.com/osse101/watson/internal/runner"
	"github.com/osse101/watson/internal/sherlock"
)

// backend is a chat connection that runs until its context is done
type backend interface {
	Name() string
	Connected() bool
	Run(ctx context.Context) error
}

func buildDispatcher(cfg *config.Config) *dispatch.Dispatcher {
	r := runner.New(runner.Config{
		Command: cfg.Sherlock.Command,
		Args:    cfg.Sherlock.Args,
		Dir:     cfg.Sherlock.Dir,
		Env:     cfg.Sherlock.Env,
	})

	searcher := dispatch.NewSearcher(r, sherlock.LineParser{}, dispatch.SearchConfig{
		Tool: sherlock.Tool{
			OutputDir:   cfg.Sherlock.OutputDir,
			SiteTimeout: cfg.Sherlock.SiteTimeout,
			SimilarMode: cfg.Sherlock.SimilarMode,
		},
		Timeout:   cfg.Sherlock.Timeout,
		ChunkSize: cfg.Sherlock.ChunkSize,
	})

	return dispatch.New(searcher)
}

func buildBackends(cfg *config.Config, enabled []domain.Platform, d *dispatch.Dispatcher) ([]backend, error) {
	backends := make([]backend, 0, len(enabled))
	for _, p := range enabled {
		switch p {
		case domain.PlatformMatrix:
			bot, err := matrix.New(matrix.Config{
				Homeserver:  cfg.Matrix.Homeserver,
				Username:    cfg.Matrix.Username,
				Password:    cfg.Matrix.Password,
				AccessToken: cfg.Matrix.AccessToken,
				DeviceID:    cfg.Matrix.DeviceID,
			}, d)
			if err != nil {
				return nil, err
			}
			backends = append(backends, bot)
		case domain.PlatformDiscord:
			bot, err := discord.New(discord.Config{
				Token:              cfg.Discord.Token,
				AppID:              cfg.Discord.AppID,
				GuildID:            cfg.Discord.GuildID,
				ForceCommandUpdate: cfg.Discord.ForceCommandUpdate,
				MessageCommands:    cfg.Discord.MessageCommands,
			}, d)
			if err != nil {
				return nil, err
			}
			backends = append(backends, bot)
		default:
			return nil, fmt.Errorf("%w: %s", domain.ErrBackendNotConfigured, p)
		}
	}
	return backends, nil
}
