package main

import (
	"github.com/osse101/watson/internal/config"
	"github.com/osse101/watson/internal/logger"
	"github.com/osse101/watson/internal/server"
)

// initLogger initializes the logger from the log section of the configuration
func initLogger(cfg *config.Config) {
	loggerConfig := logger.NewConfig(
		cfg.Log.Level,
		cfg.Log.Format,
		logger.DefaultServiceName,
		server.Version,
		cfg.Log.Environment,
		cfg.Log.AddSource,
	)

	logger.InitLogger(loggerConfig)
}
