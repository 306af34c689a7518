// Package main serves the get_weather tool over MCP stdio.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/KKamx0/TREMM/internal/config"
	"github.com/KKamx0/TREMM/internal/lookup"
	"github.com/KKamx0/TREMM/internal/mcp"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	const serviceName = "weather-mcp"

	// stdout carries the protocol; logs go to stderr.
	log := zerolog.New(os.Stderr).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	service := lookup.New(cfg, lookup.Dependencies{Logger: log})
	if err := service.Ready(); err != nil {
		log.Warn().Err(err).Msg("weather lookups will fail until the credential is set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := mcp.NewServer(mcp.ServerConfig{
		Name:    "weather",
		Service: service,
		Logger:  log,
	})
	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("mcp server stopped with error")
		os.Exit(1)
	}
}
