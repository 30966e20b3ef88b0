// Package main is the entry point for the CodeCloud server. Its job is
// reading configuration, creating the top-level dependencies, and starting
// the server; everything else lives under internal/.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Manav-Sonawane/CodeCloud/internal/config"
	"github.com/Manav-Sonawane/CodeCloud/internal/executor"
	"github.com/Manav-Sonawane/CodeCloud/internal/executor/jdoodle"
	"github.com/Manav-Sonawane/CodeCloud/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg := config.Load()

	if cfg.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("JWT_SECRET not set — using the insecure development default; " +
			"generate one with `openssl rand -hex 32` before deploying")
	}

	// Make sure the database directory exists before sqlite tries to open it.
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(cfg.DBPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// The execution provider is optional: without credentials the server
	// still starts, and run endpoints answer 503.
	var exec executor.Executor
	if cfg.JDoodleClientID != "" && cfg.JDoodleClientSecret != "" {
		client, err := jdoodle.New(jdoodle.Config{
			URL:          cfg.JDoodleURL,
			ClientID:     cfg.JDoodleClientID,
			ClientSecret: cfg.JDoodleClientSecret,
			Timeout:      cfg.ExecutionTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to create execution client", slog.String("error", err.Error()))
			os.Exit(1)
		}
		exec = client
	} else {
		logger.Warn("JDoodle credentials not set — code execution is disabled")
	}

	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	srv, err := server.New(cfg, logger, exec)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
