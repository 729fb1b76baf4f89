// Command analyzer-mcp serves the transcription pipeline as MCP tools over
// stdio.
package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/saminlion/interview-analyzer/internal/config"
	"github.com/saminlion/interview-analyzer/internal/logging"
	"github.com/saminlion/interview-analyzer/internal/mcpserver"
	"github.com/saminlion/interview-analyzer/internal/pipeline"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to read .env", "error", err)
	}

	cfg, err := config.Loader{}.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// stdout carries the protocol.
	logger := logging.New(os.Stderr, cfg.LogLevel)
	logger.Info("starting mcp server",
		"version", version,
		"backend", cfg.Backend,
		"model", cfg.Model,
		"chunk_minutes", cfg.ChunkMinutes,
	)

	srv := mcpserver.New(pipeline.FromConfig(cfg, logger), cfg, version, logger)
	if err := srv.ServeStdio(); err != nil {
		logger.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
