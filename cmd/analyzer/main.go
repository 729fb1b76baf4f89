// Command analyzer is the terminal UI for transcribing interview recordings
// with Whisper.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/saminlion/interview-analyzer/internal/app"
	"github.com/saminlion/interview-analyzer/internal/config"
	"github.com/saminlion/interview-analyzer/internal/db"
	"github.com/saminlion/interview-analyzer/internal/logging"
	"github.com/saminlion/interview-analyzer/internal/pipeline"
	"github.com/saminlion/interview-analyzer/internal/transcribe"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	cfg, err := config.Loader{}.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, logFile, err := logging.OpenFile(cfg.TempDir, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	logger.Info("starting analyzer",
		"backend", cfg.Backend,
		"model", cfg.Model,
		"chunk_minutes", cfg.ChunkMinutes,
		"temp_dir", cfg.TempDir,
	)

	deps := app.Deps{
		Pipeline:     pipeline.FromConfig(cfg, logger),
		CacheDir:     cfg.CacheDir,
		Backend:      cfg.Backend,
		Model:        cfg.Model,
		ChunkMinutes: cfg.ChunkMinutes,
		Logger:       logger,
	}
	if cfg.Backend == config.BackendWhisper {
		deps.Device = transcribe.DetectDevice()
	}
	if wd, err := os.Getwd(); err == nil {
		deps.StartDir = wd
	}

	prefsPath := cfg.PrefsPath
	if prefsPath == "" {
		prefsPath = db.DefaultDBPath()
	}
	store, err := db.Open(prefsPath)
	if err != nil {
		logger.Warn("preferences unavailable", "path", prefsPath, "error", err)
	} else {
		defer store.Close()
		deps.Store = store
	}

	p := tea.NewProgram(app.New(deps), tea.WithAltScreen())
	final, err := p.Run()
	if m, ok := final.(app.Model); ok {
		m.Close()
	}
	if err != nil {
		logger.Error("tui exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
