package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/megatiny/internal/backend"
	"github.com/vovakirdan/megatiny/internal/backend/raster"
	"github.com/vovakirdan/megatiny/internal/config"
	"github.com/vovakirdan/megatiny/internal/demo"
	"github.com/vovakirdan/megatiny/internal/engine"
	"github.com/vovakirdan/megatiny/internal/storage"
)

// framebufferBackend is implemented by the software-rendered backends.
type framebufferBackend interface {
	Framebuffer() *raster.Framebuffer
}

func runGame(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	logger := newLogger(cfg)

	if !backend.Exists(cfg.Backend) {
		fmt.Fprintf(os.Stderr, "Error: unknown backend %q\n", cfg.Backend)
		fmt.Fprintln(os.Stderr, "Run 'megatiny backends' to see available backends.")
		os.Exit(1)
	}

	b, err := backend.Create(cfg.Backend, backend.Options{
		Logger:     logger.WithPrefix(cfg.Backend),
		FPS:        cfg.Terminal.FPS,
		KeyRelease: cfg.Terminal.KeyRelease(),
		Frames:     flagFrames,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	keys, err := cfg.KeyMapper()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	core, err := engine.Create(b, windowOptions(cfg),
		engine.WithLogger(logger.WithPrefix("engine")),
		engine.WithKeyMapper(keys),
	)
	if err != nil {
		// Create already logged the failing step.
		os.Exit(1)
	}

	started := time.Now()
	stats := core.RunGame(demo.New())

	if flagSnapshot != "" {
		writeSnapshot(b, flagSnapshot, logger)
	}
	core.Destroy()

	logger.Info("run finished",
		"frames", stats.Frames,
		"inputs", stats.Inputs,
		"elapsed", stats.Elapsed(),
	)
	recordRun(cfg, stats, started, logger)
}

func windowOptions(cfg config.Config) engine.Options {
	return engine.Options{
		PixelWidth:  cfg.Window.Width,
		PixelHeight: cfg.Window.Height,
		Scaling:     cfg.Window.Scaling,
		Resizable:   cfg.Window.Resizable,
		Title:       cfg.Window.Title,
	}
}

func writeSnapshot(b engine.Backend, path string, logger *log.Logger) {
	fbb, ok := b.(framebufferBackend)
	if !ok || fbb.Framebuffer() == nil {
		logger.Warn("backend has no software framebuffer, skipping snapshot")
		return
	}

	f, err := os.Create(path)
	if err != nil {
		logger.Error("cannot create snapshot", "path", path, "error", err)
		return
	}
	defer f.Close()

	if err := fbb.Framebuffer().WritePNG(f); err != nil {
		logger.Error("cannot write snapshot", "path", path, "error", err)
		return
	}
	logger.Info("snapshot written", "path", path)
}

func recordRun(cfg config.Config, stats engine.RunStats, started time.Time, logger *log.Logger) {
	store := openJournal(cfg, logger)
	if store == nil {
		return
	}
	defer store.Close()

	session := storage.SessionFromRun(cfg.Window.Title, cfg.Backend, "", stats, started)
	id, err := store.SaveSession(session)
	if err != nil {
		logger.Warn("could not record run", "error", err)
		return
	}
	logger.Debug("run recorded", "id", id)
}
