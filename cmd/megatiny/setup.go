package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/megatiny/internal/config"
	"github.com/vovakirdan/megatiny/internal/storage"
)

// loadConfig loads the configuration and applies the global flags.
// It exits on invalid configuration.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagDBPath != "" {
		cfg.Journal.Path = flagDBPath
	}
	if flagNoJournal {
		cfg.Journal.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger creates the command line logger at the configured level.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "megatiny",
	})
	if lvl, err := cfg.LogLevel(); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// openJournal opens the run journal, or returns nil when it is disabled or
// cannot be opened.
func openJournal(cfg config.Config, logger *log.Logger) *storage.Store {
	if !cfg.Journal.Enabled {
		return nil
	}
	store, err := storage.Open(cfg.Journal.Path)
	if err != nil {
		logger.Warn("could not open journal", "path", cfg.Journal.Path, "error", err)
		return nil
	}
	return store
}
