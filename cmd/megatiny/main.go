// megatiny runs the Mega Tiny demo game on the engine core.
//
// Usage:
//
//	megatiny                 - Play the demo on the configured backend
//	megatiny keys            - Show the effective key bindings
//	megatiny backends        - List available backends
//	megatiny sessions        - Show recent runs from the journal
//	megatiny serve           - Start SSH server for remote play
//
// Global flags:
//
//	--config <path>     - Configuration file (default: search order)
//	--backend <name>    - Backend to run on (default: sdl)
//	--log-level <lvl>   - debug, info, warn or error
//	--db <path>         - Journal database path (default: ~/.megatiny/journal.db)
//	--no-journal        - Do not record runs
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import backends to register them
	_ "github.com/vovakirdan/megatiny/internal/backend/bubble"
	_ "github.com/vovakirdan/megatiny/internal/backend/headless"
	_ "github.com/vovakirdan/megatiny/internal/backend/screen"
)

var (
	// Global flags
	flagConfig    string
	flagBackend   string
	flagLogLevel  string
	flagDBPath    string
	flagNoJournal bool

	// Root command flags
	flagFrames   int
	flagSnapshot string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "megatiny",
	Short: "Mega Tiny - a tiny 2D game engine and its demo",
	Long: `Mega Tiny runs a small demo game: a square you walk around with the
arrow keys. The same engine loop drives a native SDL window, a terminal,
or a headless test backend.

Available commands:
  keys      - Show the effective key bindings
  backends  - List available backends
  sessions  - Show recent runs from the journal
  serve     - Start SSH server for remote play

Examples:
  megatiny
  megatiny --backend tcell
  megatiny --backend headless --frames 120 --snapshot frame.png
  megatiny serve`,
	Args: cobra.NoArgs,
	Run:  runGame,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Backend to run on (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to journal database (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&flagNoJournal, "no-journal", false, "Do not record runs in the journal")

	rootCmd.Flags().IntVar(&flagFrames, "frames", 0, "Quit after this many frames (headless backend)")
	rootCmd.Flags().StringVar(&flagSnapshot, "snapshot", "", "Write the last frame as PNG (software backends)")

	// Add subcommands
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(serveCmd)
}
