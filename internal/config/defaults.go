package config

import (
	_ "embed"
)

//go:embed defaults/megatiny.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultYAML...)
}

// Default returns the built-in configuration. It matches the embedded
// defaults file and is used when that file cannot be parsed.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:   "Mega Tiny Game v1.0",
			Width:   320,
			Height:  200,
			Scaling: 3,
		},
		Backend: "sdl",
		Keys: map[string][]string{
			"left":    {"left"},
			"right":   {"right"},
			"up":      {"up"},
			"down":    {"down"},
			"action1": {"z"},
			"action2": {"x"},
		},
		Terminal: TerminalConfig{
			FPS:          30,
			KeyReleaseMS: 500,
		},
		Log: LogConfig{
			Level: "info",
		},
		Journal: JournalConfig{
			Enabled: true,
			Path:    "~/.megatiny/journal.db",
		},
		SSH: SSHConfig{
			Address:            ":2323",
			IdleTimeoutMinutes: 30,
		},
	}
}
