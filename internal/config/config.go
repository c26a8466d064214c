// Package config provides YAML configuration loading for megatiny.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Config is the complete megatiny configuration.
type Config struct {
	Window   WindowConfig        `yaml:"window"`
	Backend  string              `yaml:"backend"`
	Keys     map[string][]string `yaml:"keys"`
	Terminal TerminalConfig      `yaml:"terminal"`
	Log      LogConfig           `yaml:"log"`
	Journal  JournalConfig       `yaml:"journal"`
	SSH      SSHConfig           `yaml:"ssh"`
}

// WindowConfig defines the logical surface and the window around it.
type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`   // Logical pixels
	Height    int    `yaml:"height"`  // Logical pixels
	Scaling   int    `yaml:"scaling"` // Integer scale to physical pixels
	Resizable bool   `yaml:"resizable"`
}

// TerminalConfig tunes the terminal backends.
type TerminalConfig struct {
	FPS          int `yaml:"fps"`
	KeyReleaseMS int `yaml:"key_release_ms"`
}

// KeyRelease returns the hold window after which a key is considered released.
func (t TerminalConfig) KeyRelease() time.Duration {
	return time.Duration(t.KeyReleaseMS) * time.Millisecond
}

// LogConfig defines logging parameters.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// JournalConfig defines the run journal database.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SSHConfig defines the serve command's SSH listener.
type SSHConfig struct {
	Address            string `yaml:"address"`
	HostKey            string `yaml:"host_key"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// IdleTimeout returns the idle timeout as a duration.
func (s SSHConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}

// LogLevel parses the configured log level.
func (c Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: log level %q: %w", c.Log.Level, err)
	}
	return lvl, nil
}

// Validate checks that the configuration can drive a Core.
func (c Config) Validate() error {
	var errs []error

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.Scaling <= 0 {
		errs = append(errs, fmt.Errorf("window scaling %d must be positive", c.Window.Scaling))
	}
	if c.Backend == "" {
		errs = append(errs, errors.New("backend must be set"))
	}
	if c.Terminal.FPS <= 0 || c.Terminal.FPS > 240 {
		errs = append(errs, fmt.Errorf("terminal fps %d out of range 1..240", c.Terminal.FPS))
	}
	if c.Terminal.KeyReleaseMS <= 0 {
		errs = append(errs, fmt.Errorf("terminal key_release_ms %d must be positive", c.Terminal.KeyReleaseMS))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log level %q: %w", c.Log.Level, err))
	}
	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, errors.New("journal path must be set when the journal is enabled"))
	}
	if _, err := c.KeyMapper(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
