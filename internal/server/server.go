// Package server runs the demo game over SSH. Every session gets its own
// engine Core on the Bubble Tea backend, drawing into the client's terminal.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/megatiny/internal/backend"
	"github.com/vovakirdan/megatiny/internal/backend/bubble"
	"github.com/vovakirdan/megatiny/internal/demo"
	"github.com/vovakirdan/megatiny/internal/engine"
	"github.com/vovakirdan/megatiny/internal/storage"
)

// BackendName is the journal name of runs served over SSH.
const BackendName = "ssh"

// Config holds configuration for the SSH server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":2323").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.megatiny/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Window is the Core every session creates.
	Window engine.Options

	// Keys replaces the default key bindings when set.
	Keys *engine.KeyMapper

	// FPS and KeyRelease tune the terminal backend.
	FPS        int
	KeyRelease time.Duration
}

// Journal records finished sessions.
type Journal interface {
	SaveSession(storage.Session) (string, error)
}

// Server wraps a Wish SSH server.
type Server struct {
	config  Config
	server  *ssh.Server
	journal Journal
	logger  *log.Logger
}

// New creates an SSH server. journal may be nil to skip recording runs.
func New(cfg Config, journal Journal, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "megatiny-ssh",
		})
	}

	srv := &Server{
		config:  cfg,
		journal: journal,
		logger:  logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("server: cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".megatiny", "host_key")
	}

	hostKeyDir := filepath.Dir(hostKeyPath)
	if err := os.MkdirAll(hostKeyDir, 0o700); err != nil {
		return nil, fmt.Errorf("server: cannot create host key directory: %w", err)
	}

	// Middlewares run last to first: logging wraps the terminal check,
	// which wraps the game.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			srv.gameMiddleware,
			activeterm.Middleware(),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("server: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// gameMiddleware plays one demo game in the session's terminal.
func (s *Server) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		if err := s.play(sess); err != nil {
			wish.Errorln(sess, err)
		}
		next(sess)
	}
}

func (s *Server) play(sess ssh.Session) error {
	pty, windowChanges, _ := sess.Pty()
	logger := s.logger.With("user", sess.User())

	b := bubble.New(
		backend.Options{
			Logger:     logger,
			FPS:        s.config.FPS,
			KeyRelease: s.config.KeyRelease,
		},
		bubble.WithSize(pty.Window.Width, pty.Window.Height),
		bubble.WithRenderer(bubbletea.MakeRenderer(sess)),
		bubble.WithProgramOptions(bubbletea.MakeOptions(sess)...),
	)

	core, err := engine.Create(b, s.config.Window,
		engine.WithLogger(logger),
		engine.WithKeyMapper(s.config.Keys),
	)
	if err != nil {
		return err
	}
	defer core.Destroy()

	ctx, cancel := context.WithCancel(sess.Context())
	defer cancel()
	go func() {
		for {
			select {
			case w, ok := <-windowChanges:
				if !ok {
					return
				}
				b.Resize(w.Width, w.Height)
			case <-ctx.Done():
				// The client went away; stop the program so RunGame sees a quit.
				b.Interrupt()
				return
			}
		}
	}()

	started := time.Now()
	stats := core.RunGame(demo.New())
	s.record(sess, stats, started)
	return nil
}

func (s *Server) record(sess ssh.Session, stats engine.RunStats, started time.Time) {
	if s.journal == nil {
		return
	}
	remote := sess.User() + "@" + sess.RemoteAddr().String()
	session := storage.SessionFromRun(s.config.Window.Title, BackendName, remote, stats, started)
	if _, err := s.journal.SaveSession(session); err != nil {
		s.logger.Warn("could not record session", "user", sess.User(), "error", err)
	}
}

// loggingMiddleware logs SSH session events.
func (s *Server) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Serve accepts connections on l until it is closed.
func (s *Server) Serve(l net.Listener) error {
	err := s.server.Serve(l)
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}
