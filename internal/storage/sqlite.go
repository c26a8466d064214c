// Package storage provides the SQLite run journal.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/megatiny/internal/engine"
)

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db *sql.DB
}

// Session is one finished RunGame call.
type Session struct {
	ID                string // UUID, assigned by SaveSession when empty
	Title             string
	Backend           string
	Remote            string // SSH user@address, empty for local runs
	Frames            int
	Inputs            int
	RepeatsSuppressed int
	MouseEvents       int
	Duration          time.Duration
	StartedAt         time.Time
	CreatedAt         time.Time
}

// FPS returns the average frame rate of the session.
func (s Session) FPS() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Duration.Seconds()
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			backend TEXT NOT NULL,
			remote TEXT NOT NULL DEFAULT '',
			frames INTEGER NOT NULL DEFAULT 0,
			inputs INTEGER NOT NULL DEFAULT 0,
			repeats_suppressed INTEGER NOT NULL DEFAULT 0,
			mouse_events INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			started_at INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_backend ON sessions(backend);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession records a finished run and returns its ID.
// A zero StartedAt is recorded as the current time.
func (s *Store) SaveSession(session Session) (string, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO sessions
		 (id, title, backend, remote, frames, inputs, repeats_suppressed, mouse_events, duration_ms, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.Title,
		session.Backend,
		session.Remote,
		session.Frames,
		session.Inputs,
		session.RepeatsSuppressed,
		session.MouseEvents,
		session.Duration.Milliseconds(),
		session.StartedAt.UnixMilli(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save session: %w", err)
	}
	return session.ID, nil
}

const sessionColumns = `id, title, backend, remote, frames, inputs, repeats_suppressed,
		        mouse_events, duration_ms, started_at, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var (
		session    Session
		durationMS int64
		startedAt  int64
		createdAt  any
	)
	err := row.Scan(
		&session.ID,
		&session.Title,
		&session.Backend,
		&session.Remote,
		&session.Frames,
		&session.Inputs,
		&session.RepeatsSuppressed,
		&session.MouseEvents,
		&durationMS,
		&startedAt,
		&createdAt,
	)
	if err != nil {
		return Session{}, err
	}
	session.Duration = time.Duration(durationMS) * time.Millisecond
	session.StartedAt = time.UnixMilli(startedAt)
	session.CreatedAt = parseTime(createdAt)
	return session, nil
}

// parseTime handles both time.Time and string DATETIME values.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// SessionByID retrieves a session by its ID. It returns nil if none exists.
func (s *Store) SessionByID(id string) (*Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return &session, nil
}

// RecentSessions retrieves the most recently started sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+sessionColumns+`
		 FROM sessions
		 ORDER BY started_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return sessions, nil
}

// ClearSessions deletes every recorded session.
func (s *Store) ClearSessions() error {
	if _, err := s.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// BackendStats contains aggregated statistics for one backend.
type BackendStats struct {
	Backend     string
	Runs        int
	TotalFrames int64
	TotalInputs int64
	TotalTime   time.Duration
	LastRun     time.Time
}

// AvgFPS returns the frame rate averaged over every run of the backend.
func (b BackendStats) AvgFPS() float64 {
	if b.TotalTime <= 0 {
		return 0
	}
	return float64(b.TotalFrames) / b.TotalTime.Seconds()
}

// Stats retrieves aggregated statistics per backend, ordered by backend name.
func (s *Store) Stats() ([]BackendStats, error) {
	rows, err := s.db.Query(
		`SELECT backend, COUNT(*), SUM(frames), SUM(inputs), SUM(duration_ms), MAX(started_at)
		 FROM sessions
		 GROUP BY backend
		 ORDER BY backend`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}
	defer rows.Close()

	var stats []BackendStats
	for rows.Next() {
		var (
			b          BackendStats
			durationMS int64
			lastRun    int64
		)
		if err := rows.Scan(&b.Backend, &b.Runs, &b.TotalFrames, &b.TotalInputs, &durationMS, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		b.TotalTime = time.Duration(durationMS) * time.Millisecond
		b.LastRun = time.UnixMilli(lastRun)
		stats = append(stats, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// SessionFromRun builds a journal entry from the statistics RunGame returned.
func SessionFromRun(title, backend, remote string, stats engine.RunStats, startedAt time.Time) Session {
	return Session{
		Title:             title,
		Backend:           backend,
		Remote:            remote,
		Frames:            stats.Frames,
		Inputs:            stats.Inputs,
		RepeatsSuppressed: stats.RepeatsSuppressed,
		MouseEvents:       stats.MouseEvents,
		Duration:          stats.Elapsed(),
		StartedAt:         startedAt,
	}
}
