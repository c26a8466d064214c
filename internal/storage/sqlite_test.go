package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/megatiny/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsSessions(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id, err := store.SaveSession(Session{Title: "Test", Backend: "headless", Frames: 3})
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("Open() second time failed: %v", err)
	}
	defer store.Close()

	got, err := store.SessionByID(id)
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got == nil || got.Frames != 3 {
		t.Errorf("SessionByID() = %+v, expected the saved session", got)
	}
}

func TestSaveSessionRoundTrip(t *testing.T) {
	store := openTestStore(t)

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := Session{
		Title:             "Mega Tiny Game v1.0",
		Backend:           "tea",
		Remote:            "alice@127.0.0.1:50000",
		Frames:            120,
		Inputs:            14,
		RepeatsSuppressed: 5,
		MouseEvents:       2,
		Duration:          4 * time.Second,
		StartedAt:         started,
	}

	id, err := store.SaveSession(in)
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SaveSession() id %q is not a UUID: %v", id, err)
	}

	got, err := store.SessionByID(id)
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("SessionByID() returned nil")
	}

	if got.Title != in.Title || got.Backend != in.Backend || got.Remote != in.Remote {
		t.Errorf("SessionByID() = %+v, expected %+v", got, in)
	}
	if got.Frames != 120 || got.Inputs != 14 || got.RepeatsSuppressed != 5 || got.MouseEvents != 2 {
		t.Errorf("counters = %d/%d/%d/%d, expected 120/14/5/2",
			got.Frames, got.Inputs, got.RepeatsSuppressed, got.MouseEvents)
	}
	if got.Duration != 4*time.Second {
		t.Errorf("Duration = %v, expected 4s", got.Duration)
	}
	if !got.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, expected %v", got.StartedAt, started)
	}
	if got.FPS() != 30 {
		t.Errorf("FPS() = %v, expected 30", got.FPS())
	}
}

func TestSaveSessionKeepsGivenID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveSession(Session{ID: "fixed-id", Title: "T", Backend: "headless"})
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("SaveSession() = %q, expected fixed-id", id)
	}

	if _, err := store.SaveSession(Session{ID: "fixed-id", Title: "T", Backend: "headless"}); err == nil {
		t.Error("SaveSession() with a duplicate id should fail")
	}
}

func TestSessionByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.SessionByID("nope")
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("SessionByID() = %+v, expected nil", got)
	}
}

func TestRecentSessionsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := store.SaveSession(Session{
			Title:     "T",
			Backend:   "headless",
			Frames:    i,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	sessions, err := store.RecentSessions(3)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("RecentSessions(3) returned %d sessions", len(sessions))
	}
	for i, expected := range []int{4, 3, 2} {
		if sessions[i].Frames != expected {
			t.Errorf("sessions[%d].Frames = %d, expected %d", i, sessions[i].Frames, expected)
		}
	}

	all, err := store.RecentSessions(0)
	if err != nil {
		t.Fatalf("RecentSessions(0) failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("RecentSessions(0) returned %d sessions, expected all 5", len(all))
	}
}

func TestStats(t *testing.T) {
	store := openTestStore(t)

	runs := []Session{
		{Title: "T", Backend: "sdl", Frames: 600, Inputs: 10, Duration: 10 * time.Second},
		{Title: "T", Backend: "sdl", Frames: 600, Inputs: 20, Duration: 10 * time.Second},
		{Title: "T", Backend: "tea", Frames: 90, Inputs: 3, Duration: 3 * time.Second},
	}
	for _, r := range runs {
		if _, err := store.SaveSession(r); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Stats() returned %d rows, expected 2", len(stats))
	}

	sdl := stats[0]
	if sdl.Backend != "sdl" || sdl.Runs != 2 || sdl.TotalFrames != 1200 || sdl.TotalInputs != 30 {
		t.Errorf("sdl stats = %+v", sdl)
	}
	if sdl.AvgFPS() != 60 {
		t.Errorf("sdl AvgFPS() = %v, expected 60", sdl.AvgFPS())
	}
	if stats[1].Backend != "tea" || stats[1].AvgFPS() != 30 {
		t.Errorf("tea stats = %+v", stats[1])
	}
}

func TestClearSessions(t *testing.T) {
	store := openTestStore(t)

	store.SaveSession(Session{Title: "T", Backend: "headless"})
	store.SaveSession(Session{Title: "T", Backend: "headless"})

	if err := store.ClearSessions(); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}
	sessions, _ := store.RecentSessions(10)
	if len(sessions) != 0 {
		t.Errorf("Expected 0 sessions after clear, got %d", len(sessions))
	}
}

func TestSessionFromRun(t *testing.T) {
	stats := engine.RunStats{
		Frames:            3,
		Inputs:            2,
		RepeatsSuppressed: 1,
		MouseEvents:       4,
		StartTick:         1000,
		EndTick:           1050,
	}
	started := time.Now()

	s := SessionFromRun("Title", "headless", "", stats, started)

	if s.Frames != 3 || s.Inputs != 2 || s.RepeatsSuppressed != 1 || s.MouseEvents != 4 {
		t.Errorf("SessionFromRun() counters = %+v", s)
	}
	if s.Duration != 50*time.Millisecond {
		t.Errorf("Duration = %v, expected 50ms", s.Duration)
	}
	if !s.StartedAt.Equal(started) || s.Title != "Title" || s.Backend != "headless" {
		t.Errorf("SessionFromRun() = %+v", s)
	}
}
