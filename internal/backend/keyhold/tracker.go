// Package keyhold reconstructs key transitions for terminals.
//
// Terminals report a key press once, then repeat it at the keyboard's
// auto-repeat rate while it is held, and never report the release. A Tracker
// turns that stream into the down / repeat / up events the engine expects:
// the first press is a key-down, presses of a held key are repeats, and a key
// that has not been seen for the release window is released.
package keyhold

import (
	"sort"
	"time"

	"github.com/vovakirdan/megatiny/internal/engine"
)

// DefaultRelease is longer than common initial auto-repeat delays, so a held
// key is not released between its first press and its first repeat.
const DefaultRelease = 500 * time.Millisecond

// Tracker tracks held keys. It is not safe for concurrent use.
type Tracker struct {
	release time.Duration
	held    map[engine.KeyCode]time.Time
}

// NewTracker creates a tracker releasing keys after the given quiet period.
// A non-positive period selects DefaultRelease.
func NewTracker(release time.Duration) *Tracker {
	if release <= 0 {
		release = DefaultRelease
	}
	return &Tracker{
		release: release,
		held:    make(map[engine.KeyCode]time.Time),
	}
}

// Press records a press of code at now and returns the event to emit.
func (t *Tracker) Press(code engine.KeyCode, now time.Time) engine.Event {
	_, repeat := t.held[code]
	t.held[code] = now
	return engine.KeyDownEvent(code, repeat)
}

// Expire releases every key not pressed within the release window before now.
// Events are ordered by key code.
func (t *Tracker) Expire(now time.Time) []engine.Event {
	var codes []engine.KeyCode
	for code, last := range t.held {
		if now.Sub(last) >= t.release {
			codes = append(codes, code)
		}
	}
	return t.releaseCodes(codes)
}

// ReleaseAll releases every held key.
func (t *Tracker) ReleaseAll() []engine.Event {
	codes := make([]engine.KeyCode, 0, len(t.held))
	for code := range t.held {
		codes = append(codes, code)
	}
	return t.releaseCodes(codes)
}

// Held reports whether code is currently held.
func (t *Tracker) Held(code engine.KeyCode) bool {
	_, ok := t.held[code]
	return ok
}

func (t *Tracker) releaseCodes(codes []engine.KeyCode) []engine.Event {
	if len(codes) == 0 {
		return nil
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	events := make([]engine.Event, 0, len(codes))
	for _, code := range codes {
		delete(t.held, code)
		events = append(events, engine.KeyUpEvent(code))
	}
	return events
}
