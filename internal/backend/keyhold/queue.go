package keyhold

import (
	"time"

	"github.com/vovakirdan/megatiny/internal/engine"
)

// Queue connects a terminal's input goroutine to the engine loop.
// Push is called from the input goroutine; Poll from the loop goroutine.
type Queue struct {
	raw  chan engine.Event
	done chan struct{}

	tracker *Tracker
	pending []engine.Event
	now     func() time.Time
}

// NewQueue creates a queue buffering up to size raw events.
func NewQueue(release time.Duration, size int) *Queue {
	return &Queue{
		raw:     make(chan engine.Event, size),
		done:    make(chan struct{}),
		tracker: NewTracker(release),
		now:     time.Now,
	}
}

// SetClock replaces the time source used to stamp key presses.
func (q *Queue) SetClock(now func() time.Time) {
	q.now = now
}

// Push hands a raw event to the loop. Key-downs are pushed as presses and
// classified as first press or repeat by Poll. Push blocks while the buffer
// is full and returns false once the queue is closed.
func (q *Queue) Push(ev engine.Event) bool {
	select {
	case q.raw <- ev:
		return true
	case <-q.done:
		return false
	}
}

// Close unblocks pending and future Push calls.
func (q *Queue) Close() {
	select {
	case <-q.done:
	default:
		close(q.done)
	}
}

// Poll returns the next event without blocking.
func (q *Queue) Poll() (engine.Event, bool) {
	if len(q.pending) == 0 {
		q.collect()
	}
	if len(q.pending) == 0 {
		return engine.Event{}, false
	}
	ev := q.pending[0]
	q.pending = q.pending[1:]
	return ev, true
}

// collect moves everything pushed so far into pending, then appends
// releases for keys that went quiet.
func (q *Queue) collect() {
	now := q.now()
	for {
		select {
		case ev := <-q.raw:
			switch ev.Kind {
			case engine.EventKeyDown:
				q.pending = append(q.pending, q.tracker.Press(ev.Code, now))
			case engine.EventQuit:
				q.pending = append(q.pending, q.tracker.ReleaseAll()...)
				q.pending = append(q.pending, ev)
			default:
				q.pending = append(q.pending, ev)
			}
		default:
			q.pending = append(q.pending, q.tracker.Expire(now)...)
			return
		}
	}
}
