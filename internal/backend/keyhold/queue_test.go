package keyhold

import (
	"reflect"
	"testing"
	"time"

	"github.com/vovakirdan/megatiny/internal/engine"
)

func drain(q *Queue) []engine.Event {
	var out []engine.Event
	for {
		ev, ok := q.Poll()
		if !ok {
			return out
		}
		out = append(out, ev)
	}
}

func TestQueueClassifiesPresses(t *testing.T) {
	now := at(0)
	q := NewQueue(500*time.Millisecond, 16)
	q.SetClock(func() time.Time { return now })

	q.Push(engine.KeyDownEvent(engine.KeyCodeLeft, false))
	q.Push(engine.KeyDownEvent(engine.KeyCodeLeft, false))
	q.Push(engine.KeyDownEvent(engine.KeyCodeLeft, false))

	expected := []engine.Event{
		engine.KeyDownEvent(engine.KeyCodeLeft, false),
		engine.KeyDownEvent(engine.KeyCodeLeft, true),
		engine.KeyDownEvent(engine.KeyCodeLeft, true),
	}
	if got := drain(q); !reflect.DeepEqual(got, expected) {
		t.Errorf("events = %v, expected %v", got, expected)
	}

	now = at(600)
	expected = []engine.Event{engine.KeyUpEvent(engine.KeyCodeLeft)}
	if got := drain(q); !reflect.DeepEqual(got, expected) {
		t.Errorf("events after release window = %v, expected %v", got, expected)
	}
}

func TestQueueQuitReleasesHeldKeys(t *testing.T) {
	q := NewQueue(time.Hour, 16)
	q.SetClock(func() time.Time { return epoch })

	q.Push(engine.KeyDownEvent('z', false))
	q.Push(engine.QuitEvent())

	expected := []engine.Event{
		engine.KeyDownEvent('z', false),
		engine.KeyUpEvent('z'),
		engine.QuitEvent(),
	}
	if got := drain(q); !reflect.DeepEqual(got, expected) {
		t.Errorf("events = %v, expected %v", got, expected)
	}
}

func TestQueuePassesOtherEvents(t *testing.T) {
	q := NewQueue(time.Hour, 4)
	q.Push(engine.Event{Kind: engine.EventMouseMotion, X: 3, Y: 4})

	got := drain(q)
	if len(got) != 1 || got[0].Kind != engine.EventMouseMotion || got[0].X != 3 {
		t.Errorf("events = %v, expected one mouse motion", got)
	}
}

func TestQueueCloseUnblocksPush(t *testing.T) {
	q := NewQueue(time.Hour, 1)
	if !q.Push(engine.QuitEvent()) {
		t.Fatal("first Push should succeed")
	}

	done := make(chan bool)
	go func() { done <- q.Push(engine.QuitEvent()) }()

	q.Close()
	q.Close() // idempotent

	select {
	case ok := <-done:
		if ok {
			t.Error("Push on a full, closed queue should report false")
		}
	case <-time.After(time.Second):
		t.Fatal("Push did not unblock after Close")
	}
}
