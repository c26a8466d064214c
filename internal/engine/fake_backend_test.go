package engine

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

// fakeBackend records every backend call and can fail at a chosen step.
// Each frame's events are delivered by the PollEvent drain following the
// Present of that frame.
type fakeBackend struct {
	calls  []string
	failAt InitStep

	frames [][]Event // events delivered after the i-th Present
	ticks  []uint32  // values returned by successive Ticks calls
	tick   int

	presents int
	pending  []Event

	renderer *fakeRenderer
}

var errBackend = errors.New("backend failure")

func (b *fakeBackend) record(call string) {
	b.calls = append(b.calls, call)
}

func (b *fakeBackend) Init() error {
	b.record("init")
	if b.failAt == StepSubsystems {
		return errBackend
	}
	return nil
}

func (b *fakeBackend) CreateWindow(title string, width, height int, flags WindowFlags) (Window, error) {
	b.record("create window")
	if b.failAt == StepWindow {
		return nil, errBackend
	}
	return &fakeWindow{backend: b, title: title, width: width, height: height, flags: flags}, nil
}

func (b *fakeBackend) InitImageDecoder(format ImageFormat) error {
	b.record("init image decoder " + format.String())
	if b.failAt == StepImageDecoder {
		return errBackend
	}
	return nil
}

func (b *fakeBackend) CreateRenderer(win Window, vsync bool) (Renderer, error) {
	b.record("create renderer")
	if b.failAt == StepRenderer {
		return nil, errBackend
	}
	b.renderer = &fakeRenderer{backend: b, vsync: vsync}
	return b.renderer, nil
}

func (b *fakeBackend) PollEvent() (Event, bool) {
	if len(b.pending) == 0 {
		return Event{}, false
	}
	ev := b.pending[0]
	b.pending = b.pending[1:]
	return ev, true
}

func (b *fakeBackend) Ticks() uint32 {
	if len(b.ticks) == 0 {
		return 0
	}
	if b.tick >= len(b.ticks) {
		return b.ticks[len(b.ticks)-1]
	}
	t := b.ticks[b.tick]
	b.tick++
	return t
}

func (b *fakeBackend) Quit() {
	b.record("quit")
}

// present queues the events scripted for the frame that was just shown.
// Frames past the end of the script quit, so a broken loop cannot spin forever.
func (b *fakeBackend) present() {
	if b.presents < len(b.frames) {
		b.pending = append(b.pending, b.frames[b.presents]...)
	} else {
		b.pending = append(b.pending, QuitEvent())
	}
	b.presents++
}

type fakeWindow struct {
	backend       *fakeBackend
	title         string
	width, height int
	flags         WindowFlags
}

func (w *fakeWindow) Destroy() {
	w.backend.record("destroy window")
}

type fakeRenderer struct {
	backend       *fakeBackend
	vsync         bool
	width, height int
	integerScale  bool
	color         Color
	fills         []Rect
	clears        int
}

func (r *fakeRenderer) SetLogicalSize(width, height int) error {
	if r.backend.failAt == StepLogicalSize {
		return errBackend
	}
	r.width, r.height = width, height
	return nil
}

func (r *fakeRenderer) SetIntegerScale(enabled bool) error {
	r.integerScale = enabled
	return nil
}

func (r *fakeRenderer) LogicalSize() (int, int) {
	return r.width, r.height
}

func (r *fakeRenderer) SetDrawColor(c Color) error {
	r.color = c
	return nil
}

func (r *fakeRenderer) Clear() error {
	r.clears++
	return nil
}

func (r *fakeRenderer) FillRect(rect Rect) error {
	r.fills = append(r.fills, rect)
	return nil
}

func (r *fakeRenderer) Present() {
	r.backend.record("present")
	r.backend.present()
}

func (r *fakeRenderer) Destroy() {
	r.backend.record("destroy renderer")
}

// recordingGame logs every callback it receives.
type recordingGame struct {
	calls []string
	dts   []float64
	keys  []keyCall

	onInitialize func(c *Core)
}

type keyCall struct {
	key     Key
	pressed bool
}

func (g *recordingGame) Initialize(c *Core) {
	g.calls = append(g.calls, "initialize")
	if g.onInitialize != nil {
		g.onInitialize(c)
	}
}

func (g *recordingGame) Update(c *Core, dt float64) {
	g.calls = append(g.calls, "update")
	g.dts = append(g.dts, dt)
}

func (g *recordingGame) Draw(c *Core) {
	g.calls = append(g.calls, "draw")
}

func (g *recordingGame) HandleInput(key Key, pressed bool) {
	g.calls = append(g.calls, "input")
	g.keys = append(g.keys, keyCall{key: key, pressed: pressed})
}

func (g *recordingGame) Destroy() {
	g.calls = append(g.calls, "destroy")
}

func (g *recordingGame) count(call string) int {
	n := 0
	for _, c := range g.calls {
		if c == call {
			n++
		}
	}
	return n
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testOptions() Options {
	return Options{PixelWidth: 320, PixelHeight: 200, Scaling: 3, Resizable: false, Title: "Test"}
}

func mustCreate(t testing.TB, b *fakeBackend) *Core {
	t.Helper()
	c, err := Create(b, testOptions(), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return c
}
