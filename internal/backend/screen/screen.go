// Package screen implements the engine backend on a tcell screen.
package screen

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/megatiny/internal/backend"
	"github.com/vovakirdan/megatiny/internal/backend/keyhold"
	"github.com/vovakirdan/megatiny/internal/backend/raster"
	"github.com/vovakirdan/megatiny/internal/engine"
)

func init() {
	backend.Register("tcell", "Terminal rendering through tcell with true-colour half blocks",
		func(opts backend.Options) (engine.Backend, error) {
			return New(opts), nil
		})
}

// Backend is an engine.Backend on a tcell screen.
type Backend struct {
	logger     *log.Logger
	fps        int
	keyRelease time.Duration
	newScreen  func() (tcell.Screen, error)

	mu       sync.Mutex
	screen   tcell.Screen
	pumped   chan struct{}
	renderer *raster.Renderer

	queue *keyhold.Queue
	pacer *raster.Pacer
	start time.Time
}

// Option configures a Backend.
type Option func(*Backend)

// WithScreen makes the backend draw on s instead of the process terminal.
func WithScreen(s tcell.Screen) Option {
	return func(b *Backend) {
		b.newScreen = func() (tcell.Screen, error) { return s, nil }
	}
}

// New creates a tcell backend.
func New(opts backend.Options, options ...Option) *Backend {
	b := &Backend{
		logger:     opts.Logger,
		fps:        opts.FPS,
		keyRelease: opts.KeyRelease,
		newScreen:  tcell.NewScreen,
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	if b.fps <= 0 {
		b.fps = 30
	}
	if b.keyRelease <= 0 {
		b.keyRelease = keyhold.DefaultRelease
	}
	for _, o := range options {
		o(b)
	}
	return b
}

func (b *Backend) Init() error {
	b.queue = keyhold.NewQueue(b.keyRelease, 256)
	b.pacer = raster.NewPacer(b.fps)
	b.start = time.Now()
	return nil
}

// CreateWindow takes over the terminal and starts reading its events.
func (b *Backend) CreateWindow(title string, width, height int, flags engine.WindowFlags) (engine.Window, error) {
	if b.queue == nil {
		return nil, errors.New("screen: backend not initialized")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.screen != nil {
		return nil, errors.New("screen: window already open")
	}

	s, err := b.newScreen()
	if err != nil {
		return nil, fmt.Errorf("screen: create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("screen: init screen: %w", err)
	}
	s.HideCursor()
	s.EnableMouse()
	s.Clear()

	b.screen = s
	b.pumped = make(chan struct{})
	go b.pump(s, b.pumped)

	cols, rows := s.Size()
	b.logger.Debug("terminal window opened", "title", title, "pixels", fmt.Sprintf("%dx%d", width, height),
		"cols", cols, "rows", rows)
	return &window{backend: b}, nil
}

// pump forwards screen events to the queue until the screen is finalized.
func (b *Backend) pump(s tcell.Screen, done chan struct{}) {
	defer close(done)

	var buttons tcell.ButtonMask
	for {
		ev := s.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			if out, ok := translateKey(ev); ok {
				b.queue.Push(out)
			}
		case *tcell.EventMouse:
			var out engine.Event
			out, buttons = translateMouse(ev, buttons)
			b.queue.Push(out)
		case *tcell.EventResize:
			s.Sync()
		}
	}
}

// translateKey converts a tcell key event into an engine event.
// Esc and Ctrl+C quit; keys without an engine code are dropped.
func translateKey(ev *tcell.EventKey) (engine.Event, bool) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return engine.QuitEvent(), true
	case tcell.KeyLeft:
		return engine.KeyDownEvent(engine.KeyCodeLeft, false), true
	case tcell.KeyRight:
		return engine.KeyDownEvent(engine.KeyCodeRight, false), true
	case tcell.KeyUp:
		return engine.KeyDownEvent(engine.KeyCodeUp, false), true
	case tcell.KeyDown:
		return engine.KeyDownEvent(engine.KeyCodeDown, false), true
	case tcell.KeyEnter:
		return engine.KeyDownEvent(engine.KeyCodeReturn, false), true
	case tcell.KeyTab:
		return engine.KeyDownEvent(engine.KeyCodeTab, false), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return engine.KeyDownEvent(engine.KeyCodeBackspace, false), true
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl) != 0 {
			return engine.Event{}, false
		}
		r := unicode.ToLower(ev.Rune())
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return engine.Event{}, false
		}
		return engine.KeyDownEvent(engine.KeyCode(r), false), true
	}
	return engine.Event{}, false
}

// translateMouse classifies a mouse event against the previously held
// buttons and returns the buttons held now. Wheel events count as motion.
func translateMouse(ev *tcell.EventMouse, prev tcell.ButtonMask) (engine.Event, tcell.ButtonMask) {
	x, y := ev.Position()
	kind := engine.EventMouseMotion
	held := ev.Buttons() & (tcell.Button1 | tcell.Button2 | tcell.Button3)
	switch {
	case held != 0 && prev == 0:
		kind = engine.EventMouseButtonDown
	case held == 0 && prev != 0:
		kind = engine.EventMouseButtonUp
	}
	return engine.Event{Kind: kind, X: x, Y: y}, held
}

// InitImageDecoder accepts PNG; frames are snapshotted with image/png.
func (b *Backend) InitImageDecoder(format engine.ImageFormat) error {
	if format != engine.ImagePNG {
		return fmt.Errorf("screen: unsupported image format %s", format)
	}
	return nil
}

func (b *Backend) CreateRenderer(win engine.Window, vsync bool) (engine.Renderer, error) {
	if _, ok := win.(*window); !ok {
		return nil, fmt.Errorf("screen: window of type %T was not created by this backend", win)
	}
	b.renderer = raster.NewRenderer(1, 1, b.present, nil)
	return b.renderer, nil
}

// Framebuffer returns the software framebuffer, or nil before CreateRenderer.
func (b *Backend) Framebuffer() *raster.Framebuffer {
	if b.renderer == nil {
		return nil
	}
	return b.renderer.Framebuffer()
}

// present draws the framebuffer as half blocks and paces the loop.
func (b *Backend) present(fb *raster.Framebuffer) {
	b.mu.Lock()
	s := b.screen
	b.mu.Unlock()
	if s == nil {
		return
	}

	cols, rows := s.Size()
	grid := fb.Cells(cols, rows)

	s.Clear()
	for y, row := range grid {
		for x, c := range row {
			s.SetContent(x, y, raster.HalfBlock, nil, cellStyle(c))
		}
	}
	s.Show()
	b.pacer.Wait()
}

func cellStyle(c raster.Cell) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.Top.R), int32(c.Top.G), int32(c.Top.B))).
		Background(tcell.NewRGBColor(int32(c.Bottom.R), int32(c.Bottom.G), int32(c.Bottom.B)))
}

func (b *Backend) PollEvent() (engine.Event, bool) {
	if b.queue == nil {
		return engine.Event{}, false
	}
	return b.queue.Poll()
}

func (b *Backend) Ticks() uint32 {
	return uint32(time.Since(b.start) / time.Millisecond)
}

func (b *Backend) Quit() {
	b.closeScreen()
	if b.queue != nil {
		b.queue.Close()
		b.queue = nil
	}
}

// closeScreen restores the terminal and waits for the event pump to stop.
func (b *Backend) closeScreen() {
	b.mu.Lock()
	s, pumped := b.screen, b.pumped
	b.screen = nil
	b.mu.Unlock()

	if s == nil {
		return
	}
	// Fini makes PollEvent return nil; unblock a pump stuck on a full queue.
	s.Fini()
	select {
	case <-pumped:
	case <-time.After(time.Second):
		b.queue.Close()
		<-pumped
	}
}

type window struct {
	backend *Backend
}

func (w *window) Destroy() {
	w.backend.closeScreen()
}

var _ engine.Backend = (*Backend)(nil)
