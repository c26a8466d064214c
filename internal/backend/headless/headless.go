// Package headless provides an in-memory backend with a manual clock and
// scripted input. It draws into a software framebuffer and never opens a
// window, which makes it suitable for tests and CI smoke runs.
package headless

import (
	"errors"
	"sync"

	"github.com/vovakirdan/megatiny/internal/backend"
	"github.com/vovakirdan/megatiny/internal/backend/raster"
	"github.com/vovakirdan/megatiny/internal/engine"
)

// DefaultFrameTime is how far the clock advances on each Present, in ms.
const DefaultFrameTime = 16

func init() {
	backend.Register("headless", "In-memory framebuffer with a simulated clock (no window)",
		func(opts backend.Options) (engine.Backend, error) {
			return New(WithQuitAfter(opts.Frames)), nil
		})
}

// Backend is a scripted engine.Backend.
type Backend struct {
	mu sync.Mutex

	script    [][]engine.Event
	quitAfter int
	frameTime uint32

	clock    uint32
	frames   int
	pending  []engine.Event
	started  bool
	decoders map[engine.ImageFormat]bool

	window   *Window
	renderer *raster.Renderer
}

// Option configures a headless Backend.
type Option func(*Backend)

// WithScript sets the events delivered after each presented frame: the
// events of script[i] become pending once frame i has been presented.
func WithScript(script [][]engine.Event) Option {
	return func(b *Backend) {
		b.script = script
	}
}

// WithQuitAfter queues a quit event once n frames have been presented.
// Zero disables it.
func WithQuitAfter(n int) Option {
	return func(b *Backend) {
		b.quitAfter = n
	}
}

// WithFrameTime sets how many milliseconds each Present advances the clock.
func WithFrameTime(ms uint32) Option {
	return func(b *Backend) {
		b.frameTime = ms
	}
}

// New creates a headless backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		frameTime: DefaultFrameTime,
		decoders:  make(map[engine.ImageFormat]bool),
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Window is the headless window handle.
type Window struct {
	Title     string
	Width     int
	Height    int
	Flags     engine.WindowFlags
	destroyed bool
}

func (w *Window) Destroy() {
	w.destroyed = true
}

// Destroyed reports whether the window has been destroyed.
func (w *Window) Destroyed() bool {
	return w.destroyed
}

func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.started = true
	return nil
}

func (b *Backend) CreateWindow(title string, width, height int, flags engine.WindowFlags) (engine.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		return nil, errors.New("headless: subsystems not initialized")
	}
	b.window = &Window{Title: title, Width: width, Height: height, Flags: flags}
	return b.window, nil
}

func (b *Backend) InitImageDecoder(format engine.ImageFormat) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.decoders[format] = true
	return nil
}

func (b *Backend) CreateRenderer(win engine.Window, vsync bool) (engine.Renderer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if win == nil || win != engine.Window(b.window) {
		return nil, errors.New("headless: renderer needs the backend's window")
	}
	b.renderer = raster.NewRenderer(b.window.Width, b.window.Height, b.present, nil)
	return b.renderer, nil
}

// present advances the clock and schedules the frame's scripted events.
func (b *Backend) present(*raster.Framebuffer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clock += b.frameTime
	if b.frames < len(b.script) {
		b.pending = append(b.pending, b.script[b.frames]...)
	}
	b.frames++
	if b.quitAfter > 0 && b.frames == b.quitAfter {
		b.pending = append(b.pending, engine.QuitEvent())
	}
}

func (b *Backend) PollEvent() (engine.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) == 0 {
		return engine.Event{}, false
	}
	ev := b.pending[0]
	b.pending = b.pending[1:]
	return ev, true
}

func (b *Backend) Ticks() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.clock
}

func (b *Backend) Quit() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.started = false
	b.decoders = make(map[engine.ImageFormat]bool)
}

// Push queues events for the next PollEvent drain.
func (b *Backend) Push(events ...engine.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending = append(b.pending, events...)
}

// Advance moves the clock forward by ms milliseconds.
func (b *Backend) Advance(ms uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clock += ms
}

// Frames returns how many frames have been presented.
func (b *Backend) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.frames
}

// Started reports whether the subsystems are initialized.
func (b *Backend) Started() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.started
}

// DecoderReady reports whether the decoder for format was initialized.
func (b *Backend) DecoderReady(format engine.ImageFormat) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.decoders[format]
}

// Window returns the created window, or nil.
func (b *Backend) Window() *Window {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.window
}

// Framebuffer returns the renderer's framebuffer, or nil before a renderer exists.
func (b *Backend) Framebuffer() *raster.Framebuffer {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.renderer == nil {
		return nil
	}
	return b.renderer.Framebuffer()
}

var _ engine.Backend = (*Backend)(nil)
