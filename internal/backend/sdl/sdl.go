// Package sdl implements the engine backend on SDL2 through go-sdl2.
// It needs cgo and the SDL2 and SDL2_image development libraries.
package sdl

import (
	"fmt"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vovakirdan/megatiny/internal/backend"
	"github.com/vovakirdan/megatiny/internal/engine"
)

func init() {
	// SDL must be driven from the thread that initialized it.
	runtime.LockOSThread()

	backend.Register("sdl", "Native window with an accelerated, vsync'd SDL2 renderer",
		func(opts backend.Options) (engine.Backend, error) {
			return New(opts.Logger), nil
		})
}

// Backend is an engine.Backend on SDL2.
type Backend struct {
	logger  *log.Logger
	decoder bool
}

// New creates an SDL backend. Nothing is initialized until Init.
func New(logger *log.Logger) *Backend {
	return &Backend{logger: logger}
}

func (b *Backend) Init() error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_TIMER); err != nil {
		return fmt.Errorf("sdl: init: %w", err)
	}
	return nil
}

func (b *Backend) CreateWindow(title string, width, height int, flags engine.WindowFlags) (engine.Window, error) {
	var sdlFlags uint32
	if flags.Has(engine.WindowShown) {
		sdlFlags |= uint32(sdl.WINDOW_SHOWN)
	}
	if flags.Has(engine.WindowResizable) {
		sdlFlags |= uint32(sdl.WINDOW_RESIZABLE)
	}

	win, err := sdl.CreateWindow(title,
		int32(sdl.WINDOWPOS_CENTERED),
		int32(sdl.WINDOWPOS_CENTERED),
		int32(width), int32(height), sdlFlags)
	if err != nil {
		return nil, fmt.Errorf("sdl: create window: %w", err)
	}
	return &window{win: win, logger: b.logger}, nil
}

func (b *Backend) InitImageDecoder(format engine.ImageFormat) error {
	if format != engine.ImagePNG {
		return fmt.Errorf("sdl: unsupported image format %s", format)
	}
	if err := img.Init(img.INIT_PNG); err != nil {
		return fmt.Errorf("sdl: init png decoder: %w", err)
	}
	b.decoder = true
	return nil
}

func (b *Backend) CreateRenderer(win engine.Window, vsync bool) (engine.Renderer, error) {
	w, ok := win.(*window)
	if !ok {
		return nil, fmt.Errorf("sdl: window of type %T was not created by this backend", win)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if vsync {
		flags |= uint32(sdl.RENDERER_PRESENTVSYNC)
	}
	ren, err := sdl.CreateRenderer(w.win, -1, flags)
	if err != nil {
		return nil, fmt.Errorf("sdl: create renderer: %w", err)
	}
	return &renderer{ren: ren, logger: b.logger}, nil
}

func (b *Backend) PollEvent() (engine.Event, bool) {
	ev := sdl.PollEvent()
	if ev == nil {
		return engine.Event{}, false
	}
	return translate(ev), true
}

// translate converts an SDL event into an engine event.
func translate(ev sdl.Event) engine.Event {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return engine.QuitEvent()
	case *sdl.KeyboardEvent:
		kind := engine.EventKeyUp
		if e.Type == sdl.KEYDOWN {
			kind = engine.EventKeyDown
		}
		return engine.Event{
			Kind:   kind,
			Code:   engine.KeyCode(e.Keysym.Sym),
			Repeat: e.Repeat != 0,
		}
	case *sdl.MouseButtonEvent:
		kind := engine.EventMouseButtonUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			kind = engine.EventMouseButtonDown
		}
		return engine.Event{Kind: kind, X: int(e.X), Y: int(e.Y)}
	case *sdl.MouseMotionEvent:
		return engine.Event{Kind: engine.EventMouseMotion, X: int(e.X), Y: int(e.Y)}
	default:
		return engine.Event{Kind: engine.EventOther}
	}
}

func (b *Backend) Ticks() uint32 {
	return sdl.GetTicks()
}

func (b *Backend) Quit() {
	if b.decoder {
		img.Quit()
		b.decoder = false
	}
	sdl.Quit()
}

type window struct {
	win    *sdl.Window
	logger *log.Logger
}

func (w *window) Destroy() {
	if err := w.win.Destroy(); err != nil {
		w.logger.Warn("destroy window", "error", err)
	}
}

type renderer struct {
	ren    *sdl.Renderer
	logger *log.Logger
}

func (r *renderer) SetLogicalSize(width, height int) error {
	return r.ren.SetLogicalSize(int32(width), int32(height))
}

func (r *renderer) SetIntegerScale(enabled bool) error {
	return r.ren.SetIntegerScale(enabled)
}

func (r *renderer) LogicalSize() (int, int) {
	w, h := r.ren.GetLogicalSize()
	return int(w), int(h)
}

func (r *renderer) SetDrawColor(c engine.Color) error {
	return r.ren.SetDrawColor(c.R, c.G, c.B, c.A)
}

func (r *renderer) Clear() error {
	return r.ren.Clear()
}

func (r *renderer) FillRect(rect engine.Rect) error {
	return r.ren.FillRect(&sdl.Rect{
		X: int32(rect.X),
		Y: int32(rect.Y),
		W: int32(rect.W),
		H: int32(rect.H),
	})
}

func (r *renderer) Present() {
	r.ren.Present()
}

func (r *renderer) Destroy() {
	if err := r.ren.Destroy(); err != nil {
		r.logger.Warn("destroy renderer", "error", err)
	}
}

var _ engine.Backend = (*Backend)(nil)
