// Package engine is a small 2D game engine core. A Core owns one backend
// window and renderer, runs a Game through a fixed frame protocol and
// translates backend input into engine keys.
package engine

import (
	"errors"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Options describes the window a Core creates.
type Options struct {
	PixelWidth  int    // Logical width games draw in
	PixelHeight int    // Logical height games draw in
	Scaling     int    // Integer factor from logical to physical pixels
	Resizable   bool   // Whether the window can be resized by the user
	Title       string // Window title
}

func (o Options) validate() error {
	if o.PixelWidth <= 0 || o.PixelHeight <= 0 {
		return errors.New("pixel width and height must be positive")
	}
	if o.Scaling <= 0 {
		return errors.New("scaling must be positive")
	}
	return nil
}

// Option configures optional Core collaborators.
type Option func(*Core)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Core) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithKeyMapper replaces the default key bindings.
func WithKeyMapper(m *KeyMapper) Option {
	return func(c *Core) {
		if m != nil {
			c.keys = m
		}
	}
}

// noCopy may be embedded into structs which must not be copied after first
// use. go vet's copylocks check reports copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Core owns a backend window and renderer and drives games.
// A Core must not be copied; use the *Core returned by Create.
type Core struct {
	noCopy noCopy

	backend  Backend
	window   Window
	renderer Renderer
	started  bool // backend subsystems are initialized
	running  bool

	keys   *KeyMapper
	logger *log.Logger
	opts   Options
}

// RunStats summarizes a finished RunGame call.
type RunStats struct {
	Frames            int    // Completed loop iterations
	Inputs            int    // HandleInput calls
	RepeatsSuppressed int    // Auto-repeat key-downs that were not delivered
	MouseEvents       int    // Mouse events observed but not forwarded
	StartTick         uint32 // Backend tick at loop entry
	EndTick           uint32 // Backend tick of the last frame
}

// Elapsed returns the backend time spent in the loop.
func (s RunStats) Elapsed() time.Duration {
	return time.Duration(s.EndTick-s.StartTick) * time.Millisecond
}

// Create initializes the backend and opens a window of
// PixelWidth*Scaling x PixelHeight*Scaling physical pixels, addressed as
// PixelWidth x PixelHeight logical pixels with integer-only scaling.
//
// On failure Create returns nil and an *InitError naming the failed step.
// Everything acquired before the failure is released.
func Create(b Backend, opts Options, options ...Option) (*Core, error) {
	c := &Core{
		backend: b,
		keys:    DefaultKeyMapper(),
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "engine",
		}),
		opts: opts,
	}
	for _, o := range options {
		o(c)
	}

	if err := opts.validate(); err != nil {
		return nil, c.fail(StepValidate, err)
	}

	if err := b.Init(); err != nil {
		return nil, c.fail(StepSubsystems, err)
	}
	c.started = true

	flags := WindowShown
	if opts.Resizable {
		flags |= WindowResizable
	}
	win, err := b.CreateWindow(opts.Title, opts.PixelWidth*opts.Scaling, opts.PixelHeight*opts.Scaling, flags)
	if err != nil {
		return nil, c.fail(StepWindow, err)
	}
	c.window = win

	if err := b.InitImageDecoder(ImagePNG); err != nil {
		return nil, c.fail(StepImageDecoder, err)
	}

	ren, err := b.CreateRenderer(win, true)
	if err != nil {
		return nil, c.fail(StepRenderer, err)
	}
	c.renderer = ren

	if err := ren.SetLogicalSize(opts.PixelWidth, opts.PixelHeight); err != nil {
		return nil, c.fail(StepLogicalSize, err)
	}
	if err := ren.SetIntegerScale(true); err != nil {
		return nil, c.fail(StepLogicalSize, err)
	}

	c.logger.Debug("core created",
		"title", opts.Title,
		"logical", Size{Width: opts.PixelWidth, Height: opts.PixelHeight},
		"scaling", opts.Scaling,
	)
	return c, nil
}

// fail logs a construction failure and releases what was acquired so far.
func (c *Core) fail(step InitStep, err error) error {
	c.logger.Error("cannot create core", "step", string(step), "error", err)
	c.release()
	return &InitError{Step: step, Err: err}
}

// release tears down renderer, window and subsystems, in that order.
func (c *Core) release() {
	if c.renderer != nil {
		c.renderer.Destroy()
		c.renderer = nil
	}
	if c.window != nil {
		c.window.Destroy()
		c.window = nil
	}
	if c.started {
		c.backend.Quit()
		c.started = false
	}
}

// Destroy releases the renderer, the window and the backend subsystems.
// It is safe to call more than once.
func (c *Core) Destroy() {
	if c == nil || (c.renderer == nil && c.window == nil && !c.started) {
		return
	}
	if c.running {
		panic("engine: Destroy called from inside RunGame")
	}
	c.release()
	c.logger.Debug("core destroyed")
}

// Title returns the window title the Core was created with.
func (c *Core) Title() string {
	return c.opts.Title
}

// KeyMapper returns the mapper used to translate backend key codes.
func (c *Core) KeyMapper() *KeyMapper {
	return c.keys
}

// Logger returns the Core's logger so games can log alongside the engine.
func (c *Core) Logger() *log.Logger {
	return c.logger
}

// RunGame runs game until the backend reports a quit event and returns
// statistics about the run. It blocks the calling goroutine.
//
// Calling RunGame on a Core that was not created successfully, or that has
// been destroyed, is a programming error and panics.
func (c *Core) RunGame(game Game) RunStats {
	if c == nil || c.renderer == nil {
		panic("engine: RunGame called on a Core that was not created")
	}
	if c.running {
		panic("engine: RunGame called while a game is already running")
	}
	c.running = true
	defer func() { c.running = false }()

	var stats RunStats

	game.Initialize(c)

	last := c.backend.Ticks()
	current := last
	stats.StartTick = last

	quit := false
	for !quit {
		game.Draw(c)
		c.renderer.Present()

		// Unsigned subtraction keeps dt non-negative across a tick wraparound.
		current = c.backend.Ticks()
		dt := float64(current-last) / 1000

		game.Update(c, dt)
		last = current
		stats.Frames++

		quit = c.drainEvents(game, &stats)
	}
	stats.EndTick = last

	game.Destroy()

	c.logger.Debug("game finished",
		"frames", stats.Frames,
		"inputs", stats.Inputs,
		"elapsed", stats.Elapsed(),
	)
	return stats
}

// drainEvents empties the backend event queue, dispatching key transitions
// to game. It reports whether a quit event was seen.
func (c *Core) drainEvents(game Game, stats *RunStats) bool {
	quit := false
	for {
		ev, ok := c.backend.PollEvent()
		if !ok {
			return quit
		}

		switch ev.Kind {
		case EventQuit:
			quit = true
		case EventKeyDown, EventKeyUp:
			if ev.Repeat {
				stats.RepeatsSuppressed++
				continue
			}
			game.HandleInput(c.keys.Map(ev.Code), ev.Kind == EventKeyDown)
			stats.Inputs++
		case EventMouseButtonDown, EventMouseButtonUp, EventMouseMotion:
			// Mouse input is not part of the Game contract yet.
			stats.MouseEvents++
		}
	}
}

// ClearScreen fills the whole logical surface with color.
// It does nothing on a Core without a renderer.
func (c *Core) ClearScreen(color Color) {
	if c.renderer == nil {
		return
	}
	if err := c.renderer.SetDrawColor(color); err != nil {
		c.logger.Debug("set draw color failed", "error", err)
	}
	if err := c.renderer.Clear(); err != nil {
		c.logger.Debug("clear failed", "error", err)
	}
}

// DrawRect fills the rectangle at (x, y) of size w x h in logical pixels.
// Parts outside the surface are clipped by the backend.
func (c *Core) DrawRect(x, y, w, h int, color Color) {
	if c.renderer == nil {
		return
	}
	if err := c.renderer.SetDrawColor(color); err != nil {
		c.logger.Debug("set draw color failed", "error", err)
	}
	if err := c.renderer.FillRect(NewRect(x, y, w, h)); err != nil {
		c.logger.Debug("fill rect failed", "error", err)
	}
}

// WindowSize returns the logical size of the drawing surface, or a zero
// Size when the Core has no renderer.
func (c *Core) WindowSize() Size {
	if c == nil || c.renderer == nil {
		return Size{}
	}
	w, h := c.renderer.LogicalSize()
	return Size{Width: w, Height: h}
}
