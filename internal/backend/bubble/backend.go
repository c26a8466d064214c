// Package bubble implements the engine backend on a Bubble Tea program.
// The logical framebuffer is drawn with half-block characters, two pixels
// per terminal cell. The same backend serves local terminals and SSH sessions.
package bubble

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/megatiny/internal/backend"
	"github.com/vovakirdan/megatiny/internal/backend/keyhold"
	"github.com/vovakirdan/megatiny/internal/backend/raster"
	"github.com/vovakirdan/megatiny/internal/engine"
)

func init() {
	backend.Register("tea", "Terminal rendering through Bubble Tea with half-block pixels",
		func(opts backend.Options) (engine.Backend, error) {
			return New(opts), nil
		})
}

const (
	defaultCols = 80
	defaultRows = 24

	// defaultShutdownTimeout bounds how long closing the window waits for the program.
	defaultShutdownTimeout = 2 * time.Second
)

var errNotInitialized = errors.New("bubble: backend not initialized")

// Backend is an engine.Backend driving a Bubble Tea program.
type Backend struct {
	logger     *log.Logger
	fps        int
	keyRelease time.Duration
	input      io.Reader
	output     io.Writer

	programOpts []tea.ProgramOption
	style       *lipgloss.Renderer

	cols, rows atomic.Int32

	mu       sync.Mutex
	program  program
	finished chan struct{}
	quitSent bool

	shutdownTimeout time.Duration

	queue    *keyhold.Queue
	pacer    *raster.Pacer
	paint    *painter
	renderer *raster.Renderer
	start    time.Time
}

// program is the part of *tea.Program the engine side talks to.
type program interface {
	Send(msg tea.Msg)
	Quit()
	Kill()
}

// Option configures a Backend.
type Option func(*Backend)

// WithProgramOptions adds options to the Bubble Tea program, e.g. the
// input and output of an SSH session.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(b *Backend) {
		b.programOpts = append(b.programOpts, opts...)
	}
}

// WithRenderer sets the lipgloss renderer used to colour frames, so the
// colour profile matches the client terminal rather than the process.
func WithRenderer(r *lipgloss.Renderer) Option {
	return func(b *Backend) {
		b.style = r
	}
}

// WithSize sets the terminal size used until the program reports one.
func WithSize(cols, rows int) Option {
	return func(b *Backend) {
		b.setSize(cols, rows)
	}
}

// New creates a terminal backend. Nothing touches the terminal until
// CreateWindow starts the program.
func New(opts backend.Options, options ...Option) *Backend {
	b := &Backend{
		logger:     opts.Logger,
		fps:        opts.FPS,
		keyRelease: opts.KeyRelease,
		input:      opts.Input,
		output:     opts.Output,

		shutdownTimeout: defaultShutdownTimeout,
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

	b.setSize(defaultCols, defaultRows)
	if b.output == nil {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			b.setSize(w, h)
		}
	}

	for _, o := range options {
		o(b)
	}
	return b
}

func (b *Backend) setSize(cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	b.cols.Store(int32(cols))
	b.rows.Store(int32(rows))
}

// Size returns the current terminal size in cells.
func (b *Backend) Size() (cols, rows int) {
	return int(b.cols.Load()), int(b.rows.Load())
}

func (b *Backend) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.queue = keyhold.NewQueue(b.keyRelease, 256)
	b.pacer = raster.NewPacer(b.fps)
	b.start = time.Now()

	style := b.style
	if style == nil {
		out := b.output
		if out == nil {
			out = os.Stdout
		}
		style = lipgloss.NewRenderer(out)
	}
	b.paint = newPainter(style)
	return nil
}

// CreateWindow starts the Bubble Tea program on the alternate screen.
// Width and height are physical pixels and only reported in logs.
func (b *Backend) CreateWindow(title string, width, height int, flags engine.WindowFlags) (engine.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.queue == nil {
		return nil, errNotInitialized
	}
	if b.program != nil {
		return nil, errors.New("bubble: window already open")
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if b.input != nil {
		opts = append(opts, tea.WithInput(b.input))
	}
	if b.output != nil {
		opts = append(opts, tea.WithOutput(b.output))
	}
	opts = append(opts, b.programOpts...)

	p := tea.NewProgram(model{backend: b, title: title}, opts...)
	b.program = p
	b.finished = make(chan struct{})
	go b.run(p, b.finished)

	cols, rows := b.Size()
	b.logger.Debug("terminal window opened", "title", title, "pixels", fmt.Sprintf("%dx%d", width, height),
		"cols", cols, "rows", rows)
	return &window{backend: b}, nil
}

func (b *Backend) run(p *tea.Program, finished chan struct{}) {
	defer close(finished)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		b.logger.Error("terminal program stopped", "error", err)
	}
}

// InitImageDecoder accepts PNG; frames are snapshotted with image/png.
func (b *Backend) InitImageDecoder(format engine.ImageFormat) error {
	if format != engine.ImagePNG {
		return fmt.Errorf("bubble: unsupported image format %s", format)
	}
	return nil
}

func (b *Backend) CreateRenderer(win engine.Window, vsync bool) (engine.Renderer, error) {
	if _, ok := win.(*window); !ok {
		return nil, fmt.Errorf("bubble: window of type %T was not created by this backend", win)
	}
	b.renderer = raster.NewRenderer(defaultCols, defaultRows*2, b.present, nil)
	return b.renderer, nil
}

// Framebuffer returns the software framebuffer, or nil before CreateRenderer.
func (b *Backend) Framebuffer() *raster.Framebuffer {
	if b.renderer == nil {
		return nil
	}
	return b.renderer.Framebuffer()
}

// present sends the framebuffer to the program and paces the loop.
func (b *Backend) present(fb *raster.Framebuffer) {
	cols, rows := b.Size()
	frame := b.paint.Render(fb.Cells(cols, rows))

	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p != nil {
		p.Send(frameMsg(frame))
	}
	b.pacer.Wait()
}

// PollEvent returns queued input. Once the program has exited on its own
// a single Quit is reported.
func (b *Backend) PollEvent() (engine.Event, bool) {
	if b.queue == nil {
		return engine.Event{}, false
	}
	if ev, ok := b.queue.Poll(); ok {
		return ev, true
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.finished == nil || b.quitSent {
		return engine.Event{}, false
	}
	select {
	case <-b.finished:
		b.quitSent = true
		return engine.QuitEvent(), true
	default:
		return engine.Event{}, false
	}
}

func (b *Backend) Ticks() uint32 {
	return uint32(time.Since(b.start) / time.Millisecond)
}

// Resize reports a new terminal size, e.g. from an SSH window-change request.
func (b *Backend) Resize(cols, rows int) {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()

	if p != nil {
		p.Send(tea.WindowSizeMsg{Width: cols, Height: rows})
		return
	}
	b.setSize(cols, rows)
}

// Interrupt asks the program to stop; the loop then sees a Quit event.
// It is safe to call from any goroutine.
func (b *Backend) Interrupt() {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (b *Backend) Quit() {
	b.closeProgram()
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.queue != nil {
		b.queue.Close()
		b.queue = nil
	}
}

// closeProgram stops the program and waits for it to restore the terminal.
func (b *Backend) closeProgram() {
	b.mu.Lock()
	p, finished, queue := b.program, b.finished, b.queue
	b.program = nil
	b.mu.Unlock()

	if p == nil {
		return
	}
	p.Quit()
	select {
	case <-finished:
	case <-time.After(b.shutdownTimeout):
		b.logger.Warn("terminal program did not stop, killing it")
		p.Kill()
		// Update may be blocked pushing into a full queue.
		if queue != nil {
			queue.Close()
		}
		<-finished
	}
}

type window struct {
	backend *Backend
}

func (w *window) Destroy() {
	w.backend.closeProgram()
}

var _ engine.Backend = (*Backend)(nil)
