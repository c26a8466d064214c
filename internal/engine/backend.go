package engine

// Backend is the windowing, input and timer library a Core drives.
// Implementations live under internal/backend; the engine never talks to a
// native library directly.
type Backend interface {
	// Init starts the video and timer subsystems.
	Init() error

	// CreateWindow opens a window of the given physical size, centered on screen.
	CreateWindow(title string, width, height int, flags WindowFlags) (Window, error)

	// InitImageDecoder loads the decoder for the given image format.
	InitImageDecoder(format ImageFormat) error

	// CreateRenderer creates a hardware-accelerated renderer bound to win.
	// With vsync set, Present blocks until the next display refresh.
	CreateRenderer(win Window, vsync bool) (Renderer, error)

	// PollEvent returns the next pending event without blocking.
	// The boolean is false when the queue is empty.
	PollEvent() (Event, bool)

	// Ticks returns a monotonic millisecond timestamp.
	Ticks() uint32

	// Quit shuts down every subsystem started by Init and InitImageDecoder.
	Quit()
}

// Window is a backend window handle.
type Window interface {
	Destroy()
}

// Renderer is a backend renderer handle bound to a window.
type Renderer interface {
	SetLogicalSize(width, height int) error
	SetIntegerScale(enabled bool) error
	LogicalSize() (width, height int)
	SetDrawColor(c Color) error
	Clear() error
	FillRect(r Rect) error
	Present()
	Destroy()
}

// WindowFlags controls how a window is created.
type WindowFlags uint32

const (
	WindowShown WindowFlags = 1 << iota
	WindowResizable
)

// Has reports whether all bits of f are set.
func (w WindowFlags) Has(f WindowFlags) bool {
	return w&f == f
}

// ImageFormat selects an image decoder.
type ImageFormat int

const (
	ImagePNG ImageFormat = iota
)

// String returns the format name.
func (f ImageFormat) String() string {
	switch f {
	case ImagePNG:
		return "png"
	default:
		return "unknown"
	}
}

// EventKind classifies backend events.
type EventKind int

const (
	EventOther EventKind = iota
	EventQuit
	EventKeyDown
	EventKeyUp
	EventMouseButtonDown
	EventMouseButtonUp
	EventMouseMotion
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventQuit:
		return "Quit"
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventMouseButtonDown:
		return "MouseButtonDown"
	case EventMouseButtonUp:
		return "MouseButtonUp"
	case EventMouseMotion:
		return "MouseMotion"
	default:
		return "Other"
	}
}

// Event is a single backend event.
type Event struct {
	Kind EventKind

	// Code and Repeat are set for key events. Repeat marks auto-fired
	// key-downs generated while a key is held.
	Code   KeyCode
	Repeat bool

	// X and Y are set for mouse events, in window coordinates.
	X, Y int
}

// QuitEvent returns a quit event.
func QuitEvent() Event {
	return Event{Kind: EventQuit}
}

// KeyDownEvent returns a key-down event.
func KeyDownEvent(code KeyCode, repeat bool) Event {
	return Event{Kind: EventKeyDown, Code: code, Repeat: repeat}
}

// KeyUpEvent returns a key-up event.
func KeyUpEvent(code KeyCode) Event {
	return Event{Kind: EventKeyUp, Code: code}
}

// IsMouse reports whether the event comes from a mouse.
func (e Event) IsMouse() bool {
	switch e.Kind {
	case EventMouseButtonDown, EventMouseButtonUp, EventMouseMotion:
		return true
	}
	return false
}
