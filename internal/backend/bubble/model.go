package bubble

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/megatiny/internal/engine"
)

// frameMsg carries a rendered frame from the engine loop to the program.
type frameMsg string

// model is the Bubble Tea side of the backend. It forwards input to the
// engine and shows whatever frame was presented last.
type model struct {
	backend *Backend
	title   string
	frame   string
}

func (m model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.title)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if ev, ok := translateKey(msg); ok {
			m.backend.queue.Push(ev)
		}
	case tea.WindowSizeMsg:
		m.backend.setSize(msg.Width, msg.Height)
	case frameMsg:
		m.frame = string(msg)
	}
	return m, nil
}

func (m model) View() string {
	return m.frame
}

// translateKey converts a terminal key press into an engine event.
// Esc and Ctrl+C quit; keys without an engine code are dropped.
func translateKey(msg tea.KeyMsg) (engine.Event, bool) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return engine.QuitEvent(), true
	case tea.KeyLeft:
		return engine.KeyDownEvent(engine.KeyCodeLeft, false), true
	case tea.KeyRight:
		return engine.KeyDownEvent(engine.KeyCodeRight, false), true
	case tea.KeyUp:
		return engine.KeyDownEvent(engine.KeyCodeUp, false), true
	case tea.KeyDown:
		return engine.KeyDownEvent(engine.KeyCodeDown, false), true
	case tea.KeySpace:
		return engine.KeyDownEvent(engine.KeyCodeSpace, false), true
	case tea.KeyEnter:
		return engine.KeyDownEvent(engine.KeyCodeReturn, false), true
	case tea.KeyTab:
		return engine.KeyDownEvent(engine.KeyCodeTab, false), true
	case tea.KeyBackspace:
		return engine.KeyDownEvent(engine.KeyCodeBackspace, false), true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 || msg.Alt {
			return engine.Event{}, false
		}
		r := unicode.ToLower(msg.Runes[0])
		if r > unicode.MaxASCII || !unicode.IsPrint(r) {
			return engine.Event{}, false
		}
		return engine.KeyDownEvent(engine.KeyCode(r), false), true
	}
	return engine.Event{}, false
}
