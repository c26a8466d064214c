package engine

import (
	"fmt"
	"strings"
)

// Key is the engine-level key a game receives in HandleInput.
// Raw backend key codes are translated into a Key by a KeyMapper.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyAction1
	KeyAction2
	KeyAction3
	KeyUnknown // Every raw key code without a binding
)

// Keys lists every bindable key in declaration order.
var Keys = []Key{KeyLeft, KeyRight, KeyUp, KeyDown, KeyAction1, KeyAction2, KeyAction3}

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyAction1:
		return "Action1"
	case KeyAction2:
		return "Action2"
	case KeyAction3:
		return "Action3"
	default:
		return "Unknown"
	}
}

// ParseKey resolves a key name (case-insensitive) as used in configuration files.
func ParseKey(name string) (Key, error) {
	for _, k := range Keys {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("engine: unknown key %q", name)
}

// KeyCode is a raw, backend-native key code.
// Codes live in SDL's keycode space: printable keys carry their ASCII value and
// non-printable keys are their scancode with bit 30 set. Backends that are not
// SDL translate their own key identifiers into this space.
type KeyCode int32

const scancodeMask = 1 << 30

// Commonly used key codes.
const (
	KeyCodeUnknown   KeyCode = 0
	KeyCodeReturn    KeyCode = '\r'
	KeyCodeEscape    KeyCode = '\033'
	KeyCodeBackspace KeyCode = '\b'
	KeyCodeTab       KeyCode = '\t'
	KeyCodeSpace     KeyCode = ' '
	KeyCodeRight     KeyCode = 79 | scancodeMask
	KeyCodeLeft      KeyCode = 80 | scancodeMask
	KeyCodeDown      KeyCode = 81 | scancodeMask
	KeyCodeUp        KeyCode = 82 | scancodeMask
)

var namedKeyCodes = map[string]KeyCode{
	"return":    KeyCodeReturn,
	"enter":     KeyCodeReturn,
	"escape":    KeyCodeEscape,
	"esc":       KeyCodeEscape,
	"backspace": KeyCodeBackspace,
	"tab":       KeyCodeTab,
	"space":     KeyCodeSpace,
	"right":     KeyCodeRight,
	"left":      KeyCodeLeft,
	"down":      KeyCodeDown,
	"up":        KeyCodeUp,
}

// ParseKeyCode resolves a key code from a name ("left", "space") or a single
// printable character ("z"). Letters are normalized to lower case, matching
// the codes backends report for unshifted keys.
func ParseKeyCode(name string) (KeyCode, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if code, ok := namedKeyCodes[lower]; ok {
		return code, nil
	}
	r := []rune(lower)
	if len(r) == 1 && r[0] > ' ' && r[0] < 0x7f {
		return KeyCode(r[0]), nil
	}
	return KeyCodeUnknown, fmt.Errorf("engine: unknown key code %q", name)
}

// String returns the configuration name of the key code.
func (c KeyCode) String() string {
	switch c {
	case KeyCodeReturn:
		return "return"
	case KeyCodeEscape:
		return "escape"
	case KeyCodeBackspace:
		return "backspace"
	case KeyCodeTab:
		return "tab"
	case KeyCodeSpace:
		return "space"
	case KeyCodeRight:
		return "right"
	case KeyCodeLeft:
		return "left"
	case KeyCodeDown:
		return "down"
	case KeyCodeUp:
		return "up"
	}
	if c > ' ' && c < 0x7f {
		return string(rune(c))
	}
	return fmt.Sprintf("0x%X", int32(c))
}
