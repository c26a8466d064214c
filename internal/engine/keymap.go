package engine

import "sort"

// KeyMapper translates raw backend key codes into engine keys.
// The table is fixed at construction; a Core can be given a different mapper
// to rebind keys without touching the loop.
type KeyMapper struct {
	table map[KeyCode]Key
}

// Binding is a single raw key code to engine key association.
type Binding struct {
	Code KeyCode
	Key  Key
}

// DefaultBindings returns the stock bindings: arrows move, z and x are the
// first two action buttons.
func DefaultBindings() map[KeyCode]Key {
	return map[KeyCode]Key{
		KeyCodeLeft:  KeyLeft,
		KeyCodeRight: KeyRight,
		KeyCodeUp:    KeyUp,
		KeyCodeDown:  KeyDown,
		'z':          KeyAction1,
		'x':          KeyAction2,
	}
}

var defaultKeyMapper = NewKeyMapper(DefaultBindings())

// DefaultKeyMapper returns the shared mapper built from DefaultBindings.
func DefaultKeyMapper() *KeyMapper {
	return defaultKeyMapper
}

// NewKeyMapper creates a mapper from a copy of the given bindings.
// Bindings to KeyUnknown are dropped since unmapped codes resolve to it anyway.
func NewKeyMapper(bindings map[KeyCode]Key) *KeyMapper {
	table := make(map[KeyCode]Key, len(bindings))
	for code, key := range bindings {
		if key == KeyUnknown {
			continue
		}
		table[code] = key
	}
	return &KeyMapper{table: table}
}

// Map returns the engine key bound to code, or KeyUnknown.
func (m *KeyMapper) Map(code KeyCode) Key {
	if key, ok := m.table[code]; ok {
		return key
	}
	return KeyUnknown
}

// Bindings returns the mapper's table sorted by key, then by code.
func (m *KeyMapper) Bindings() []Binding {
	result := make([]Binding, 0, len(m.table))
	for code, key := range m.table {
		result = append(result, Binding{Code: code, Key: key})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Key != result[j].Key {
			return result[i].Key < result[j].Key
		}
		return result[i].Code < result[j].Code
	})
	return result
}
