package config

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/megatiny/internal/engine"
)

// KeyMapper builds an engine key mapper from the keys section.
// An empty section yields the engine's default mapper.
func (c Config) KeyMapper() (*engine.KeyMapper, error) {
	if len(c.Keys) == 0 {
		return engine.DefaultKeyMapper(), nil
	}

	names := make([]string, 0, len(c.Keys))
	for name := range c.Keys {
		names = append(names, name)
	}
	sort.Strings(names)

	bindings := make(map[engine.KeyCode]engine.Key)
	for _, name := range names {
		key, err := engine.ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("keys: %w", err)
		}
		for _, raw := range c.Keys[name] {
			code, err := engine.ParseKeyCode(raw)
			if err != nil {
				return nil, fmt.Errorf("keys.%s: %w", name, err)
			}
			if prev, ok := bindings[code]; ok && prev != key {
				return nil, fmt.Errorf("keys.%s: %s is already bound to %s", name, code, prev)
			}
			bindings[code] = key
		}
	}
	return engine.NewKeyMapper(bindings), nil
}
