// Package backend provides a registry of engine backends.
// Backends register themselves in init() functions, so the command line can
// pick one by name without hardcoded dependencies on native libraries.
package backend

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/megatiny/internal/engine"
)

// Options carries settings shared by all backends. Backends ignore fields
// that do not apply to them.
type Options struct {
	Logger *log.Logger

	// FPS paces Present on backends without vsync (terminals).
	FPS int

	// KeyRelease is how long a terminal key must stay quiet before a
	// key-up is synthesized.
	KeyRelease time.Duration

	// Input and Output replace the process terminal, e.g. with an SSH session.
	Input  io.Reader
	Output io.Writer

	// Frames makes the headless backend quit after that many frames (0 = never).
	Frames int
}

// Factory creates a backend instance.
type Factory func(opts Options) (engine.Backend, error)

// Info describes a registered backend.
type Info struct {
	Name        string
	Description string
}

type entry struct {
	factory     Factory
	description string
}

var (
	backends = make(map[string]entry)
	mu       sync.RWMutex
)

// Register adds a backend factory to the registry.
// Panics if a backend with the same name is already registered.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("backend: %q already registered", name))
	}
	backends[name] = entry{factory: f, description: description}
}

// List returns all registered backends, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(backends))
	for name, e := range backends {
		result = append(result, Info{Name: name, Description: e.description})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Create instantiates the named backend.
func Create(name string, opts Options) (engine.Backend, error) {
	mu.RLock()
	e, ok := backends[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("backend: unknown backend %q", name)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return e.factory(opts)
}

// Exists checks if a backend with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := backends[name]
	return ok
}
