package toolkit

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownBackend is returned by Open for a name nobody registered.
var ErrUnknownBackend = errors.New("unknown toolkit backend")

// Options configure a backend when it is opened.
type Options struct {
	// Outputs lists virtual output modes ("1920x1080") for backends that
	// create their own outputs.
	Outputs []string
}

// Opener creates a backend.
type Opener func(opts Options) (Backend, error)

var (
	registryMu sync.Mutex
	registry   = make(map[string]Opener)
)

// Register makes a backend available under name. It panics on duplicates,
// like database/sql drivers.
func Register(name string, opener Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if opener == nil {
		panic("toolkit: Register opener is nil")
	}
	if _, dup := registry[name]; dup {
		panic("toolkit: Register called twice for backend " + name)
	}
	registry[name] = opener
}

// Open opens the named backend.
func Open(name string, opts Options) (Backend, error) {
	registryMu.Lock()
	opener, ok := registry[name]
	registryMu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownBackend, name, Backends())
	}
	backend, err := opener(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s backend: %w", name, err)
	}
	return backend, nil
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	registryMu.Lock()
	defer registryMu.Unlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
