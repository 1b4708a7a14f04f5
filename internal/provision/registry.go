package provision

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]func(Config, *slog.Logger) (Provisioner, error))
)

// Register adds a provisioner factory to the registry. Called by
// provisioner implementations in their init() functions.
func Register(name string, factory func(Config, *slog.Logger) (Provisioner, error)) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a provisioner factory by name.
func Get(name string) (func(Config, *slog.Logger) (Provisioner, error), bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New creates a provisioner instance based on config type. The logger
// is passed to the constructor (nil uses a discard logger).
func New(cfg Config, logger *slog.Logger) (Provisioner, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("provisioner type not specified")
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownProvisionerError{
			Type:      cfg.Type,
			Available: List(),
		}
	}
	return factory(cfg, logger)
}

// List returns all registered provisioner names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a provisioner type is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// UnknownProvisionerError is returned when an unknown provisioner type
// is requested.
type UnknownProvisionerError struct {
	Type      string
	Available []string
}

func (e *UnknownProvisionerError) Error() string {
	return fmt.Sprintf("unknown provisioner type %q\nAvailable provisioners: %v\nHint: Check your target.type in leapgraph.yaml", e.Type, e.Available)
}
