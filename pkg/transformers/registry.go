// Package transformers provides the built-in directive transformers
// and a registry for resolving transformer names from configuration.
//
// Each transformer binds one schema directive to the infrastructure it
// generates: @model to storage tables and CRUD resolvers, @key to
// secondary indexes, @connection to relation resolvers, @auth to
// access rules, @function to function invocations and @http to HTTP
// proxies. The canonical pipeline order is DefaultNames.
package transformers

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leapstack-labs/leapgraph/pkg/transform"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Factory builds a fresh transformer instance.
type Factory func() transform.Transformer

// Register adds a transformer factory to the registry. The built-ins
// register themselves in their init functions; callers may register
// additional transformers before building a pipeline.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get retrieves a transformer factory by name.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// New creates a transformer instance by registered name.
func New(name string) (transform.Transformer, error) {
	if name == "" {
		return nil, fmt.Errorf("transformer name not specified")
	}
	factory, ok := Get(name)
	if !ok {
		return nil, &UnknownTransformerError{
			Name:      name,
			Available: List(),
		}
	}
	return factory(), nil
}

// Build creates transformer instances for each name, preserving the
// given order. The order matters: it becomes the pipeline's
// registration order.
func Build(names []string) ([]transform.Transformer, error) {
	out := make([]transform.Transformer, 0, len(names))
	for _, name := range names {
		t, err := New(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// List returns all registered transformer names (sorted).
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

// IsRegistered checks if a transformer name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// DefaultNames is the canonical order for the built-in transformers.
// Model runs first so the others can rely on its type metadata; Key,
// Connection and Auth refine its resources during their After hooks.
func DefaultNames() []string {
	return []string{"model", "key", "connection", "auth", "function", "http"}
}

// Default returns the built-in transformers in canonical order.
func Default() []transform.Transformer {
	return []transform.Transformer{
		NewModel(),
		NewKey(),
		NewConnection(),
		NewAuth(),
		NewFunction(),
		NewHTTP(),
	}
}

// UnknownTransformerError is returned when an unknown transformer name
// is requested.
type UnknownTransformerError struct {
	Name      string
	Available []string
}

func (e *UnknownTransformerError) Error() string {
	return fmt.Sprintf("unknown transformer %q\nAvailable transformers: %v\nHint: Check the transformers list in leapgraph.yaml", e.Name, e.Available)
}
