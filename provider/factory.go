package provider

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownProvider is returned when a name has no registry entry.
var ErrUnknownProvider = errors.New("unknown provider")

// Entry is the static metadata for one selectable backend.
type Entry struct {
	Name          string
	DefaultAPIURL string
	// NeedAPIKey marks backends that require APIKeyHeader/APIKey. No
	// registered backend needs one yet.
	NeedAPIKey bool
	// Timeout bounds the reachability probe during setup.
	Timeout time.Duration
	New     func(cfg Config) Provider
}

// Registry maps display names to backend entries. It is built once and not
// modified afterwards.
type Registry struct {
	entries map[string]Entry
	order   []string
}

// NewRegistry builds a registry from entries, keeping their order for
// display. Later entries with a duplicate name replace earlier ones.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if _, exists := r.entries[e.Name]; !exists {
			r.order = append(r.order, e.Name)
		}
		r.entries[e.Name] = e
	}
	return r
}

// DefaultRegistry returns the backends nameit ships with.
//
// Supported backends:
//   - "Ollama": local Ollama server at http://localhost:11434/api
func DefaultRegistry() *Registry {
	return NewRegistry(
		Entry{
			Name:          "Ollama",
			DefaultAPIURL: "http://localhost:11434/api",
			NeedAPIKey:    false,
			Timeout:       1000 * time.Millisecond,
			New: func(cfg Config) Provider {
				return NewOllamaProvider(cfg)
			},
		},
	)
}

// Names returns the display names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// NewProvider creates the provider selected by cfg.ProviderName.
//
// Returns ErrUnknownProvider (wrapped) if the name is not registered.
func (r *Registry) NewProvider(cfg Config) (Provider, error) {
	e, ok := r.entries[cfg.ProviderName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.ProviderName)
	}
	if e.New == nil {
		return NewBaseProvider(cfg), nil
	}
	return e.New(cfg), nil
}
