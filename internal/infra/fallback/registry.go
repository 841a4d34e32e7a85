// Package fallback holds the static content served when the remote API is unavailable.
package fallback

import (
	"fmt"
	"os"
	"strings"

	"github.com/UniversityPortal/internal/domain"
	"gopkg.in/yaml.v3"
)

// Registry maps endpoint paths to substitute envelopes. Lookups are pure.
type Registry struct {
	entries map[string]domain.Envelope
}

// NewRegistry returns a registry seeded with the built-in fixtures for the uz locale.
func NewRegistry() *Registry {
	return NewLocaleRegistry("uz")
}

// NewLocaleRegistry serves the built-in fixtures under locale's endpoint paths,
// so a portal configured for another locale still degrades to content.
func NewLocaleRegistry(locale string) *Registry {
	if locale == "" {
		locale = "uz"
	}
	return &Registry{entries: builtin(locale)}
}

// Lookup returns a copy of the fixture registered for path, ignoring any query
// string. Unknown paths yield an empty envelope.
func (r *Registry) Lookup(path string) domain.Envelope {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	e, ok := r.entries[path]
	if !ok {
		return domain.EmptyEnvelope()
	}
	return clone(e)
}

// Paths lists the registered endpoint paths.
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.entries))
	for p := range r.entries {
		paths = append(paths, p)
	}
	return paths
}

// LoadFile merges fixtures from a YAML file keyed by endpoint path.
// Entries in the file replace built-in entries with the same path.
func (r *Registry) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read fallback file: %w", err)
	}
	var entries map[string]domain.Envelope
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("decode fallback file %s: %w", path, err)
	}
	for p, e := range entries {
		if e.Count == nil {
			n := len(e.Results)
			e.Count = &n
		}
		if e.Results == nil {
			e.Results = []domain.Item{}
		}
		r.entries[p] = e
	}
	return nil
}

func clone(e domain.Envelope) domain.Envelope {
	out := domain.Envelope{Results: make([]domain.Item, len(e.Results))}
	for i, it := range e.Results {
		out.Results[i] = it.Clone()
	}
	if e.Count != nil {
		n := *e.Count
		out.Count = &n
	}
	if e.Next != nil {
		s := *e.Next
		out.Next = &s
	}
	if e.Previous != nil {
		s := *e.Previous
		out.Previous = &s
	}
	return out
}
