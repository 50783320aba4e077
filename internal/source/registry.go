package source

import "sort"

// Registry maps source identifiers to adapters. Unknown identifiers fall
// back to the configured default without error, favoring availability over
// strict validation.
type Registry struct {
	sources     map[string]Source
	defaultName string
}

// NewRegistry creates an empty registry with the given default source name.
// Parameters:
//   - defaultName: identifier returned requests fall back to.
// Returns:
//   - *Registry: initialized registry.
func NewRegistry(defaultName string) *Registry {
	return &Registry{
		sources:     make(map[string]Source),
		defaultName: defaultName,
	}
}

// Register adds a source under its Name().
func (r *Registry) Register(s Source) {
	r.sources[s.Name()] = s
}

// Get returns the source registered under name, or the default source when
// the name is unknown. Returns nil only if the default itself is missing.
// Parameters:
//   - name: requested source identifier.
// Returns:
//   - Source: matching or default adapter.
func (r *Registry) Get(name string) Source {
	if s, ok := r.sources[name]; ok {
		return s
	}
	return r.sources[r.defaultName]
}

// Names returns the registered source identifiers, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultName returns the identifier of the default source.
func (r *Registry) DefaultName() string {
	return r.defaultName
}
