package gdext

import "github.com/rotisserie/eris"

// CollectorRegistry maps extension kinds to their collectors.
//
// # Usage
//
// Create a registry with all standard collectors:
//
//	registry := gdext.NewCollectorRegistry()
//
// Or start empty and register custom collectors:
//
//	registry := &gdext.CollectorRegistry{}
//	registry.Register(&MyLibraryCollector{})
//
// # Collector Selection
//
// CollectorFor returns the first registered collector whose Kind matches.
// Registration is not thread-safe; register everything before use.
type CollectorRegistry struct {
	collectors []Collector
}

// NewCollectorRegistry creates a registry with the standard collectors:
//  1. ProjectCollector - ExtProject
//  2. GenericLibraryCollector - ExtGenericLibrary
//  3. LibraryCollector - ExtLibrary
//  4. NativeScriptCollector - ExtNativeScript
func NewCollectorRegistry() *CollectorRegistry {
	registry := &CollectorRegistry{}

	registry.Register(&ProjectCollector{})
	registry.Register(&GenericLibraryCollector{})
	registry.Register(&LibraryCollector{})
	registry.Register(&NativeScriptCollector{})

	return registry
}

// Register adds a collector. Earlier registrations win for the same kind.
func (r *CollectorRegistry) Register(collector Collector) {
	r.collectors = append(r.collectors, collector)
}

// CollectorFor returns the collector for kind, or an error if none handles it.
func (r *CollectorRegistry) CollectorFor(kind ExtType) (Collector, error) {
	for _, collector := range r.collectors {
		if collector.Kind() == kind {
			return collector, nil
		}
	}

	return nil, eris.Errorf("no collector found for extension type: %s", kind)
}

// ListCollectors returns a copy of all registered collectors.
func (r *CollectorRegistry) ListCollectors() []Collector {
	return append([]Collector{}, r.collectors...)
}
