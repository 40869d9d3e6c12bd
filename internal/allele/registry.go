package allele

import (
	"sync"
)

// Registry interns well-known symbolic alleles by ID so repeated decodes
// of common symbolics (<DEL>, <NON_REF>, ...) return identical values.
//
// The package-level default registry is populated once at first use;
// tests that need isolation can work against their own NewRegistry.
type Registry struct {
	mu   sync.RWMutex
	byID map[string]Allele
}

// NewRegistry returns a registry pre-populated with the standard
// structural variant symbolics and the unspecified-alt placeholders.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]Allele)}
	for _, id := range []string{"DEL", "INS", "DUP", "INV", "CNV", "BND"} {
		r.byID[id] = &Symbolic{id: id, svType: SVTypeFromSymbolicID(id)}
	}
	r.byID["*"] = UnspecifiedAlt
	r.byID["NON_REF"] = NonRef
	return r
}

// Lookup returns the interned allele for id, or nil when none is
// registered.
func (r *Registry) Lookup(id string) Allele {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[id]
}

// Register interns a symbolic allele under its ID. Registering the same
// value twice is a no-op returning the interned instance; registering a
// different allele under an existing ID is an error.
func (r *Registry) Register(a Allele) (Allele, error) {
	if !a.IsSymbolic() {
		return nil, encodingErrorf(a.String(), "only symbolic alleles can be registered")
	}
	id := symbolicID(a)
	if id == "" {
		return nil, encodingErrorf(a.String(), "symbolic allele has no id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.byID[id]; ok {
		if !prev.Equal(a) {
			return nil, encodingErrorf(a.String(), "conflicting symbolic alleles registered under id %q", id)
		}
		return prev, nil
	}
	r.byID[id] = a
	return a, nil
}

func symbolicID(a Allele) string {
	switch s := a.(type) {
	case *Symbolic:
		return s.id
	case *Unspecified:
		return s.id
	default:
		return ""
	}
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the process-wide registry used by Decode.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}
