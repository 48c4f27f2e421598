package backends

import (
	"fmt"
	"sort"

	"github.com/ravi-parthasarathy/qsirecon/pkg/recon"
)

// Registry maps dispatch keys to builders.
// It implements the recon.BuilderRegistry interface.
type Registry struct {
	builders map[recon.Key]recon.Builder
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[recon.Key]recon.Builder)}
}

// Register adds a builder. Registering the same key twice is a programming
// error and panics.
func (r *Registry) Register(b recon.Builder) {
	key := b.Key()
	if _, exists := r.builders[key]; exists {
		panic(fmt.Sprintf("builder for %s already registered", key))
	}
	r.builders[key] = b
}

// Lookup returns the builder for key, or an error if none is registered.
func (r *Registry) Lookup(key recon.Key) (recon.Builder, error) {
	b, ok := r.builders[key]
	if !ok {
		return nil, fmt.Errorf("no builder registered for %s", key)
	}
	return b, nil
}

// Keys returns every registered key, sorted by software then action.
func (r *Registry) Keys() []recon.Key {
	keys := make([]recon.Key, 0, len(r.builders))
	for k := range r.builders {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Software != keys[j].Software {
			return keys[i].Software < keys[j].Software
		}
		return keys[i].Action < keys[j].Action
	})
	return keys
}

// Default returns a registry holding every built-in contract.
func Default() *Registry {
	r := NewRegistry()
	for _, group := range [][]*Contract{
		qsiprepContracts,
		dsiStudioContracts,
		mrtrixContracts,
		dipyContracts,
		amicoContracts,
		pyafqContracts,
	} {
		for _, c := range group {
			r.Register(c)
		}
	}
	return r
}
