package catalog

import (
	"fmt"
	"sort"

	"github.com/kravuar/arangate/model"
)

// Registry is an immutable, read-optimized index of the operation catalog.
// It is built once at process start; lookups are lock-free map reads.
type Registry struct {
	byKey       map[string]OperationDescriptor
	byResource  map[string][]OperationDescriptor
	resourceIDs []string
}

// NewRegistry builds a Registry from the static catalog.
func NewRegistry() *Registry {
	return newRegistry(operations)
}

func newRegistry(descs []OperationDescriptor) *Registry {
	r := &Registry{
		byKey:      make(map[string]OperationDescriptor, len(descs)),
		byResource: make(map[string][]OperationDescriptor),
	}
	for _, d := range descs {
		if _, exists := r.byKey[d.Key()]; exists {
			panic(fmt.Sprintf("catalog: duplicate operation %q", d.Key()))
		}
		seen := make(map[string]bool, len(d.Params))
		for _, p := range d.Params {
			if seen[p.Name] {
				panic(fmt.Sprintf("catalog: duplicate parameter %q in %q", p.Name, d.Key()))
			}
			seen[p.Name] = true
		}
		r.byKey[d.Key()] = d
		r.byResource[d.Resource] = append(r.byResource[d.Resource], d)
	}
	for res := range r.byResource {
		r.resourceIDs = append(r.resourceIDs, res)
	}
	sort.Strings(r.resourceIDs)
	return r
}

// Resolve returns the descriptor for the given (resource, operation) pair.
// Unknown selections fail fast, before any parameter resolution or network
// call is attempted.
func (r *Registry) Resolve(resource, operation string) (OperationDescriptor, error) {
	d, ok := r.byKey[resource+"."+operation]
	if !ok {
		return OperationDescriptor{}, model.NewUnknownOperationError(resource, operation)
	}
	return d, nil
}

// Resources returns all resource identifiers, sorted.
func (r *Registry) Resources() []string {
	out := make([]string, len(r.resourceIDs))
	copy(out, r.resourceIDs)
	return out
}

// Operations returns the descriptors registered for one resource, in
// registration order. The second return is false for an unknown resource.
func (r *Registry) Operations(resource string) ([]OperationDescriptor, bool) {
	descs, ok := r.byResource[resource]
	if !ok {
		return nil, false
	}
	out := make([]OperationDescriptor, len(descs))
	copy(out, descs)
	return out, true
}

// All returns every descriptor grouped by resource, resources sorted.
func (r *Registry) All() []OperationDescriptor {
	var out []OperationDescriptor
	for _, res := range r.resourceIDs {
		out = append(out, r.byResource[res]...)
	}
	return out
}
