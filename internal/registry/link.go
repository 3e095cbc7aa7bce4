package registry

import (
	"encoding/json"
	"slices"
)

// Link is a by-name reference into a Registry. It resolves against the
// registry's current contents, so it never goes stale after the target is
// updated; it fails with ErrNotFound once the target has been removed.
type Link[T Entity] struct {
	reg  *Registry[T]
	name string
}

// Name returns the symbolic name of the target.
func (l Link[T]) Name() string { return l.name }

// Kind returns the entity type of the target.
func (l Link[T]) Kind() string { return l.reg.kind }

// Resolve returns the target as it is now.
func (l Link[T]) Resolve() (T, error) {
	return l.reg.GetByName(l.name)
}

// MarshalJSON writes the target's name. Consumers resolve it against the
// target type's own document.
func (l Link[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.name)
}

// Without returns links with every entry naming one of names dropped.
func Without[T Entity](links []Link[T], names map[string]struct{}) []Link[T] {
	return slices.DeleteFunc(links, func(l Link[T]) bool {
		_, drop := names[l.name]
		return drop
	})
}
