package registry

import (
	"cmp"
	"slices"
)

// Entity is implemented by every record kept in a Registry. Both keys must
// be fixed for the lifetime of the entity.
type Entity interface {
	EntityID() int
	EntityName() string
}

// Registry indexes one entity type by ID and by name.
type Registry[T Entity] struct {
	kind   string
	byID   map[int]T
	byName map[string]T
}

// New creates an empty registry. kind names the entity type in errors and logs.
func New[T Entity](kind string) *Registry[T] {
	return &Registry[T]{
		kind:   kind,
		byID:   make(map[int]T),
		byName: make(map[string]T),
	}
}

// Kind returns the entity type name.
func (r *Registry[T]) Kind() string { return r.kind }

// Len returns the number of entities held.
func (r *Registry[T]) Len() int { return len(r.byID) }

// Put inserts e under both keys. Nothing is inserted if either key is taken.
func (r *Registry[T]) Put(e T) error {
	if _, ok := r.byID[e.EntityID()]; ok {
		return &KeyError{Kind: r.kind, Key: e.EntityID(), Err: ErrDuplicateKey}
	}
	if _, ok := r.byName[e.EntityName()]; ok {
		return &KeyError{Kind: r.kind, Key: e.EntityName(), Err: ErrDuplicateKey}
	}
	r.byID[e.EntityID()] = e
	r.byName[e.EntityName()] = e
	return nil
}

// GetByID looks an entity up by its numeric ID.
func (r *Registry[T]) GetByID(id int) (T, error) {
	e, ok := r.byID[id]
	if !ok {
		var zero T
		return zero, &KeyError{Kind: r.kind, Key: id, Err: ErrNotFound}
	}
	return e, nil
}

// GetByName looks an entity up by its symbolic name.
func (r *Registry[T]) GetByName(name string) (T, error) {
	e, ok := r.byName[name]
	if !ok {
		var zero T
		return zero, &KeyError{Kind: r.kind, Key: name, Err: ErrNotFound}
	}
	return e, nil
}

// Has reports whether an entity with the given name exists.
func (r *Registry[T]) Has(name string) bool {
	_, ok := r.byName[name]
	return ok
}

// Remove deletes the entity with the given ID from both indices.
func (r *Registry[T]) Remove(id int) error {
	e, ok := r.byID[id]
	if !ok {
		return &KeyError{Kind: r.kind, Key: id, Err: ErrNotFound}
	}
	delete(r.byID, id)
	delete(r.byName, e.EntityName())
	return nil
}

// All returns every entity ordered by ID.
func (r *Registry[T]) All() []T {
	out := make([]T, 0, len(r.byID))
	for _, e := range r.byID {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(a.EntityID(), b.EntityID()) })
	return out
}

// MakeLink returns a Link to the entity called name. The target is not
// looked up until the Link is resolved.
func (r *Registry[T]) MakeLink(name string) Link[T] {
	return Link[T]{reg: r, name: name}
}

// Names maps every entity's name to its ID.
func (r *Registry[T]) Names() map[string]int {
	out := make(map[string]int, len(r.byName))
	for name, e := range r.byName {
		out[name] = e.EntityID()
	}
	return out
}
