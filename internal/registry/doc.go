// Package registry provides the per-type entity indices that the parsers
// populate and cross-reference.
//
// A Registry holds one entity type under two synchronized keys: its numeric
// ID and its symbolic name. Parsers never copy another type's entity into
// their own; they hold a Link, which names the target and looks it up in
// the owning Registry each time it is resolved. Removing an entity from a
// Registry is therefore immediately visible to every Link that names it.
//
// Registries are not safe for concurrent mutation. The pipeline runs its
// phases sequentially on a single goroutine.
package registry
