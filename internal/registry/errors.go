package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned by Put when the ID or name is already taken.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned by lookups and Link resolution for absent entities.
	ErrNotFound = errors.New("not found")
)

// KeyError describes which key of which registry a lookup or insert failed on.
type KeyError struct {
	Kind string
	Key  any
	Err  error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("%s %v: %v", e.Kind, e.Key, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }
