package formula

import (
	"errors"
	"fmt"
)

// ErrFormula is wrapped by every error raised while loading or calling a formula.
var ErrFormula = errors.New("formula error")

// Error reports which module and function failed.
type Error struct {
	Module   string
	Function string
	Err      error
}

func (e *Error) Error() string {
	if e.Function == "" {
		return fmt.Sprintf("%v: %s: %v", ErrFormula, e.Module, e.Err)
	}
	return fmt.Sprintf("%v: %s: %s: %v", ErrFormula, e.Module, e.Function, e.Err)
}

func (e *Error) Unwrap() []error { return []error{ErrFormula, e.Err} }
