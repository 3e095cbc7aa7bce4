package ies

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned when a table file does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrMalformedRecord is returned when a row cannot be parsed, or a
	// required column is missing or holds content of the wrong shape.
	ErrMalformedRecord = errors.New("malformed record")
)

// RecordError locates a malformed value inside a table.
type RecordError struct {
	Path   string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: column %q (value %q): %v", e.Path, e.Line, e.Column, e.Value, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

func malformed(path string, line int, column, value string, cause error) error {
	err := ErrMalformedRecord
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedRecord, cause)
	}
	return &RecordError{Path: path, Line: line, Column: column, Value: value, Err: err}
}
