package ies

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one data row of a table.
type Record struct {
	path   string
	line   int
	fields map[string]string
}

// NewRecord builds a record outside of a table read. It is mostly useful in tests.
func NewRecord(path string, line int, fields map[string]string) Record {
	return Record{path: path, line: line, fields: fields}
}

// Line is the 1-based line of the row in its file, header included.
func (r Record) Line() int { return r.line }

// Path is the table the row was read from.
func (r Record) Path() string { return r.path }

// Has reports whether the table declares the column.
func (r Record) Has(column string) bool {
	_, ok := r.fields[column]
	return ok
}

// String returns the raw value of a column. A column the table does not
// declare is a malformed record.
func (r Record) String(column string) (string, error) {
	v, ok := r.fields[column]
	if !ok {
		return "", malformed(r.path, r.line, column, "", fmt.Errorf("missing column"))
	}
	return v, nil
}

// Int parses a column as a base-10 integer.
func (r Record) Int(column string) (int, error) {
	v, err := r.String(column)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, malformed(r.path, r.line, column, v, err)
	}
	return n, nil
}

// Errorf reports a malformed value found by a caller's own validation.
func (r Record) Errorf(column, format string, args ...any) error {
	return malformed(r.path, r.line, column, r.fields[column], fmt.Errorf(format, args...))
}

// Scanner reads columns off a record and keeps the first error, so a
// parser can pull many fields and check once.
type Scanner struct {
	rec Record
	err error
}

// Scan starts reading columns from the record.
func (r Record) Scan() *Scanner { return &Scanner{rec: r} }

// String reads a raw column.
func (s *Scanner) String(column string) string {
	if s.err != nil {
		return ""
	}
	v, err := s.rec.String(column)
	s.err = err
	return v
}

// Int reads an integer column.
func (s *Scanner) Int(column string) int {
	if s.err != nil {
		return 0
	}
	v, err := s.rec.Int(column)
	s.err = err
	return v
}

// Fail records a validation error unless an earlier one is already held.
func (s *Scanner) Fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

// Err returns the first error met while scanning.
func (s *Scanner) Err() error { return s.err }
