package ies

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Source is a table file on disk.
type Source struct {
	path      string
	delimiter rune
}

// Option configures a Source.
type Option func(*Source)

// WithDelimiter overrides the column delimiter. Quoting always uses '"'.
func WithDelimiter(r rune) Option {
	return func(s *Source) { s.delimiter = r }
}

// Open checks that the table exists and returns a Source for it. A missing
// file yields an error wrapping ErrSourceNotFound.
func Open(path string, opts ...Option) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceNotFound, path)
	}

	s := &Source{path: path, delimiter: ','}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the file the source reads.
func (s *Source) Path() string { return s.path }

// Records streams the rows of the table in file order. Every call reads the
// file again from the start. Iteration stops after the first error.
func (s *Source) Records() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		f, err := os.Open(s.path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				err = fmt.Errorf("%w: %s", ErrSourceNotFound, s.path)
			}
			yield(Record{}, err)
			return
		}
		defer f.Close()

		// Exported tables are UTF-8, sometimes with a BOM, and occasionally
		// UTF-16 with a BOM. Bytes without a BOM pass through untouched.
		r := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(transform.Nop)))
		r.Comma = s.delimiter
		r.FieldsPerRecord = -1
		// Localized text columns carry bare quotes inside unquoted cells.
		r.LazyQuotes = true

		header, err := r.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			yield(Record{}, malformed(s.path, 1, "", "", err))
			return
		}

		for {
			row, err := r.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				line := 0
				var perr *csv.ParseError
				if errors.As(err, &perr) {
					line = perr.Line
				}
				yield(Record{}, malformed(s.path, line, "", "", err))
				return
			}
			line, _ := r.FieldPos(0)

			fields := make(map[string]string, len(header))
			for i, col := range header {
				if i < len(row) {
					fields[col] = row[i]
				} else {
					fields[col] = ""
				}
			}
			if !yield(Record{path: s.path, line: line, fields: fields}, nil) {
				return
			}
		}
	}
}

// Each opens path and calls fn for every record. It stops at the first error
// returned by the reader or by fn.
func Each(path string, fn func(Record) error, opts ...Option) error {
	src, err := Open(path, opts...)
	if err != nil {
		return err
	}
	for rec, err := range src.Records() {
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}
