// Package output writes the parsed registries as static JSON documents for
// the web front-end.
//
// Each entity type is one document holding an array of entities ordered by
// ID. Link fields hold the target's $ID_NAME; index.json maps every name to
// its ID per type, so consumers can key documents either way.
//
// Every file is replaced atomically. The set is not: all documents are
// staged before the first rename, so only a failed rename can leave new
// and old documents side by side.
package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/tosparser/internal/ctxlog"
	"github.com/specialistvlad/tosparser/internal/registry"
)

// IndexName is the file name of the name-to-ID index document.
const IndexName = "index"

// Document is one JSON file; Name is the file name without extension.
type Document struct {
	Name  string
	Value any
}

// FromRegistry makes the document for one entity type.
func FromRegistry[T registry.Entity](r *registry.Registry[T]) Document {
	return Document{Name: r.Kind(), Value: r.All()}
}

// Keyed is a registry seen only through its name index.
type Keyed interface {
	Kind() string
	Names() map[string]int
}

// Index makes the document mapping each type's names to IDs.
func Index(regs ...Keyed) Document {
	idx := make(map[string]map[string]int, len(regs))
	for _, r := range regs {
		idx[r.Kind()] = r.Names()
	}
	return Document{Name: IndexName, Value: idx}
}

// Encode renders a document. Map keys are sorted, so equal input always
// produces identical bytes.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes every document before touching the disk, stages each one
// as a temporary file in dir, and renames them into place once all are
// staged. An encoding or staging failure leaves dir's documents untouched.
func Write(ctx context.Context, dir string, docs ...Document) error {
	logger := ctxlog.FromContext(ctx)

	encoded := make([][]byte, len(docs))
	for i, doc := range docs {
		data, err := Encode(doc.Value)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", doc.Name, err)
		}
		encoded[i] = data
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	staged := make([]string, 0, len(docs))
	defer func() {
		for _, tmp := range staged {
			os.Remove(tmp)
		}
	}()
	for i, doc := range docs {
		tmp, err := stage(filepath.Join(dir, doc.Name+".json"), encoded[i])
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	for i, doc := range docs {
		path := filepath.Join(dir, doc.Name+".json")
		if err := os.Rename(staged[i], path); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		logger.Debug("Document written.", "path", path, "bytes", len(encoded[i]))
	}

	logger.Info("Output written.", "dir", dir, "documents", len(docs))
	return nil
}

// stage writes data to a temporary sibling of path and returns its name.
func stage(path string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return tmp.Name(), nil
}
