// Package translation resolves string table keys found in the source tables
// to localized text.
package translation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Table maps string table keys to localized text.
type Table struct {
	strings map[string]string
}

// Translate returns the text for key. Keys the table does not know are
// returned unchanged, so untranslated content still shows something.
func (t *Table) Translate(key string) string {
	if key == "" {
		return ""
	}
	if text, ok := t.strings[key]; ok {
		return text
	}
	return key
}

// Count returns the number of loaded strings.
func (t *Table) Count() int {
	return len(t.strings)
}

// Identity returns a table with no strings; every key translates to itself.
func Identity() *Table {
	return &Table{strings: map[string]string{}}
}

// --- YAML loading ---

type tableFile struct {
	Strings map[string]string `yaml:"strings"`
}

// Load reads a translation table from YAML:
//
//	strings:
//	  "@dicID_^*$ETC_20150317_004001$*^": "Swordsman"
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read translations: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse translations %s: %w", path, err)
	}
	t := Identity()
	for key, text := range f.Strings {
		t.strings[key] = text
	}
	return t, nil
}
