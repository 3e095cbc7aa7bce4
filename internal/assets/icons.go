// Package assets maps the icon columns of the source tables to the asset
// names the web front-end loads.
package assets

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// IconTable resolves raw icon names and remembers which assets were used.
type IconTable struct {
	aliases map[string]string

	mu         sync.Mutex
	referenced map[string]struct{}
}

// NewIconTable returns a table without aliases.
func NewIconTable() *IconTable {
	return &IconTable{
		aliases:    map[string]string{},
		referenced: map[string]struct{}{},
	}
}

// ParseEntityIcon normalizes a raw icon column: names are lowercased and
// then replaced by their alias, if any. An empty column has no icon.
func (t *IconTable) ParseEntityIcon(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return ""
	}
	if alias, ok := t.aliases[name]; ok {
		name = alias
	}

	t.mu.Lock()
	t.referenced[name] = struct{}{}
	t.mu.Unlock()
	return name
}

// Referenced returns every asset name resolved so far, sorted.
func (t *IconTable) Referenced() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, 0, len(t.referenced))
	for name := range t.referenced {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Count returns the number of loaded aliases.
func (t *IconTable) Count() int {
	return len(t.aliases)
}

// --- YAML loading ---

type aliasEntry struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type iconFile struct {
	Aliases []aliasEntry `yaml:"icon_aliases"`
}

// LoadIconTable loads icon aliases from YAML.
func LoadIconTable(path string) (*IconTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read icon aliases: %w", err)
	}
	var f iconFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse icon aliases %s: %w", path, err)
	}
	t := NewIconTable()
	for _, e := range f.Aliases {
		if e.From == "" || e.To == "" {
			return nil, fmt.Errorf("icon alias %q -> %q: both names are required", e.From, e.To)
		}
		t.aliases[strings.ToLower(e.From)] = strings.ToLower(e.To)
	}
	return t, nil
}
