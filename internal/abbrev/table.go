// Package abbrev maps full journal names to their standard
// abbreviations. The default list is embedded; user lists are YAML
// files of "Full Name: Abbrev. Form" pairs and may be cached in SQLite
// for fast repeated lookups.
package abbrev

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/journals.yml
var defaultList []byte

// Pair is one abbreviation mapping.
type Pair struct {
	Full   string
	Abbrev string
}

// Table holds journal abbreviations keyed by normalized full name.
type Table struct {
	byKey map[string]string
	pairs []Pair
}

// Default returns the embedded abbreviation table.
func Default() (*Table, error) {
	t, err := Parse(defaultList)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded abbreviation list: %w", err)
	}
	return t, nil
}

// LoadFile parses a YAML abbreviation list from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading abbreviation list: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing abbreviation list %s: %w", path, err)
	}
	return t, nil
}

// Parse builds a table from YAML "Full Name: Abbrev" pairs.
func Parse(data []byte) (*Table, error) {
	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	t := &Table{byKey: make(map[string]string, 2*len(raw))}
	for full, abbr := range raw {
		t.add(full, abbr)
	}
	sort.Slice(t.pairs, func(i, j int) bool { return t.pairs[i].Full < t.pairs[j].Full })
	return t, nil
}

// FromPairs builds a table from explicit pairs, e.g. rows loaded from
// the SQLite cache.
func FromPairs(pairs []Pair) *Table {
	t := &Table{byKey: make(map[string]string, 2*len(pairs))}
	for _, p := range pairs {
		t.add(p.Full, p.Abbrev)
	}
	sort.Slice(t.pairs, func(i, j int) bool { return t.pairs[i].Full < t.pairs[j].Full })
	return t
}

func (t *Table) add(full, abbr string) {
	key := NormalizeKey(full)
	if key == "" {
		return
	}
	if _, dup := t.byKey[key]; !dup {
		t.pairs = append(t.pairs, Pair{Full: full, Abbrev: abbr})
	}
	t.byKey[key] = abbr
	// Map each abbreviation to itself so a second pass over already
	// abbreviated names is a no-op.
	if selfKey := NormalizeKey(abbr); selfKey != "" {
		if _, taken := t.byKey[selfKey]; !taken {
			t.byKey[selfKey] = abbr
		}
	}
}

// Lookup resolves a journal name case-insensitively. Unknown names
// return ok=false and the caller leaves the field unchanged.
func (t *Table) Lookup(name string) (string, bool) {
	abbr, ok := t.byKey[NormalizeKey(name)]
	return abbr, ok
}

// Merge overlays other on top of t: on conflict the other table wins.
func (t *Table) Merge(other *Table) *Table {
	merged := FromPairs(t.pairs)
	for _, p := range other.pairs {
		key := NormalizeKey(p.Full)
		if _, exists := merged.byKey[key]; exists {
			merged.byKey[key] = p.Abbrev
			for i := range merged.pairs {
				if NormalizeKey(merged.pairs[i].Full) == key {
					merged.pairs[i].Abbrev = p.Abbrev
				}
			}
			continue
		}
		merged.add(p.Full, p.Abbrev)
	}
	sort.Slice(merged.pairs, func(i, j int) bool { return merged.pairs[i].Full < merged.pairs[j].Full })
	return merged
}

// Pairs returns the mappings sorted by full name.
func (t *Table) Pairs() []Pair {
	return t.pairs
}

// Len returns the number of distinct full names in the table.
func (t *Table) Len() int {
	return len(t.pairs)
}

// NormalizeKey canonicalizes a journal name for lookup: lowercase with
// runs of whitespace collapsed to single spaces.
func NormalizeKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
