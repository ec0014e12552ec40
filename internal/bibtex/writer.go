package bibtex

import (
	"fmt"
	"strings"
)

// Format renders an entry in canonical form: braced values, two-space
// indent, one field per line.
func Format(e *Entry) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", e.Type, e.Key))
	for _, f := range e.Fields {
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", f.Name, f.Value))
	}
	b.WriteString("}\n")

	return b.String()
}

// FormatAll renders a bibliography, entries separated by blank lines.
func FormatAll(bib *Bibliography) string {
	entries := make([]string, len(bib.Entries))
	for i := range bib.Entries {
		entries[i] = Format(&bib.Entries[i])
	}
	return strings.Join(entries, "\n")
}
