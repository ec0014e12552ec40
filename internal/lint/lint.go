// Package lint checks entries for fields that submission systems
// commonly require. Findings are warnings: they never block a run.
package lint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bibtools/bibfix/internal/bibtex"
)

// essentialFields lists the fields an entry type is expected to carry.
// Types absent from the map are not checked.
var essentialFields = map[string][]string{
	"article":       {"author", "title", "journal", "year", "volume"},
	"book":          {"title", "year", "publisher"},
	"incollection":  {"author", "title", "booktitle", "publisher", "year", "pages"},
	"inproceedings": {"author", "title", "booktitle", "year"},
	"proceedings":   {"title", "year", "editor"},
	"booklet":       {"title", "year"},
	"manual":        {"title", "year"},
	"techreport":    {"author", "title", "institution", "year"},
	"mastersthesis": {"author", "title", "school", "year"},
	"phdthesis":     {"author", "title", "school", "year"},
	"misc":          {"title", "year"},
	"unpublished":   {"author", "title", "note", "year"},
}

// needsAuthorOrEditor lists types where either author or editor
// satisfies the requirement.
var needsAuthorOrEditor = map[string]bool{
	"book":        true,
	"proceedings": true,
}

// CheckEntry returns the essential fields missing from an entry.
func CheckEntry(e *bibtex.Entry) []string {
	required, known := essentialFields[e.Type]
	if !known {
		return nil
	}

	var missing []string
	for _, name := range required {
		if !e.Has(name) {
			missing = append(missing, name)
		}
	}

	if needsAuthorOrEditor[e.Type] && !e.Has("author") && !e.Has("editor") {
		missing = append(missing, "author or editor")
	}

	sort.Strings(missing)
	return missing
}

// Check returns one warning line per entry with missing fields.
func Check(bib *bibtex.Bibliography) []string {
	var warnings []string
	for i := range bib.Entries {
		e := &bib.Entries[i]
		if missing := CheckEntry(e); len(missing) > 0 {
			warnings = append(warnings, fmt.Sprintf("entry [%s] (%s) may be missing essential fields: %s",
				e.Key, e.Type, strings.Join(missing, ", ")))
		}
	}
	return warnings
}
