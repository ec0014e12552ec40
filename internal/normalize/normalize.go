// Package normalize provides the pure field transformations applied to
// bibliography entries: author truncation, sentence-case titles, month
// abbreviation, and noise-field removal.
package normalize

import (
	"strings"
	"unicode"

	"github.com/bibtools/bibfix/internal/bibtex"
)

// AuthorSeparator joins names in a BibTeX author field.
const AuthorSeparator = " and "

// TruncationSuffix replaces authors past the configured maximum.
const TruncationSuffix = "et al."

// TruncateAuthors keeps the first max authors and appends "et al." when
// the list is longer. Lists of max or fewer authors pass through
// unchanged, so the operation is idempotent. max <= 0 means unlimited.
func TruncateAuthors(authors string, max int) string {
	if max <= 0 || authors == "" {
		return authors
	}
	names := strings.Split(authors, AuthorSeparator)
	if len(names) <= max {
		return authors
	}
	// An already-truncated list never exceeds max+1 names where the
	// last is the suffix; this re-check keeps the second pass a no-op.
	if len(names) == max+1 && names[max] == TruncationSuffix {
		return authors
	}
	kept := append(names[:max:max], TruncationSuffix)
	return strings.Join(kept, AuthorSeparator)
}

// SentenceCase rewrites a title to sentence case: the first letter
// upper-cased, the remainder lower-cased. Brace-delimited substrings
// are preserved verbatim; braces are the escape mechanism for proper
// nouns and acronyms. The leading capital is applied only when the
// title's first letter sits outside braces.
func SentenceCase(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	depth := 0
	seenLetter := false
	for _, r := range title {
		switch {
		case r == '{':
			depth++
			b.WriteRune(r)
		case r == '}':
			if depth > 0 {
				depth--
			}
			b.WriteRune(r)
		case depth > 0:
			if unicode.IsLetter(r) {
				seenLetter = true
			}
			b.WriteRune(r)
		case unicode.IsLetter(r):
			if !seenLetter {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
			seenLetter = true
		default:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// monthAbbrevs maps lowercase full month names to their three-letter
// forms.
var monthAbbrevs = map[string]string{
	"january":   "Jan",
	"february":  "Feb",
	"march":     "Mar",
	"april":     "Apr",
	"may":       "May",
	"june":      "Jun",
	"july":      "Jul",
	"august":    "Aug",
	"september": "Sep",
	"october":   "Oct",
	"november":  "Nov",
	"december":  "Dec",
}

// AbbreviateMonth maps a full English month name (case-insensitive) to
// its three-letter abbreviation. Unrecognized values pass through
// unchanged; that is a documented no-op, not an error.
func AbbreviateMonth(month string) string {
	if abbr, ok := monthAbbrevs[strings.ToLower(strings.TrimSpace(month))]; ok {
		return abbr
	}
	return month
}

// NoiseFields are removed from entries in minimal output mode. These
// are publisher- and reference-manager artifacts that submission
// systems ignore or reject.
var NoiseFields = map[string]bool{
	"abstract":        true,
	"file":            true,
	"keywords":        true,
	"mendeley-groups": true,
	"comment":         true,
	"url":             true,
	"urldate":         true,
	"doi":             true,
	"issn":            true,
	"isbn":            true,
	"note":            true,
	"month":           true,
	"day":             true,
	"eprint":          true,
	"eprinttype":      true,
	"arxivid":         true,
	"archiveprefix":   true,
	"timestamp":       true,
	"creationdate":    true,
	"lastchecked":     true,
	"mrnumber":        true,
	"zblnumber":       true,
	"language":        true,
	"annotation":      true,
	"acknowledgement": true,
	"pdf":             true,
}

// StripNoiseFields removes noise fields from an entry and returns how
// many were dropped. Extra names extend the built-in set.
func StripNoiseFields(e *bibtex.Entry, extra []string) int {
	drop := NoiseFields
	if len(extra) > 0 {
		drop = make(map[string]bool, len(NoiseFields)+len(extra))
		for name := range NoiseFields {
			drop[name] = true
		}
		for _, name := range extra {
			drop[strings.ToLower(name)] = true
		}
	}

	kept := e.Fields[:0]
	dropped := 0
	for _, f := range e.Fields {
		if drop[f.Name] {
			dropped++
			continue
		}
		kept = append(kept, f)
	}
	e.Fields = kept
	return dropped
}
