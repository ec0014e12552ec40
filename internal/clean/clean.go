// Package clean orchestrates a bibliography normalization run: parse,
// filter, transform, and atomically write the cleaned file.
package clean

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bibtools/bibfix/internal/abbrev"
	"github.com/bibtools/bibfix/internal/bibtex"
	"github.com/bibtools/bibfix/internal/cite"
	"github.com/bibtools/bibfix/internal/lint"
	"github.com/bibtools/bibfix/internal/normalize"
)

// Options configures a normalization run. Each transformation is
// toggled independently; disabled ones are skipped entirely.
type Options struct {
	InputPath  string
	OutputPath string // Empty derives <stem>_cleaned<ext>

	MaxAuthors int    // Author truncation threshold; 0 = unlimited
	Minimal    bool   // Drop noise fields
	ExtraNoise []string
	Manuscript string // Citation filter source; empty disables filtering
	NoCap      bool   // Disable sentence-case title normalization

	Abbrevs *abbrev.Table // Journal abbreviation table; nil disables
}

// Result summarizes what a run changed.
type Result struct {
	OutputPath    string   `json:"output_path"`
	Entries       int      `json:"entries"`
	Dropped       int      `json:"dropped"`
	Truncated     int      `json:"truncated"`
	Abbreviated   int      `json:"abbreviated"`
	Months        int      `json:"months_abbreviated"`
	FieldsRemoved int      `json:"fields_removed"`
	Warnings      []string `json:"warnings,omitempty"`
}

// DefaultOutputPath derives the output path from the input path:
// refs.bib becomes refs_cleaned.bib.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	stem := strings.TrimSuffix(input, ext)
	return stem + "_cleaned" + ext
}

// Run executes a normalization run. On any error the input file is
// untouched and no output file is left behind.
func Run(opts Options) (*Result, error) {
	if opts.MaxAuthors < 0 {
		return nil, fmt.Errorf("max-authors must be non-negative, got %d", opts.MaxAuthors)
	}

	bib, err := bibtex.ParseFile(opts.InputPath)
	if err != nil {
		return nil, err
	}

	res := &Result{OutputPath: opts.OutputPath}
	if res.OutputPath == "" {
		res.OutputPath = DefaultOutputPath(opts.InputPath)
	}

	// Citation filtering must happen before serialization; everything
	// else targets disjoint fields and commutes.
	if opts.Manuscript != "" {
		text, err := cite.ManuscriptText(opts.Manuscript)
		if err != nil {
			return nil, err
		}
		cited := cite.CitedKeys(text, bib.Keys())

		kept := bib.Entries[:0]
		for _, e := range bib.Entries {
			if cited[e.Key] {
				kept = append(kept, e)
			} else {
				res.Dropped++
			}
		}
		bib.Entries = kept
	}

	for i := range bib.Entries {
		transformEntry(&bib.Entries[i], opts, res)
	}

	res.Entries = len(bib.Entries)
	res.Warnings = lint.Check(bib)

	if err := writeAtomic(res.OutputPath, bibtex.FormatAll(bib)); err != nil {
		return nil, err
	}

	return res, nil
}

// transformEntry applies the enabled per-entry transformations.
func transformEntry(e *bibtex.Entry, opts Options, res *Result) {
	if opts.Minimal {
		res.FieldsRemoved += normalize.StripNoiseFields(e, opts.ExtraNoise)
	}

	if opts.MaxAuthors > 0 {
		if authors, ok := e.Get("author"); ok {
			truncated := normalize.TruncateAuthors(authors, opts.MaxAuthors)
			if truncated != authors {
				e.Set("author", truncated)
				res.Truncated++
			}
		}
	}

	if opts.Abbrevs != nil {
		if journal, ok := e.Get("journal"); ok {
			if abbr, found := opts.Abbrevs.Lookup(journal); found && abbr != journal {
				e.Set("journal", abbr)
				res.Abbreviated++
			}
		}
	}

	if !opts.NoCap {
		if title, ok := e.Get("title"); ok {
			if cased := normalize.SentenceCase(title); cased != title {
				e.Set("title", cased)
			}
		}
	}

	if month, ok := e.Get("month"); ok {
		if abbr := normalize.AbbreviateMonth(month); abbr != month {
			e.Set("month", abbr)
			res.Months++
		}
	}
}

// writeAtomic writes content to a temp file in the destination
// directory and renames it into place, so a failed run never leaves a
// partial output file.
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".bibfix-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing output: %w", err)
	}
	// CreateTemp opens the file 0600; the cleaned bibliography should
	// carry normal file permissions after the rename.
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing output: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming output into place: %w", err)
	}
	return nil
}
