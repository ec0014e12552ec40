// Package main provides the bibfix CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bibtools/bibfix/internal/abbrev"
	"github.com/bibtools/bibfix/internal/bibtex"
	"github.com/bibtools/bibfix/internal/clean"
	"github.com/bibtools/bibfix/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// jsonOutput controls whether to use JSON output instead of human-readable
var jsonOutput bool

var (
	maxAuthors int
	minimal    bool
	onlyCited  string
	noCap      bool
	outputPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Errors are silenced on the command, so flag and argument
		// parse failures surface only here; in-run failures have
		// already printed and exited via exitWithError.
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibfix <input.bib>",
	Short: "Normalize a BibTeX bibliography for manuscript submission",
	Long: `bibfix normalizes BibTeX bibliographies prior to submission.

It truncates long author lists, drops entries not cited by the
manuscript, abbreviates journal names, rewrites titles to sentence case
(brace-protected substrings are kept verbatim), and abbreviates month
names. The cleaned bibliography is written to <input>_cleaned.<ext>.`,
	Args:          cobra.ExactArgs(1),
	RunE:          runClean,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Flags().IntVar(&maxAuthors, "max-authors", 0, "Keep at most N authors, then append \"et al.\" (0 = unlimited)")
	rootCmd.Flags().BoolVar(&minimal, "minimal", false, "Drop noise fields (abstract, note, url, ...)")
	rootCmd.Flags().StringVar(&onlyCited, "only-cited", "", "Drop entries whose key does not appear in this manuscript (.tex, .txt, .md, or .pdf)")
	rootCmd.Flags().BoolVar(&noCap, "no-cap", false, "Disable sentence-case title normalization")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (default <input>_cleaned.<ext>)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Use JSON output instead of human-readable")
	rootCmd.Version = Version
}

func runClean(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	// The config default applies only when the flag was not given.
	if !cmd.Flags().Changed("max-authors") && cfg.MaxAuthors > 0 {
		maxAuthors = cfg.MaxAuthors
	}
	if maxAuthors < 0 {
		exitWithError(ExitError, "max-authors must be non-negative, got %d", maxAuthors)
	}

	table, err := loadAbbrevTable(cfg)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	res, err := clean.Run(clean.Options{
		InputPath:  args[0],
		OutputPath: outputPath,
		MaxAuthors: maxAuthors,
		Minimal:    minimal,
		ExtraNoise: cfg.MinimalFields,
		Manuscript: onlyCited,
		NoCap:      noCap,
		Abbrevs:    table,
	})
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	for _, w := range res.Warnings {
		outputWarning("%s", w)
	}

	if jsonOutput {
		return outputJSON(res)
	}
	outputHuman("Cleaned %d entries -> %s\n", res.Entries, res.OutputPath)
	if res.Dropped > 0 {
		outputHuman("  Dropped:     %d uncited entries\n", res.Dropped)
	}
	if res.Truncated > 0 {
		outputHuman("  Truncated:   %d author lists\n", res.Truncated)
	}
	if res.Abbreviated > 0 {
		outputHuman("  Abbreviated: %d journal names\n", res.Abbreviated)
	}
	if res.Months > 0 {
		outputHuman("  Months:      %d abbreviated\n", res.Months)
	}
	if res.FieldsRemoved > 0 {
		outputHuman("  Fields:      %d removed\n", res.FieldsRemoved)
	}
	return nil
}

// loadAbbrevTable builds the journal abbreviation table: the embedded
// default list, overlaid with the configured user list (served from the
// SQLite cache when fresh).
func loadAbbrevTable(cfg *config.Config) (*abbrev.Table, error) {
	table, err := abbrev.Default()
	if err != nil {
		return nil, err
	}

	if cfg.AbbrevList == "" {
		return table, nil
	}

	cachePath, err := config.CachePath()
	if err != nil {
		return nil, err
	}
	user, err := abbrev.LoadCached(cfg.AbbrevList, cachePath)
	if err != nil {
		return nil, err
	}
	return table.Merge(user), nil
}

// exitCodeFor maps an error to an exit code: malformed input is a data
// error, everything else (missing files, write failures) is general.
func exitCodeFor(err error) int {
	var parseErr *bibtex.ParseError
	if errors.As(err, &parseErr) {
		return ExitDataError
	}
	return ExitError
}
