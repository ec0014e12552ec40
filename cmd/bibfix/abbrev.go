package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bibtools/bibfix/internal/abbrev"
	"github.com/bibtools/bibfix/internal/config"
)

func init() {
	abbrevCmd.AddCommand(abbrevLookupCmd)
	abbrevCmd.AddCommand(abbrevListCmd)
	abbrevCmd.AddCommand(abbrevRebuildCmd)
	rootCmd.AddCommand(abbrevCmd)
}

var abbrevCmd = &cobra.Command{
	Use:   "abbrev",
	Short: "Inspect and maintain the journal abbreviation table",
}

var abbrevLookupCmd = &cobra.Command{
	Use:   "lookup <journal name>",
	Short: "Resolve a journal name to its abbreviation",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAbbrevLookup,
}

var abbrevListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known journal abbreviations",
	Args:  cobra.NoArgs,
	RunE:  runAbbrevList,
}

var abbrevRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the SQLite cache for the configured abbreviation list",
	Args:  cobra.NoArgs,
	RunE:  runAbbrevRebuild,
}

// LookupResponse is the JSON response for abbrev lookup.
type LookupResponse struct {
	Journal string `json:"journal"`
	Abbrev  string `json:"abbrev"`
	Found   bool   `json:"found"`
}

func runAbbrevLookup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	table, err := loadAbbrevTable(cfg)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	name := strings.Join(args, " ")
	abbr, found := table.Lookup(name)

	// Unknown journals exit with the same code in both output modes so
	// scripts can branch on the status regardless of --json.
	if jsonOutput {
		if err := outputJSON(LookupResponse{Journal: name, Abbrev: abbr, Found: found}); err != nil {
			return err
		}
		if code := lookupExitCode(found); code != ExitSuccess {
			os.Exit(code)
		}
		return nil
	}
	if !found {
		exitWithError(lookupExitCode(found), "no abbreviation found for %q", name)
	}
	outputHuman("%s\n", abbr)
	return nil
}

// lookupExitCode maps a lookup result to an exit code: an unknown
// journal is a data error.
func lookupExitCode(found bool) int {
	if found {
		return ExitSuccess
	}
	return ExitDataError
}

func runAbbrevList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	table, err := loadAbbrevTable(cfg)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	pairs := table.Pairs()
	if jsonOutput {
		type pairJSON struct {
			Full   string `json:"full"`
			Abbrev string `json:"abbrev"`
		}
		out := make([]pairJSON, len(pairs))
		for i, p := range pairs {
			out[i] = pairJSON{Full: p.Full, Abbrev: p.Abbrev}
		}
		return outputJSON(out)
	}

	for _, p := range pairs {
		outputHuman("%s -> %s\n", p.Full, p.Abbrev)
	}
	return nil
}

// RebuildResponse is the JSON response for abbrev rebuild.
type RebuildResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
	Cache   string `json:"cache"`
}

func runAbbrevRebuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if cfg.AbbrevList == "" {
		exitWithError(ExitConfigError, "no abbrev_list configured in %s", config.Path())
	}

	hash, err := abbrev.HashFile(cfg.AbbrevList)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	table, err := abbrev.LoadFile(cfg.AbbrevList)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	cachePath, err := config.CachePath()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	store, err := abbrev.OpenStore(cachePath)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}
	defer store.Close()

	if err := store.Rebuild(table, hash); err != nil {
		exitWithError(ExitError, "rebuilding cache: %v", err)
	}

	if jsonOutput {
		return outputJSON(RebuildResponse{Status: "rebuilt", Entries: table.Len(), Cache: cachePath})
	}
	outputHuman("Rebuilt abbreviation cache: %d entries -> %s\n", table.Len(), cachePath)
	return nil
}
