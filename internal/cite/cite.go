// Package cite determines which citation keys a manuscript actually
// uses, so uncited bibliography entries can be dropped.
package cite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ManuscriptText returns the searchable text of a manuscript. LaTeX,
// Markdown, and plain-text sources are read as-is; PDF manuscripts are
// converted to text first.
func ManuscriptText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := extractPDFText(path)
		if err != nil {
			return "", fmt.Errorf("extracting manuscript text from %s: %w", path, err)
		}
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading manuscript: %w", err)
	}
	return string(data), nil
}

// CitedKeys reports which of the given keys occur textually in the
// manuscript. The match is a plain substring search: any occurrence of
// the key counts, whether inside \cite{...} or prose.
func CitedKeys(text string, keys []string) map[string]bool {
	cited := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key != "" && strings.Contains(text, key) {
			cited[key] = true
		}
	}
	return cited
}
