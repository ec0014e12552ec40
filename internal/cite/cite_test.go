package cite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCitedKeys(t *testing.T) {
	text := `We follow \cite{smith2020} and the approach of
\citep{doe2019,roe2021}. See also smith2020 for details.`

	keys := []string{"smith2020", "doe2019", "roe2021", "unused2018", ""}
	cited := CitedKeys(text, keys)

	for _, key := range []string{"smith2020", "doe2019", "roe2021"} {
		if !cited[key] {
			t.Errorf("key %q should be cited", key)
		}
	}
	if cited["unused2018"] {
		t.Error("key unused2018 should not be cited")
	}
	if cited[""] {
		t.Error("empty key should never match")
	}
}

func TestCitedKeys_PlainTextualMatch(t *testing.T) {
	// The match is substring-based: a key mentioned in prose counts.
	cited := CitedKeys("as shown by smith2020 previously", []string{"smith2020"})
	if !cited["smith2020"] {
		t.Error("prose mention should count as cited")
	}
}

func TestManuscriptText_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paper.tex")
	content := `\documentclass{article}\begin{document}\cite{key1}\end{document}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing manuscript: %v", err)
	}

	text, err := ManuscriptText(path)
	if err != nil {
		t.Fatalf("ManuscriptText() error = %v", err)
	}
	if text != content {
		t.Errorf("ManuscriptText() = %q, want %q", text, content)
	}
}

func TestManuscriptText_Missing(t *testing.T) {
	_, err := ManuscriptText(filepath.Join(t.TempDir(), "absent.tex"))
	if err == nil {
		t.Fatal("ManuscriptText() succeeded for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v does not wrap os.ErrNotExist", err)
	}
}

func TestManuscriptText_MissingPDF(t *testing.T) {
	_, err := ManuscriptText(filepath.Join(t.TempDir(), "absent.pdf"))
	if err == nil {
		t.Fatal("ManuscriptText() succeeded for missing PDF")
	}
}
