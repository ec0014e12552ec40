package cite

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDFText extracts plain text from every page of a PDF.
// Pages whose text cannot be decoded are skipped rather than failing
// the whole manuscript.
func extractPDFText(filePath string) (string, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}
