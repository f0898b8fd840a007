// Package pdfextract pulls plain text out of PDF documents.
package pdfextract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"

	"github.com/licitia/tdranalyzer/internal/domain"
)

// Extractor extracts the full text of a PDF held in memory. Document bytes
// are owned by the caller and are only read.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// ExtractText returns the concatenated text of every page, each prefixed
// with a page marker. It fails with a content error when the document is
// corrupt or carries no extractable text (typically a scanned PDF).
func (e *Extractor) ExtractText(data []byte) (text string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.NewDomainErrorWithCause(domain.ErrCodeContent,
				"file is not a valid PDF or is corrupted", fmt.Errorf("pdf parser panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeContent, "file is not a valid PDF or is corrupted", err)
	}

	var sb strings.Builder
	hasText := false
	numPages := reader.NumPage()
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		if strings.TrimSpace(text) != "" {
			hasText = true
		}

		fmt.Fprintf(&sb, "\n--- Página %d ---\n%s\n", pageNum, text)
	}

	if !hasText {
		return "", domain.ErrNoExtractableText
	}

	return strings.TrimSpace(sb.String()), nil
}
