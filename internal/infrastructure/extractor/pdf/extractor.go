package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/docproof/internal/core/domain"
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the plain text of every page, pages separated by blank
// lines. Scanned PDFs without a text layer yield a format error.
func (e *Extractor) Extract(ctx context.Context, filename, _ string, data []byte) (text string, err error) {
	// The PDF reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &domain.ExtractionError{Code: domain.ExtractionFormat, Details: "malformed pdf: " + filename, Err: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &domain.ExtractionError{Code: domain.ExtractionFormat, Details: "not a pdf: " + filename, Err: err}
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", &domain.ExtractionError{Code: domain.ExtractionProcessing, Details: fmt.Sprintf("read page %d", i), Err: err}
		}
		if content = strings.TrimSpace(content); content != "" {
			pages = append(pages, content)
		}
	}
	if len(pages) == 0 {
		return "", &domain.ExtractionError{Code: domain.ExtractionFormat, Details: "pdf has no text layer"}
	}
	return strings.Join(pages, "\n\n"), nil
}
