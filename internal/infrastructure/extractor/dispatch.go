package extractor

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/core/ports"
)

const (
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
	mimeZip  = "application/zip"
	extDOCX  = ".docx"
	extText  = ".txt"
	extMD    = ".md"
)

// Dispatcher picks an extractor from the detected content type, falling
// back to the file extension when detection is inconclusive.
type Dispatcher struct {
	docx  ports.TextExtractor
	pdf   ports.TextExtractor
	plain ports.TextExtractor
}

func NewDispatcher(docx, pdf, plain ports.TextExtractor) *Dispatcher {
	return &Dispatcher{docx: docx, pdf: pdf, plain: plain}
}

func (d *Dispatcher) Extract(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &domain.ExtractionError{Code: domain.ExtractionFileRead, Details: "file is empty"}
	}
	kind := Detect(filename, data)
	switch kind {
	case mimeDOCX:
		return d.docx.Extract(ctx, filename, kind, data)
	case mimePDF:
		return d.pdf.Extract(ctx, filename, kind, data)
	case mimeText:
		return d.plain.Extract(ctx, filename, kind, data)
	default:
		detail := "unsupported file type " + kind
		if mimeType != "" && mimeType != kind {
			detail += " (declared " + mimeType + ")"
		}
		return "", &domain.ExtractionError{Code: domain.ExtractionFormat, Details: detail}
	}
}

// Detect returns one of the supported MIME types, or the detected type when
// the content is not supported.
func Detect(filename string, data []byte) string {
	detected := mimetype.Detect(data)
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case detected.Is(mimeDOCX):
		return mimeDOCX
	case detected.Is(mimePDF):
		return mimePDF
	case detected.Is(mimeZip) && ext == extDOCX:
		// Some writers produce archives without the content-type hints
		// the detector looks for.
		return mimeDOCX
	}
	for m := detected; m != nil; m = m.Parent() {
		if m.Is(mimeText) {
			return mimeText
		}
	}
	if ext == extText || ext == extMD {
		return mimeText
	}
	return detected.String()
}
