package plaintext

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/docproof/internal/core/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract accepts UTF-8 text only. Line endings are normalised to "\n".
func (e *Extractor) Extract(_ context.Context, filename, _ string, data []byte) (string, error) {
	raw := bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(raw) {
		return "", &domain.ExtractionError{
			Code:    domain.ExtractionFormat,
			Details: "file is not valid UTF-8 text: " + filename,
		}
	}
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text), nil
}
