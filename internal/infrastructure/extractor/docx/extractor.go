package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/docproof/internal/core/domain"
)

const (
	documentPart = "word/document.xml"
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

	// maxDocumentPart caps the decompressed size of word/document.xml.
	maxDocumentPart = 64 << 20
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text of every non-empty paragraph in the main document
// part, separated by blank lines.
func (e *Extractor) Extract(ctx context.Context, filename, _ string, data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &domain.ExtractionError{Code: domain.ExtractionFormat, Details: "not a docx archive: " + filename, Err: err}
	}

	var part *zip.File
	for _, f := range archive.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return "", &domain.ExtractionError{Code: domain.ExtractionFormat, Details: "missing " + documentPart}
	}

	rc, err := part.Open()
	if err != nil {
		return "", &domain.ExtractionError{Code: domain.ExtractionFileRead, Details: "open " + documentPart, Err: err}
	}
	defer rc.Close()

	paragraphs, err := readParagraphs(ctx, io.LimitReader(rc, maxDocumentPart))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &domain.ExtractionError{Code: domain.ExtractionFormat, Details: "malformed " + documentPart, Err: err}
	}
	return strings.Join(paragraphs, "\n\n"), nil
}

func readParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)
	var (
		paragraphs []string
		current    strings.Builder
		inText     bool
		depth      int
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				depth++
				if depth == 1 {
					current.Reset()
				}
			case "t":
				inText = true
			case "tab":
				current.WriteByte('\t')
			case "br", "cr":
				current.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				depth--
				if depth == 0 {
					if text := strings.TrimSpace(current.String()); text != "" {
						paragraphs = append(paragraphs, text)
					}
					if err := ctx.Err(); err != nil {
						return nil, err
					}
				}
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unterminated paragraph")
	}
	return paragraphs, nil
}
