package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/docproof/internal/core/domain"
)

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractJoinsParagraphs(t *testing.T) {
	data := buildDocx(t,
		`<w:p><w:r><w:t>Hello </w:t></w:r><w:r><w:t>world</w:t></w:r></w:p>`+
			`<w:p></w:p>`+
			`<w:p><w:r><w:t>Line</w:t><w:br/><w:t>break</w:t><w:tab/><w:t>tab</w:t></w:r></w:p>`)

	text, err := NewExtractor().Extract(context.Background(), "a.docx", "", data)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	want := "Hello world\n\nLine\nbreak\ttab"
	if text != want {
		t.Fatalf("expected %q, got %q", want, text)
	}
}

func TestExtractRejectsNonArchive(t *testing.T) {
	_, err := NewExtractor().Extract(context.Background(), "a.docx", "", []byte("plain text"))
	var extractErr *domain.ExtractionError
	if !errors.As(err, &extractErr) || extractErr.Code != domain.ExtractionFormat {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestExtractRejectsMissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if _, err := zw.Create("other.xml"); err != nil {
		t.Fatalf("create part: %v", err)
	}
	_ = zw.Close()

	_, err := NewExtractor().Extract(context.Background(), "a.docx", "", buf.Bytes())
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestExtractRejectsMalformedXML(t *testing.T) {
	data := buildDocx(t, `<w:p><w:r><w:t>open`)
	_, err := NewExtractor().Extract(context.Background(), "a.docx", "", data)
	var extractErr *domain.ExtractionError
	if !errors.As(err, &extractErr) || extractErr.Code != domain.ExtractionFormat {
		t.Fatalf("expected format error, got %v", err)
	}
}
