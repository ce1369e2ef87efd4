package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/kirillkom/docproof/internal/core/domain"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const (
	documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	documentFooter = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>` +
		`</w:sectPr></w:body></w:document>`
)

// Renderer writes a minimal WordprocessingML package: headings, paragraphs
// and the change list. Formatting beyond bold and font size is not kept.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Format() domain.ExportFormat {
	return domain.ExportDOCX
}

func (r *Renderer) Render(_ context.Context, req domain.RenderRequest) ([]byte, error) {
	var body bytes.Buffer
	body.WriteString(documentHeader)

	if req.Title != "" {
		writeParagraph(&body, req.Title, runStyle{bold: true, size: 32})
	}

	if req.Task == domain.TaskTranslate && req.OriginalText != "" {
		writeParagraph(&body, "Original", runStyle{bold: true, size: 28})
		writeText(&body, req.OriginalText)
		writeParagraph(&body, "Translation", runStyle{bold: true, size: 28})
	}
	writeText(&body, req.Text)

	if req.IncludeChanges && domain.CountDetails(req.Items) > 0 {
		heading := "Changes"
		if req.Task == domain.TaskTranslate {
			heading = "Notes"
		}
		writeParagraph(&body, heading, runStyle{bold: true, size: 28})
		for _, item := range req.Items {
			if item.IsCategory {
				writeParagraph(&body, item.Text, runStyle{bold: true})
				continue
			}
			writeParagraph(&body, "• "+item.Text, runStyle{})
		}
	}

	if req.Model != "" {
		writeParagraph(&body, "Processed with "+req.Model, runStyle{italic: true, size: 18})
	}
	body.WriteString(documentFooter)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(contentTypes)},
		{"_rels/.rels", []byte(packageRels)},
		{"word/document.xml", body.Bytes()},
	}
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := w.Write(part.data); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx archive: %w", err)
	}
	return out.Bytes(), nil
}

type runStyle struct {
	bold   bool
	italic bool
	// size is in half-points; zero keeps the default.
	size int
}

// writeText writes one paragraph per blank-line separated block. Single
// newlines inside a block become line breaks.
func writeText(buf *bytes.Buffer, text string) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	for _, block := range strings.Split(normalized, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}
		writeParagraph(buf, block, runStyle{})
	}
}

func writeParagraph(buf *bytes.Buffer, text string, style runStyle) {
	buf.WriteString("<w:p><w:r>")
	if style.bold || style.italic || style.size > 0 {
		buf.WriteString("<w:rPr>")
		if style.bold {
			buf.WriteString("<w:b/>")
		}
		if style.italic {
			buf.WriteString("<w:i/>")
		}
		if style.size > 0 {
			fmt.Fprintf(buf, `<w:sz w:val="%d"/>`, style.size)
		}
		buf.WriteString("</w:rPr>")
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			buf.WriteString("<w:br/>")
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		_ = xml.EscapeText(buf, []byte(line))
		buf.WriteString("</w:t>")
	}
	buf.WriteString("</w:r></w:p>")
}
