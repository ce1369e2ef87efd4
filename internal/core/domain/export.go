package domain

import "strings"

type ExportFormat string

const (
	ExportDOCX ExportFormat = "docx"
	ExportXLSX ExportFormat = "xlsx"
)

func ParseExportFormat(raw string) (ExportFormat, bool) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportDOCX:
		return ExportDOCX, true
	case ExportXLSX:
		return ExportXLSX, true
	default:
		return "", false
	}
}

func (f ExportFormat) ContentType() string {
	switch f {
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
}

// RenderRequest carries a job result to a document renderer. For translations
// OriginalText is set when the original should be included.
type RenderRequest struct {
	Title          string
	Task           Task
	Text           string
	OriginalText   string
	Items          []ListItem
	IncludeChanges bool
	Model          string
}

type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
