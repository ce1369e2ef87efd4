package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/docproof/internal/core/domain"
)

type rendererFake struct {
	format domain.ExportFormat
	got    domain.RenderRequest
	err    error
}

func (f *rendererFake) Format() domain.ExportFormat { return f.format }

func (f *rendererFake) Render(_ context.Context, req domain.RenderRequest) ([]byte, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return []byte("rendered"), nil
}

func newExportFixture(job *domain.Job) (*ExportUseCase, *rendererFake, *rendererFake) {
	docs := &docRepoFake{docs: map[string]*domain.Document{
		"doc-1": {ID: "doc-1", UserID: "user-1", Filename: "Annual Report.docx", Text: "Original text"},
	}}
	docx := &rendererFake{format: domain.ExportDOCX}
	xlsx := &rendererFake{format: domain.ExportXLSX}
	return NewExportUseCase(newJobRepoFake(job), docs, docx, xlsx), docx, xlsx
}

func completedJob(task domain.Task) *domain.Job {
	return &domain.Job{
		ID:              "job-1",
		UserID:          "user-1",
		DocumentID:      "doc-1",
		Task:            task,
		Status:          domain.JobCompleted,
		ResultText:      "Edited text",
		Items:           []domain.ListItem{domain.CategoryItem("Grammar"), domain.DetailItem("fixed")},
		IncludeChanges:  true,
		IncludeOriginal: true,
		UsedModel:       "gpt-4o",
	}
}

func TestExportDocxForEditJob(t *testing.T) {
	uc, docx, _ := newExportFixture(completedJob(domain.TaskEdit))

	file, err := uc.Export(context.Background(), "user-1", "job-1", domain.ExportDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Filename != "Annual_Report_edited.docx" {
		t.Fatalf("unexpected filename: %q", file.Filename)
	}
	if file.ContentType != domain.ExportDOCX.ContentType() || string(file.Data) != "rendered" {
		t.Fatalf("unexpected file: %+v", file)
	}
	if docx.got.Title != "Annual Report" || docx.got.Text != "Edited text" || !docx.got.IncludeChanges {
		t.Fatalf("unexpected render request: %+v", docx.got)
	}
	if docx.got.OriginalText != "" {
		t.Fatal("expected no original text for edit jobs")
	}
}

func TestExportTranslationIncludesOriginal(t *testing.T) {
	uc, docx, _ := newExportFixture(completedJob(domain.TaskTranslate))

	file, err := uc.Export(context.Background(), "user-1", "job-1", domain.ExportDOCX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Filename != "Annual_Report_translated.docx" {
		t.Fatalf("unexpected filename: %q", file.Filename)
	}
	if docx.got.OriginalText != "Original text" {
		t.Fatalf("expected original text, got %q", docx.got.OriginalText)
	}
}

func TestExportXlsxFilename(t *testing.T) {
	uc, _, xlsx := newExportFixture(completedJob(domain.TaskTranslate))

	file, err := uc.Export(context.Background(), "user-1", "job-1", domain.ExportXLSX)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Filename != "Annual_Report_notes.xlsx" {
		t.Fatalf("unexpected filename: %q", file.Filename)
	}
	if len(xlsx.got.Items) != 2 {
		t.Fatalf("expected items to reach the renderer, got %+v", xlsx.got.Items)
	}
}

func TestExportRejects(t *testing.T) {
	running := completedJob(domain.TaskEdit)
	running.Status = domain.JobProcessing

	cases := []struct {
		name   string
		job    *domain.Job
		userID string
		format domain.ExportFormat
		kind   error
	}{
		{"unsupported format", completedJob(domain.TaskEdit), "user-1", "pdf", domain.ErrInvalidInput},
		{"foreign job", completedJob(domain.TaskEdit), "user-2", domain.ExportDOCX, domain.ErrJobNotFound},
		{"unfinished job", running, "user-1", domain.ExportDOCX, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc, _, _ := newExportFixture(tc.job)
			_, err := uc.Export(context.Background(), tc.userID, "job-1", tc.format)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("expected %v, got %v", tc.kind, err)
			}
		})
	}
}

func TestExportPropagatesRenderError(t *testing.T) {
	uc, docx, _ := newExportFixture(completedJob(domain.TaskEdit))
	docx.err = errors.New("zip failure")

	if _, err := uc.Export(context.Background(), "user-1", "job-1", domain.ExportDOCX); err == nil {
		t.Fatal("expected render error")
	}
}
