package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/core/ports"
)

type ExportUseCase struct {
	jobs      ports.JobRepository
	docs      ports.DocumentRepository
	renderers map[domain.ExportFormat]ports.DocumentRenderer
}

func NewExportUseCase(jobs ports.JobRepository, docs ports.DocumentRepository, renderers ...ports.DocumentRenderer) *ExportUseCase {
	byFormat := make(map[domain.ExportFormat]ports.DocumentRenderer, len(renderers))
	for _, renderer := range renderers {
		byFormat[renderer.Format()] = renderer
	}
	return &ExportUseCase{jobs: jobs, docs: docs, renderers: byFormat}
}

// Export renders a completed job. Jobs of other users look like missing jobs.
func (uc *ExportUseCase) Export(ctx context.Context, userID, jobID string, format domain.ExportFormat) (*domain.ExportFile, error) {
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, domain.WrapError(domain.ErrInvalidInput, "export", fmt.Errorf("unsupported format %q", format))
	}

	job, err := uc.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, domain.WrapError(domain.ErrJobNotFound, "export", errors.New("job belongs to another user"))
	}
	if job.Status != domain.JobCompleted {
		return nil, domain.WrapError(domain.ErrInvalidInput, "export", fmt.Errorf("job is %s, not completed", job.Status))
	}

	doc, err := uc.docs.GetByID(ctx, job.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}

	title := strings.TrimSuffix(filepath.Base(doc.Filename), filepath.Ext(doc.Filename))
	req := domain.RenderRequest{
		Title:          title,
		Task:           job.Task,
		Text:           job.ResultText,
		Items:          job.Items,
		IncludeChanges: job.IncludeChanges,
		Model:          job.UsedModel,
	}
	if job.Task == domain.TaskTranslate && job.IncludeOriginal {
		req.OriginalText = doc.Text
	}

	data, err := renderer.Render(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return &domain.ExportFile{
		Filename:    exportFilename(title, job.Task, format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func exportFilename(title string, task domain.Task, format domain.ExportFormat) string {
	base := sanitizeFilename(title)
	if base == "document.bin" {
		base = "document"
	}
	suffix := "edited"
	switch {
	case format == domain.ExportXLSX && task == domain.TaskTranslate:
		suffix = "notes"
	case format == domain.ExportXLSX:
		suffix = "changes"
	case task == domain.TaskTranslate:
		suffix = "translated"
	}
	return fmt.Sprintf("%s_%s.%s", base, suffix, format)
}
