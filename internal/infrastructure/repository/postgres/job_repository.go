package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/docproof/internal/core/domain"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	glossaryJSON, err := json.Marshal(nonNilGlossary(job.Glossary))
	if err != nil {
		return fmt.Errorf("marshal glossary: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO jobs (
	id, user_id, document_id, task, mode, style, source_lang, target_lang, model, glossary,
	include_changes, include_original, status, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
`,
		job.ID, job.UserID, job.DocumentID, string(job.Task), string(job.Mode), string(job.Style),
		job.SourceLang, job.TargetLang, job.Model, glossaryJSON,
		job.IncludeChanges, job.IncludeOriginal, string(job.Status), job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, user_id, document_id, task, mode, style, source_lang, target_lang, model, glossary,
	include_changes, include_original, status, progress_done, progress_total,
	result_text, items, used_model, error_message, created_at, updated_at
FROM jobs
WHERE id = $1
`, id)

	var (
		job                       domain.Job
		task, mode, style, status string
		glossaryRaw, itemsRaw     []byte
	)
	err := row.Scan(
		&job.ID, &job.UserID, &job.DocumentID, &task, &mode, &style, &job.SourceLang, &job.TargetLang,
		&job.Model, &glossaryRaw, &job.IncludeChanges, &job.IncludeOriginal, &status,
		&job.ProgressDone, &job.ProgressTotal, &job.ResultText, &itemsRaw, &job.UsedModel,
		&job.Error, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrJobNotFound, "get job", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}

	if err := json.Unmarshal(glossaryRaw, &job.Glossary); err != nil {
		return nil, fmt.Errorf("unmarshal glossary: %w", err)
	}
	if err := json.Unmarshal(itemsRaw, &job.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	job.Task = domain.Task(task)
	job.Mode = domain.EditMode(mode)
	job.Style = domain.TranslationStyle(style)
	job.Status = domain.JobStatus(status)
	return &job, nil
}

// UpdateStatus never moves a cancelled job to another status. Such updates
// are dropped without error; a missing job is reported as ErrJobNotFound.
func (r *JobRepository) UpdateStatus(ctx context.Context, id string, status domain.JobStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1 AND status <> 'cancelled'
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job status rows affected: %w", err)
	}
	if rows == 0 {
		return r.ensureExists(ctx, id)
	}
	return nil
}

func (r *JobRepository) UpdateProgress(ctx context.Context, id string, done, total int) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET progress_done = $2, progress_total = $3, updated_at = $4
WHERE id = $1
`, id, done, total, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}
	return nil
}

func (r *JobRepository) SaveResult(ctx context.Context, id string, text string, items []domain.ListItem, usedModel string) error {
	if items == nil {
		items = []domain.ListItem{}
	}
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE jobs
SET result_text = $2, items = $3, used_model = $4, updated_at = $5
WHERE id = $1
`, id, text, itemsJSON, usedModel, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save job result: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save job result rows affected: %w", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrJobNotFound, "save job result", fmt.Errorf("id=%s", id))
	}
	return nil
}

func (r *JobRepository) ensureExists(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check job exists: %w", err)
	}
	if !exists {
		return domain.WrapError(domain.ErrJobNotFound, "update job status", fmt.Errorf("id=%s", id))
	}
	return nil
}

func nonNilGlossary(entries []domain.GlossaryEntry) []domain.GlossaryEntry {
	if entries == nil {
		return []domain.GlossaryEntry{}
	}
	return entries
}
