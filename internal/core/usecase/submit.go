package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/core/ports"
)

type JobUseCase struct {
	jobs   ports.JobRepository
	docs   ports.DocumentRepository
	creds  ports.CredentialStore
	queue  ports.JobQueue
	logger *slog.Logger
}

func NewJobUseCase(
	jobs ports.JobRepository,
	docs ports.DocumentRepository,
	creds ports.CredentialStore,
	queue ports.JobQueue,
	logger *slog.Logger,
) *JobUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &JobUseCase{
		jobs:   jobs,
		docs:   docs,
		creds:  creds,
		queue:  queue,
		logger: logger,
	}
}

// Submit validates a request, checks that the right provider key is stored
// and queues the job for a worker.
func (uc *JobUseCase) Submit(ctx context.Context, req domain.JobRequest) (*domain.Job, error) {
	job, err := uc.buildJob(req)
	if err != nil {
		return nil, err
	}

	doc, err := uc.docs.GetByID(ctx, job.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	if doc.UserID != job.UserID {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "submit job", errors.New("document belongs to another user"))
	}

	if err := uc.checkCredential(ctx, job.UserID, job.Model); err != nil {
		return nil, err
	}

	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if err := uc.queue.PublishJobSubmitted(ctx, job.ID); err != nil {
		if markErr := uc.jobs.UpdateStatus(ctx, job.ID, domain.JobFailed, "could not queue job"); markErr != nil {
			uc.logger.Error("job_mark_failed_error", "job_id", job.ID, "error", markErr)
		}
		return nil, fmt.Errorf("publish job event: %w", err)
	}

	uc.logger.Info("job_submitted",
		"job_id", job.ID,
		"document_id", job.DocumentID,
		"task", job.Task,
		"model", job.Model,
		"chars", doc.Stats.CharCount,
	)
	return job, nil
}

func (uc *JobUseCase) buildJob(req domain.JobRequest) (*domain.Job, error) {
	invalid := func(format string, args ...any) error {
		return domain.WrapError(domain.ErrInvalidInput, "submit job", fmt.Errorf(format, args...))
	}

	if strings.TrimSpace(req.DocumentID) == "" {
		return nil, invalid("document_id is required")
	}
	task := req.Task
	if task == "" {
		task = domain.TaskEdit
	}
	if !task.Valid() {
		return nil, invalid("unknown task %q", req.Task)
	}

	ref := domain.ClassifyModel(req.Model)
	if !ref.Known() {
		return nil, domain.WrapError(domain.ErrUnknownModel, "submit job", fmt.Errorf("model %q is not supported", req.Model))
	}

	glossary, err := domain.ParseGlossary(req.Glossary)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		DocumentID:     strings.TrimSpace(req.DocumentID),
		Task:           task,
		Model:          ref.Name,
		Glossary:       glossary,
		IncludeChanges: req.IncludeChanges,
		Status:         domain.JobQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	switch task {
	case domain.TaskEdit:
		job.Mode = req.Mode
		if job.Mode == "" {
			job.Mode = domain.EditModeStandard
		}
		if !job.Mode.Valid() {
			return nil, invalid("unknown edit mode %q", req.Mode)
		}
	case domain.TaskTranslate:
		job.Style = req.Style
		if job.Style == "" {
			job.Style = domain.StyleStandard
		}
		if !job.Style.Valid() {
			return nil, invalid("unknown translation style %q", req.Style)
		}
		job.SourceLang = strings.TrimSpace(req.SourceLang)
		job.TargetLang = strings.TrimSpace(req.TargetLang)
		if job.TargetLang == "" {
			return nil, invalid("target_lang is required for translations")
		}
		if job.SourceLang == "" {
			return nil, invalid("source_lang is required for translations")
		}
		job.IncludeOriginal = req.IncludeOriginal
	}
	return job, nil
}

func (uc *JobUseCase) checkCredential(ctx context.Context, userID, model string) error {
	creds, err := uc.creds.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	ref := domain.ClassifyModel(model)
	if !creds.Has(ref.Provider) {
		return domain.WrapError(domain.ErrMissingCredential, "submit job", fmt.Errorf("no %s API key configured", ref.Provider))
	}
	return nil
}

func (uc *JobUseCase) GetJob(ctx context.Context, userID, id string) (*domain.Job, error) {
	job, err := uc.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.UserID != userID {
		return nil, domain.WrapError(domain.ErrJobNotFound, "get job", errors.New("job belongs to another user"))
	}
	return job, nil
}

// Cancel marks an unfinished job cancelled and tells the workers to stop it.
// Finished jobs are returned unchanged.
func (uc *JobUseCase) Cancel(ctx context.Context, userID, id string) (*domain.Job, error) {
	job, err := uc.GetJob(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		return job, nil
	}

	if err := uc.jobs.UpdateStatus(ctx, job.ID, domain.JobCancelled, ""); err != nil {
		return nil, fmt.Errorf("set status=cancelled: %w", err)
	}
	job.Status = domain.JobCancelled

	if err := uc.queue.PublishJobCancelled(ctx, job.ID); err != nil {
		// The job row is already cancelled; a worker that misses the event
		// still stops at its next status check.
		uc.logger.Warn("job_cancel_publish_failed", "job_id", job.ID, "error", err)
	}
	uc.logger.Info("job_cancelled", "job_id", job.ID)
	return job, nil
}
