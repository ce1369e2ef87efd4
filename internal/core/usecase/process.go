package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/core/ports"
)

// JobObserver receives the final status and duration of processed jobs and
// how long each job waited in the queue.
type JobObserver interface {
	ObserveJob(status domain.JobStatus, duration time.Duration)
	ObserveQueueLag(lag time.Duration)
}

type ProcessJobUseCase struct {
	jobs         ports.JobRepository
	docs         ports.DocumentRepository
	creds        ports.CredentialStore
	chunker      ports.Chunker
	prompts      ports.PromptBuilder
	orchestrator ports.ChunkProcessor
	observer     JobObserver
	logger       *slog.Logger

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

func NewProcessJobUseCase(
	jobs ports.JobRepository,
	docs ports.DocumentRepository,
	creds ports.CredentialStore,
	chunker ports.Chunker,
	prompts ports.PromptBuilder,
	orchestrator ports.ChunkProcessor,
	logger *slog.Logger,
) *ProcessJobUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessJobUseCase{
		jobs:         jobs,
		docs:         docs,
		creds:        creds,
		chunker:      chunker,
		prompts:      prompts,
		orchestrator: orchestrator,
		logger:       logger,
		running:      make(map[string]context.CancelFunc),
	}
}

func (uc *ProcessJobUseCase) WithObserver(observer JobObserver) *ProcessJobUseCase {
	uc.observer = observer
	return uc
}

// ProcessByID runs one queued job to completion. Jobs cancelled before they
// start are skipped.
func (uc *ProcessJobUseCase) ProcessByID(ctx context.Context, jobID string) error {
	started := time.Now()
	job, err := uc.jobs.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("fetch job by id: %w", err)
	}
	if job.Status.Terminal() {
		uc.logger.Info("job_skipped", "job_id", jobID, "status", job.Status)
		return nil
	}
	if uc.observer != nil && !job.CreatedAt.IsZero() {
		uc.observer.ObserveQueueLag(started.Sub(job.CreatedAt))
	}

	if err := uc.markStatus(ctx, jobID, domain.JobProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}
	uc.logger.Info("job_started", "job_id", jobID, "task", job.Task, "model", job.Model)

	jobCtx, cancel := context.WithCancel(ctx)
	uc.register(jobID, cancel)
	defer uc.unregister(jobID)

	result, err := uc.run(jobCtx, ctx, job)
	if err != nil {
		// The final status is written even when ctx ended with the process.
		persistCtx := context.WithoutCancel(ctx)
		if errors.Is(err, context.Canceled) && jobCtx.Err() != nil && ctx.Err() == nil {
			uc.logger.Info("job_cancelled", "job_id", jobID)
			uc.observe(domain.JobCancelled, started)
			return uc.markStatus(persistCtx, jobID, domain.JobCancelled, "")
		}
		uc.logger.Error("job_failed", "job_id", jobID, "error", err)
		uc.observe(domain.JobFailed, started)
		if failErr := uc.markFailed(persistCtx, jobID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.jobs.SaveResult(ctx, jobID, result.text, result.items, result.usedModel); err != nil {
		saveErr := fmt.Errorf("save job result: %w", err)
		if failErr := uc.markFailed(ctx, jobID, saveErr); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", saveErr, failErr)
		}
		return saveErr
	}
	if err := uc.markStatus(ctx, jobID, domain.JobCompleted, ""); err != nil {
		return fmt.Errorf("set status=completed: %w", err)
	}

	uc.observe(domain.JobCompleted, started)
	uc.logger.Info("job_completed",
		"job_id", jobID,
		"used_model", result.usedModel,
		"items", domain.CountDetails(result.items),
		"duration_ms", float64(time.Since(started).Microseconds())/1000.0,
	)
	return nil
}

// CancelRunning stops a job running in this process. It reports whether the
// job was found.
func (uc *ProcessJobUseCase) CancelRunning(jobID string) bool {
	uc.mu.Lock()
	cancel, ok := uc.running[jobID]
	uc.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

type jobResult struct {
	text      string
	items     []domain.ListItem
	usedModel string
}

// run does the work of a job. jobCtx is cancelled by CancelRunning; ctx is
// used for bookkeeping writes that must survive that cancellation.
func (uc *ProcessJobUseCase) run(jobCtx, ctx context.Context, job *domain.Job) (jobResult, error) {
	doc, err := uc.docs.GetByID(ctx, job.DocumentID)
	if err != nil {
		return jobResult{}, fmt.Errorf("fetch document: %w", err)
	}

	creds, err := uc.creds.Load(ctx, job.UserID)
	if err != nil {
		return jobResult{}, fmt.Errorf("load credentials: %w", err)
	}

	chunks := uc.split(doc.Text)
	if len(chunks) == 0 {
		return jobResult{}, domain.WrapError(domain.ErrInvalidInput, "split document", errors.New("document has no text"))
	}
	if err := uc.jobs.UpdateProgress(ctx, job.ID, 0, len(chunks)); err != nil {
		return jobResult{}, fmt.Errorf("reset progress: %w", err)
	}

	chunkJob := domain.ChunkJob{
		Chunks:        chunks,
		Credentials:   creds,
		Task:          job.Task,
		Mode:          job.Mode,
		Style:         job.Style,
		SourceLang:    job.SourceLang,
		TargetLang:    job.TargetLang,
		Model:         job.Model,
		SystemMessage: uc.prompts.SystemMessage(job.Task, job.Glossary),
		Glossary:      job.Glossary,
	}
	outcome, err := uc.orchestrator.ProcessChunks(jobCtx, chunkJob, func(done, total int) {
		uc.recordProgress(ctx, job.ID, done, total)
	})
	if err != nil {
		return jobResult{}, err
	}

	return jobResult{
		text:      uc.chunker.Merge(outcome.ProcessedChunks),
		items:     FlattenChangeLists(outcome.ChangeLists),
		usedModel: outcome.UsedModel,
	}, nil
}

// split sends short documents in one request and chunks the rest.
func (uc *ProcessJobUseCase) split(text string) []domain.TextChunk {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if !uc.chunker.NeedsChunking(trimmed) {
		return []domain.TextChunk{{Text: trimmed, Index: 0}}
	}
	return uc.chunker.Split(trimmed)
}

// recordProgress persists progress and stops the job when it was cancelled
// through the API but the cancel event did not reach this worker.
func (uc *ProcessJobUseCase) recordProgress(ctx context.Context, jobID string, done, total int) {
	if err := uc.jobs.UpdateProgress(ctx, jobID, done, total); err != nil {
		uc.logger.Warn("job_progress_update_failed", "job_id", jobID, "error", err)
	}
	if done == total {
		return
	}
	current, err := uc.jobs.GetByID(ctx, jobID)
	if err != nil {
		return
	}
	if current.Status == domain.JobCancelled {
		uc.CancelRunning(jobID)
	}
}

func (uc *ProcessJobUseCase) register(jobID string, cancel context.CancelFunc) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.running[jobID] = cancel
}

func (uc *ProcessJobUseCase) unregister(jobID string) {
	uc.mu.Lock()
	cancel, ok := uc.running[jobID]
	delete(uc.running, jobID)
	uc.mu.Unlock()
	if ok {
		cancel()
	}
}

func (uc *ProcessJobUseCase) markStatus(ctx context.Context, jobID string, status domain.JobStatus, errMessage string) error {
	return uc.jobs.UpdateStatus(ctx, jobID, status, errMessage)
}

func (uc *ProcessJobUseCase) markFailed(ctx context.Context, jobID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, jobID, domain.JobFailed, processErr.Error())
}

func (uc *ProcessJobUseCase) observe(status domain.JobStatus, started time.Time) {
	if uc.observer != nil {
		uc.observer.ObserveJob(status, time.Since(started))
	}
}
