package usecase

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/kirillkom/docproof/internal/core/domain"
	"github.com/kirillkom/docproof/internal/core/ports"
)

// DefaultChunkPause is the delay between consecutive chunk calls.
const DefaultChunkPause = time.Second

// ChunkObserver receives one observation per processed chunk.
type ChunkObserver interface {
	ObserveChunk(outcome, parseTier string, duration time.Duration)
}

// ChunkOrchestrator sends chunks to the router strictly one after another.
// A single instance may serve concurrent jobs; per-job state lives on the
// stack of ProcessChunks.
type ChunkOrchestrator struct {
	router   ports.AIRouter
	prompts  ports.PromptBuilder
	pause    time.Duration
	observer ChunkObserver
	logger   *slog.Logger
}

func NewChunkOrchestrator(router ports.AIRouter, prompts ports.PromptBuilder, pause time.Duration, logger *slog.Logger) *ChunkOrchestrator {
	if pause < 0 {
		pause = DefaultChunkPause
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChunkOrchestrator{
		router:  router,
		prompts: prompts,
		pause:   pause,
		logger:  logger,
	}
}

func (o *ChunkOrchestrator) WithObserver(observer ChunkObserver) *ChunkOrchestrator {
	o.observer = observer
	return o
}

// ProcessChunks runs every chunk through the router in index order. The first
// failing chunk aborts the job with a *domain.ChunkError and discards the
// chunks completed so far. Cancelling ctx aborts with ctx.Err().
func (o *ChunkOrchestrator) ProcessChunks(ctx context.Context, job domain.ChunkJob, onProgress domain.ProgressFunc) (domain.ChunkOutcome, error) {
	chunks := make([]domain.TextChunk, len(job.Chunks))
	copy(chunks, job.Chunks)
	sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].Index < chunks[j].Index })

	total := len(chunks)
	processed := make([]domain.TextChunk, 0, total)
	lists := make([][]domain.ListItem, 0, total)
	var models []string

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return domain.ChunkOutcome{}, err
		}

		resp, err := o.processOne(ctx, job, chunk, i, total)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return domain.ChunkOutcome{}, ctxErr
			}
			o.logger.Error("chunk_failed", "position", i+1, "total", total, "model", job.Model, "error", err)
			return domain.ChunkOutcome{}, &domain.ChunkError{Position: i + 1, Total: total, Err: err}
		}

		text := resp.Text
		if resp.Empty {
			text = chunk.Text
		}
		processed = append(processed, domain.TextChunk{Text: text, Index: chunk.Index})
		lists = append(lists, resp.Changes)
		models = appendUnique(models, resp.Model)

		if onProgress != nil {
			onProgress(i+1, total)
		}

		if i < total-1 {
			if err := o.wait(ctx); err != nil {
				return domain.ChunkOutcome{}, err
			}
		}
	}

	return domain.ChunkOutcome{
		ProcessedChunks: processed,
		ChangeLists:     lists,
		UsedModel:       strings.Join(models, ", "),
	}, nil
}

func (o *ChunkOrchestrator) processOne(ctx context.Context, job domain.ChunkJob, chunk domain.TextChunk, position, total int) (domain.AIResponse, error) {
	started := time.Now()
	prompt := o.prompts.WithChunkNotice(o.prompts.ForTask(job, chunk.Text), position, total)

	resp, err := o.router.Call(ctx, domain.RouteRequest{
		Prompt:        prompt,
		SystemMessage: job.SystemMessage,
		Model:         job.Model,
		Credentials:   job.Credentials,
		Task:          job.Task,
		Glossary:      job.Glossary,
	})
	duration := time.Since(started)
	if err != nil {
		o.observe("error", "", duration)
		return domain.AIResponse{}, err
	}

	outcome := "success"
	if resp.Empty {
		outcome = "empty"
		o.logger.Warn("chunk_empty_response", "position", position+1, "total", total, "model", resp.Model)
	}
	o.observe(outcome, resp.ParseTier, duration)
	o.logger.Info("chunk_completed",
		"position", position+1,
		"total", total,
		"model", resp.Model,
		"parse_tier", resp.ParseTier,
		"items", domain.CountDetails(resp.Changes),
		"duration_ms", float64(duration.Microseconds())/1000.0,
	)
	return resp, nil
}

func (o *ChunkOrchestrator) wait(ctx context.Context) error {
	if o.pause <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(o.pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (o *ChunkOrchestrator) observe(outcome, parseTier string, duration time.Duration) {
	if o.observer != nil {
		o.observer.ObserveChunk(outcome, parseTier, duration)
	}
}

func appendUnique(values []string, value string) []string {
	if value == "" {
		return values
	}
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}

// FlattenChangeLists concatenates per-chunk lists without merging categories.
func FlattenChangeLists(lists [][]domain.ListItem) []domain.ListItem {
	out := make([]domain.ListItem, 0)
	for _, list := range lists {
		out = append(out, list...)
	}
	return out
}
