package ports

import (
	"context"
	"io"

	"github.com/kirillkom/docproof/internal/core/domain"
)

// DocumentRepository persists uploaded documents and their extracted text.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// JobRepository persists job state and results.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	UpdateStatus(ctx context.Context, id string, status domain.JobStatus, errMessage string) error
	UpdateProgress(ctx context.Context, id string, done, total int) error
	SaveResult(ctx context.Context, id string, text string, items []domain.ListItem, usedModel string) error
}

// CredentialStore persists provider API keys per user.
type CredentialStore interface {
	Load(ctx context.Context, userID string) (domain.ProviderCredentials, error)
	Save(ctx context.Context, userID string, provider domain.Provider, credential string) error
	Delete(ctx context.Context, userID string, provider domain.Provider) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// JobQueue publishes and consumes job events.
type JobQueue interface {
	PublishJobSubmitted(ctx context.Context, jobID string) error
	SubscribeJobSubmitted(ctx context.Context, handler func(context.Context, string) error) error
	PublishJobCancelled(ctx context.Context, jobID string) error
	SubscribeJobCancelled(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from an uploaded file.
type TextExtractor interface {
	Extract(ctx context.Context, filename, mimeType string, data []byte) (string, error)
}

// DocumentRenderer renders a job result into a file.
type DocumentRenderer interface {
	Format() domain.ExportFormat
	Render(ctx context.Context, req domain.RenderRequest) ([]byte, error)
}

// ProviderClient performs one completion call against a single LLM vendor.
type ProviderClient interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (domain.AIResponse, error)
}

// AIRouter picks the provider for a model and applies the fallback policy.
type AIRouter interface {
	Call(ctx context.Context, req domain.RouteRequest) (domain.AIResponse, error)
}

// ChunkProcessor runs all chunks of a job through the router in order.
type ChunkProcessor interface {
	ProcessChunks(ctx context.Context, job domain.ChunkJob, onProgress domain.ProgressFunc) (domain.ChunkOutcome, error)
}

// SessionVerifier resolves a bearer token to a user id.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Chunker splits document text on paragraph boundaries and merges it back.
type Chunker interface {
	NeedsChunking(text string) bool
	Split(text string) []domain.TextChunk
	Merge(chunks []domain.TextChunk) string
}

// PromptBuilder renders the prompts and system message of a job.
type PromptBuilder interface {
	ForTask(job domain.ChunkJob, text string) string
	WithChunkNotice(prompt string, index, total int) string
	SystemMessage(task domain.Task, glossary []domain.GlossaryEntry) string
}
