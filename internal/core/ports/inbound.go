package ports

import (
	"context"
	"io"

	"github.com/kirillkom/docproof/internal/core/domain"
)

// DocumentUploader is the inbound contract for document upload.
type DocumentUploader interface {
	Upload(ctx context.Context, userID, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for uploaded documents.
type DocumentReader interface {
	GetDocument(ctx context.Context, userID, id string) (*domain.Document, error)
	ComputeStats(text string) domain.DocumentStats
}

// JobSubmitter accepts edit/translate jobs and controls their lifecycle.
type JobSubmitter interface {
	Submit(ctx context.Context, req domain.JobRequest) (*domain.Job, error)
	GetJob(ctx context.Context, userID, id string) (*domain.Job, error)
	Cancel(ctx context.Context, userID, id string) (*domain.Job, error)
}

// JobProcessor is the inbound contract for asynchronous job processing.
type JobProcessor interface {
	ProcessByID(ctx context.Context, jobID string) error
	CancelRunning(jobID string) bool
}

// CredentialManager manages the provider API keys of a user.
type CredentialManager interface {
	Save(ctx context.Context, userID string, provider domain.Provider, credential string) error
	Delete(ctx context.Context, userID string, provider domain.Provider) error
	Status(ctx context.Context, userID string) (domain.CredentialStatus, error)
}

// ResultExporter renders a finished job into a downloadable file.
type ResultExporter interface {
	Export(ctx context.Context, userID, jobID string, format domain.ExportFormat) (*domain.ExportFile, error)
}
