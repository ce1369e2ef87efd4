package httpadapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/kirillkom/docproof/internal/config"
	"github.com/kirillkom/docproof/internal/core/domain"
)

const testToken = "tok-alice"

type verifierFake struct{}

func (verifierFake) Verify(_ context.Context, token string) (string, error) {
	if token == testToken {
		return "alice", nil
	}
	return "", domain.WrapError(domain.ErrUnauthorized, "verify", errors.New("unknown token"))
}

type documentsFake struct {
	gotUser     string
	gotFilename string
	gotBody     string
	doc         *domain.Document
	err         error
}

func (f *documentsFake) Upload(_ context.Context, userID, filename, _ string, body io.Reader) (*domain.Document, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	f.gotUser, f.gotFilename, f.gotBody = userID, filename, string(raw)
	if f.err != nil {
		return nil, f.err
	}
	if f.doc != nil {
		return f.doc, nil
	}
	return &domain.Document{
		ID:        "doc-1",
		UserID:    userID,
		Filename:  filename,
		Stats:     domain.ComputeStats(string(raw)),
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (f *documentsFake) GetDocument(_ context.Context, userID, id string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if id != "doc-1" || userID != "alice" {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("id="+id))
	}
	return &domain.Document{ID: id, UserID: userID, Filename: "report.docx"}, nil
}

func (f *documentsFake) ComputeStats(text string) domain.DocumentStats {
	return domain.ComputeStats(text)
}

type jobsFake struct {
	got       domain.JobRequest
	job       *domain.Job
	err       error
	cancelled string
}

func (f *jobsFake) Submit(_ context.Context, req domain.JobRequest) (*domain.Job, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Job{ID: "job-1", UserID: req.UserID, DocumentID: req.DocumentID, Task: req.Task, Model: req.Model, Status: domain.JobQueued}, nil
}

func (f *jobsFake) GetJob(_ context.Context, _, id string) (*domain.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.job == nil || f.job.ID != id {
		return nil, domain.WrapError(domain.ErrJobNotFound, "get job", errors.New("id="+id))
	}
	return f.job, nil
}

func (f *jobsFake) Cancel(ctx context.Context, userID, id string) (*domain.Job, error) {
	job, err := f.GetJob(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	f.cancelled = id
	job.Status = domain.JobCancelled
	return job, nil
}

type credentialsFake struct {
	saved   map[domain.Provider]string
	saveErr error
}

func (f *credentialsFake) Save(_ context.Context, _ string, provider domain.Provider, credential string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = make(map[domain.Provider]string)
	}
	f.saved[provider] = credential
	return nil
}

func (f *credentialsFake) Delete(_ context.Context, _ string, provider domain.Provider) error {
	delete(f.saved, provider)
	return nil
}

func (f *credentialsFake) Status(context.Context, string) (domain.CredentialStatus, error) {
	return domain.CredentialStatus{
		OpenAI: f.saved[domain.ProviderOpenAI] != "",
		Claude: f.saved[domain.ProviderClaude] != "",
	}, nil
}

type exporterFake struct {
	gotFormat domain.ExportFormat
	err       error
}

func (f *exporterFake) Export(_ context.Context, _, _ string, format domain.ExportFormat) (*domain.ExportFile, error) {
	f.gotFormat = format
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ExportFile{
		Filename:    "report_edited." + string(format),
		ContentType: format.ContentType(),
		Data:        []byte("PK-data"),
	}, nil
}

type routerFixture struct {
	documents   *documentsFake
	jobs        *jobsFake
	credentials *credentialsFake
	exporter    *exporterFake
}

func newRouterFixture() *routerFixture {
	return &routerFixture{
		documents:   &documentsFake{},
		jobs:        &jobsFake{},
		credentials: &credentialsFake{},
		exporter:    &exporterFake{},
	}
}

func (f *routerFixture) handler(cfg config.Config) http.Handler {
	return NewRouter(cfg, Dependencies{
		Documents:   f.documents,
		Reader:      f.documents,
		Jobs:        f.jobs,
		Credentials: f.credentials,
		Exporter:    f.exporter,
		Verifier:    verifierFake{},
	}).Handler()
}

func authorize(r *http.Request) *http.Request {
	r.Header.Set("Authorization", "Bearer "+testToken)
	return r
}
