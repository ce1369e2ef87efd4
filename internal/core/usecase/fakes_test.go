package usecase

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/kirillkom/docproof/internal/core/domain"
)

type docRepoFake struct {
	docs      map[string]*domain.Document
	created   *domain.Document
	createErr error
}

func (f *docRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.created = &copyDoc
	if f.docs == nil {
		f.docs = make(map[string]*domain.Document)
	}
	f.docs[doc.ID] = &copyDoc
	return nil
}

func (f *docRepoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	copyDoc := *doc
	return &copyDoc, nil
}

type jobStatusCall struct {
	status domain.JobStatus
	errMsg string
}

type jobRepoFake struct {
	mu          sync.Mutex
	jobs        map[string]*domain.Job
	statusCalls []jobStatusCall
	progress    [][2]int
	createErr   error
	saveErr     error
	savedText   string
	savedItems  []domain.ListItem
	savedModel  string
}

func newJobRepoFake(jobs ...*domain.Job) *jobRepoFake {
	f := &jobRepoFake{jobs: make(map[string]*domain.Job)}
	for _, job := range jobs {
		f.jobs[job.ID] = job
	}
	return f
}

func (f *jobRepoFake) Create(_ context.Context, job *domain.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	copyJob := *job
	f.jobs[job.ID] = &copyJob
	return nil
}

func (f *jobRepoFake) GetByID(_ context.Context, id string) (*domain.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	copyJob := *job
	return &copyJob, nil
}

func (f *jobRepoFake) UpdateStatus(_ context.Context, id string, status domain.JobStatus, errMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, jobStatusCall{status: status, errMsg: errMessage})
	if job, ok := f.jobs[id]; ok && job.Status != domain.JobCancelled {
		job.Status = status
		job.Error = errMessage
	}
	return nil
}

func (f *jobRepoFake) UpdateProgress(_ context.Context, id string, done, total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = append(f.progress, [2]int{done, total})
	if job, ok := f.jobs[id]; ok {
		job.ProgressDone = done
		job.ProgressTotal = total
	}
	return nil
}

func (f *jobRepoFake) SaveResult(_ context.Context, id string, text string, items []domain.ListItem, usedModel string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedText = text
	f.savedItems = items
	f.savedModel = usedModel
	if job, ok := f.jobs[id]; ok {
		job.ResultText = text
		job.Items = items
		job.UsedModel = usedModel
	}
	return nil
}

func (f *jobRepoFake) lastStatus() domain.JobStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statusCalls) == 0 {
		return ""
	}
	return f.statusCalls[len(f.statusCalls)-1].status
}

type credStoreFake struct {
	creds   map[string]domain.ProviderCredentials
	loadErr error
}

func (f *credStoreFake) Load(_ context.Context, userID string) (domain.ProviderCredentials, error) {
	if f.loadErr != nil {
		return domain.ProviderCredentials{}, f.loadErr
	}
	return f.creds[userID], nil
}

func (f *credStoreFake) Save(_ context.Context, userID string, provider domain.Provider, credential string) error {
	if f.creds == nil {
		f.creds = make(map[string]domain.ProviderCredentials)
	}
	current := f.creds[userID]
	switch provider {
	case domain.ProviderOpenAI:
		current.OpenAI = credential
	case domain.ProviderClaude:
		current.Claude = credential
	}
	f.creds[userID] = current
	return nil
}

func (f *credStoreFake) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	return f.Save(ctx, userID, provider, "")
}

type queueFake struct {
	submitted  []string
	cancelled  []string
	publishErr error
}

func (f *queueFake) PublishJobSubmitted(_ context.Context, jobID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.submitted = append(f.submitted, jobID)
	return nil
}

func (f *queueFake) SubscribeJobSubmitted(context.Context, func(context.Context, string) error) error {
	return nil
}

func (f *queueFake) PublishJobCancelled(_ context.Context, jobID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.cancelled = append(f.cancelled, jobID)
	return nil
}

func (f *queueFake) SubscribeJobCancelled(context.Context, func(context.Context, string) error) error {
	return nil
}

type storageFake struct {
	savedKey  string
	savedBody string
	err       error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.savedBody)), nil
}

type extractorFake struct {
	text  string
	err   error
	calls int
}

func (f *extractorFake) Extract(context.Context, string, string, []byte) (string, error) {
	f.calls++
	return f.text, f.err
}
