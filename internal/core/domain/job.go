package domain

import "time"

type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// Job is one edit or translation request against a stored document.
type Job struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	DocumentID      string           `json:"document_id"`
	Task            Task             `json:"task"`
	Mode            EditMode         `json:"mode,omitempty"`
	Style           TranslationStyle `json:"style,omitempty"`
	SourceLang      string           `json:"source_lang,omitempty"`
	TargetLang      string           `json:"target_lang,omitempty"`
	Model           string           `json:"model"`
	Glossary        []GlossaryEntry  `json:"glossary,omitempty"`
	IncludeChanges  bool             `json:"include_changes"`
	IncludeOriginal bool             `json:"include_original"`
	Status          JobStatus        `json:"status"`
	ProgressDone    int              `json:"progress_done"`
	ProgressTotal   int              `json:"progress_total"`
	ResultText      string           `json:"result_text,omitempty"`
	Items           []ListItem       `json:"items,omitempty"`
	UsedModel       string           `json:"used_model,omitempty"`
	Error           string           `json:"error,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// JobRequest is the user-facing submission payload before validation.
type JobRequest struct {
	UserID          string
	DocumentID      string
	Task            Task
	Mode            EditMode
	Style           TranslationStyle
	SourceLang      string
	TargetLang      string
	Model           string
	Glossary        string
	IncludeChanges  bool
	IncludeOriginal bool
}

// ChunkJob is the input to chunk orchestration for one job.
type ChunkJob struct {
	Chunks        []TextChunk
	Credentials   ProviderCredentials
	Task          Task
	Mode          EditMode
	Style         TranslationStyle
	SourceLang    string
	TargetLang    string
	Model         string
	SystemMessage string
	Glossary      []GlossaryEntry
}

// ChunkOutcome holds the processed chunks in original order and one item
// list per chunk.
type ChunkOutcome struct {
	ProcessedChunks []TextChunk
	ChangeLists     [][]ListItem
	UsedModel       string
}

// ProgressFunc is called once per completed chunk.
type ProgressFunc func(completed, total int)

// CredentialStatus reports which providers have a stored credential.
type CredentialStatus struct {
	OpenAI bool `json:"openai"`
	Claude bool `json:"claude"`
}
