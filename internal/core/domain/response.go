package domain

type Task string

const (
	TaskEdit      Task = "edit"
	TaskTranslate Task = "translate"
)

func (t Task) Valid() bool {
	return t == TaskEdit || t == TaskTranslate
}

type EditMode string

const (
	EditModeStandard       EditMode = "standard"
	EditModeCorrectionOnly EditMode = "correction-only"
	EditModeCookbook       EditMode = "cookbook"
)

func (m EditMode) Valid() bool {
	switch m {
	case EditModeStandard, EditModeCorrectionOnly, EditModeCookbook:
		return true
	default:
		return false
	}
}

type TranslationStyle string

const (
	StyleStandard  TranslationStyle = "standard"
	StyleLiterary  TranslationStyle = "literary"
	StyleTechnical TranslationStyle = "technical"
)

func (s TranslationStyle) Valid() bool {
	switch s {
	case StyleStandard, StyleLiterary, StyleTechnical:
		return true
	default:
		return false
	}
}

// Placeholders used when a model answers with an empty body or without a
// recognisable change list.
const (
	EmptyResponseText   = "The model returned an empty response."
	EmptyResponseNote   = "The model returned an empty response; the original text was kept."
	NoChangesListedNote = "The model did not provide a list of changes."
	NoNotesListedNote   = "The model did not provide translator notes."
)

// AIResponse is the normalised answer of one provider call.
type AIResponse struct {
	Text    string     `json:"text"`
	Changes []ListItem `json:"changes"`
	// Empty marks a soft failure: the provider answered 2xx with no content.
	Empty bool `json:"empty,omitempty"`
	// Model is the model that produced the answer.
	Model string `json:"model,omitempty"`
	// ParseTier names the parser strategy that recovered the sections.
	ParseTier string `json:"-"`
}

// CompletionRequest is what a provider adapter needs to make one call.
type CompletionRequest struct {
	Prompt        string
	SystemMessage string
	Model         string
	Credential    string
	Task          Task
	Glossary      []GlossaryEntry
}

// RouteRequest is a CompletionRequest before the provider is known.
type RouteRequest struct {
	Prompt        string
	SystemMessage string
	Model         string
	Credentials   ProviderCredentials
	Task          Task
	Glossary      []GlossaryEntry
}
