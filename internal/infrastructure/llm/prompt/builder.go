package prompt

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/docproof/internal/core/domain"
)

//go:embed templates.yaml
var templatesYAML []byte

type translateTemplates struct {
	Instruction string                             `yaml:"instruction"`
	Styles      map[domain.TranslationStyle]string `yaml:"styles"`
}

type templates struct {
	System            map[domain.Task]string     `yaml:"system"`
	GlossaryHeader    string                     `yaml:"glossary_header"`
	ChunkNotice       string                     `yaml:"chunk_notice"`
	Edit              map[domain.EditMode]string `yaml:"edit"`
	Translate         translateTemplates         `yaml:"translate"`
	Format            map[domain.Task]string     `yaml:"format"`
	ReasoningReminder map[domain.Task]string     `yaml:"reasoning_reminder"`
	TextLabel         string                     `yaml:"text_label"`
	Languages         map[string]string          `yaml:"languages"`
}

// Builder renders prompts from the embedded templates. It holds no mutable
// state and is safe for concurrent use.
type Builder struct {
	tpl templates
}

func NewBuilder() (*Builder, error) {
	return parseBuilder(templatesYAML)
}

func parseBuilder(raw []byte) (*Builder, error) {
	var tpl templates
	if err := yaml.Unmarshal(raw, &tpl); err != nil {
		return nil, fmt.Errorf("decode prompt templates: %w", err)
	}
	if err := tpl.validate(); err != nil {
		return nil, err
	}
	return &Builder{tpl: tpl}, nil
}

func (t templates) validate() error {
	for _, task := range []domain.Task{domain.TaskEdit, domain.TaskTranslate} {
		if strings.TrimSpace(t.System[task]) == "" {
			return fmt.Errorf("prompt templates: missing system message for %s", task)
		}
		if strings.TrimSpace(t.Format[task]) == "" {
			return fmt.Errorf("prompt templates: missing output format for %s", task)
		}
	}
	for _, mode := range []domain.EditMode{domain.EditModeStandard, domain.EditModeCorrectionOnly, domain.EditModeCookbook} {
		if strings.TrimSpace(t.Edit[mode]) == "" {
			return fmt.Errorf("prompt templates: missing edit mode %s", mode)
		}
	}
	for _, style := range []domain.TranslationStyle{domain.StyleStandard, domain.StyleLiterary, domain.StyleTechnical} {
		if strings.TrimSpace(t.Translate.Styles[style]) == "" {
			return fmt.Errorf("prompt templates: missing translation style %s", style)
		}
	}
	if strings.TrimSpace(t.Translate.Instruction) == "" {
		return fmt.Errorf("prompt templates: missing translation instruction")
	}
	return nil
}

// BuildEditPrompt returns the user prompt for proofreading text in the given
// mode. Unknown modes fall back to standard.
func (b *Builder) BuildEditPrompt(text string, mode domain.EditMode, model string) string {
	instructions, ok := b.tpl.Edit[mode]
	if !ok {
		instructions = b.tpl.Edit[domain.EditModeStandard]
	}
	return b.assemble(domain.TaskEdit, instructions, text, model)
}

// BuildTranslatePrompt returns the user prompt for translating text from
// sourceLang to targetLang. Language codes known to the templates are expanded
// to their names.
func (b *Builder) BuildTranslatePrompt(text string, style domain.TranslationStyle, sourceLang, targetLang, model string) string {
	tone, ok := b.tpl.Translate.Styles[style]
	if !ok {
		tone = b.tpl.Translate.Styles[domain.StyleStandard]
	}
	instruction := strings.NewReplacer(
		"{source_lang}", b.LanguageName(sourceLang),
		"{target_lang}", b.LanguageName(targetLang),
	).Replace(b.tpl.Translate.Instruction)
	return b.assemble(domain.TaskTranslate, instruction+"\n"+tone, text, model)
}

func (b *Builder) assemble(task domain.Task, instructions, text, model string) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(instructions))
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(b.tpl.Format[task]))
	if domain.IsReasoningModel(model) {
		if reminder := strings.TrimSpace(b.tpl.ReasoningReminder[task]); reminder != "" {
			sb.WriteString("\n\n")
			sb.WriteString(reminder)
		}
	}
	sb.WriteString("\n\n")
	sb.WriteString(b.tpl.TextLabel)
	sb.WriteString("\n")
	sb.WriteString(text)
	return sb.String()
}

// SystemMessage returns the system instructions for a task. Glossary entries
// go here rather than into the prompt so every chunk sees the same terms.
func (b *Builder) SystemMessage(task domain.Task, glossary []domain.GlossaryEntry) string {
	system, ok := b.tpl.System[task]
	if !ok {
		system = b.tpl.System[domain.TaskEdit]
	}
	system = strings.TrimSpace(system)
	if len(glossary) == 0 {
		return system
	}
	return system + "\n\n" + strings.TrimSpace(b.tpl.GlossaryHeader) + "\n" + domain.FormatGlossary(glossary)
}

// ChunkNotice returns the "part N of M" line for a zero-based chunk index.
// The first chunk gets no notice.
func (b *Builder) ChunkNotice(index, total int) string {
	if index <= 0 || total <= 1 {
		return ""
	}
	return strings.NewReplacer(
		"{part}", strconv.Itoa(index+1),
		"{total}", strconv.Itoa(total),
	).Replace(b.tpl.ChunkNotice)
}

// WithChunkNotice prefixes prompt with the chunk notice when one applies.
func (b *Builder) WithChunkNotice(prompt string, index, total int) string {
	notice := b.ChunkNotice(index, total)
	if notice == "" {
		return prompt
	}
	return notice + "\n\n" + prompt
}

func (b *Builder) LanguageName(code string) string {
	trimmed := strings.TrimSpace(code)
	if name, ok := b.tpl.Languages[strings.ToLower(trimmed)]; ok {
		return name
	}
	return trimmed
}

// ForTask builds the prompt a job needs for one piece of text.
func (b *Builder) ForTask(job domain.ChunkJob, text string) string {
	if job.Task == domain.TaskTranslate {
		return b.BuildTranslatePrompt(text, job.Style, job.SourceLang, job.TargetLang, job.Model)
	}
	return b.BuildEditPrompt(text, job.Mode, job.Model)
}
