package responseparse

import (
	"strings"

	"github.com/kirillkom/docproof/internal/core/domain"
)

type ParseResult struct {
	Text  string
	Items []domain.ListItem
	Tier  Tier
}

// Parse never fails. Any input yields a text (possibly empty) and a non-nil
// item slice.
func Parse(raw string, task domain.Task) ParseResult {
	sections := SplitSections(raw, task)
	items := ParseItems(sections.List)
	if sections.Tier == TierUnstructured {
		items = []domain.ListItem{
			domain.CategoryItem(domain.GeneralCategory),
			domain.DetailItem(missingListNote(task)),
		}
	}
	return ParseResult{
		Text:  sections.Text,
		Items: items,
		Tier:  sections.Tier,
	}
}

// ToAIResponse parses raw model output into a response. Blank output is a
// soft failure marked Empty with placeholder content.
func ToAIResponse(raw string, task domain.Task, model string) (domain.AIResponse, Tier) {
	if strings.TrimSpace(raw) == "" {
		return EmptyResponse(model), TierUnstructured
	}
	parsed := Parse(raw, task)
	return domain.AIResponse{
		Text:    parsed.Text,
		Changes: parsed.Items,
		Model:   model,
	}, parsed.Tier
}

func EmptyResponse(model string) domain.AIResponse {
	return domain.AIResponse{
		Text: domain.EmptyResponseText,
		Changes: []domain.ListItem{
			domain.CategoryItem(domain.GeneralCategory),
			domain.DetailItem(domain.EmptyResponseNote),
		},
		Empty: true,
		Model: model,
	}
}

func missingListNote(task domain.Task) string {
	if task == domain.TaskTranslate {
		return domain.NoNotesListedNote
	}
	return domain.NoChangesListedNote
}
