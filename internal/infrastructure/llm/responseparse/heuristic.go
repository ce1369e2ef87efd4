package responseparse

import (
	"regexp"
	"strings"
)

var (
	changeKeywords = regexp.MustCompile(`(?i)\b(?:corrected|changed|improved|fixed|replaced|removed|added|adjusted|rephrased|reworded|translated .+ as|rendered .+ as)\b`)
	sentenceSplit  = regexp.MustCompile(`[^.!?\n]+[.!?]*`)
)

// splitHeuristic is a last-resort classifier for answers without any section
// label. It is approximate: a body sentence that happens to use a change verb
// ends up in the list.
func splitHeuristic(raw string) Sections {
	if !changeKeywords.MatchString(raw) {
		return Sections{Text: cleanBody(raw), Tier: TierUnstructured}
	}

	var body, changes []string
	for _, paragraph := range strings.Split(raw, "\n\n") {
		var kept []string
		for _, sentence := range sentenceSplit.FindAllString(paragraph, -1) {
			trimmed := strings.TrimSpace(sentence)
			if trimmed == "" {
				continue
			}
			if changeKeywords.MatchString(trimmed) {
				changes = append(changes, trimmed)
				continue
			}
			kept = append(kept, trimmed)
		}
		if len(kept) > 0 {
			body = append(body, strings.Join(kept, " "))
		}
	}

	if len(body) == 0 {
		// Everything looked like a change description; keep the raw content
		// as the text so nothing is lost.
		return Sections{Text: cleanBody(raw), Tier: TierUnstructured}
	}
	return Sections{
		Text:    cleanBody(strings.Join(body, "\n\n")),
		List:    "- " + strings.Join(changes, "\n- "),
		HasList: true,
		Tier:    TierHeuristic,
	}
}
