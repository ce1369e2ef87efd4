package responseparse

import (
	"regexp"
	"strings"

	"github.com/kirillkom/docproof/internal/core/domain"
)

// Tier identifies which strategy recovered the sections of a response.
type Tier int

const (
	TierStrict Tier = iota + 1
	TierLoose
	TierHeuristic
	TierUnstructured
)

func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierLoose:
		return "loose"
	case TierHeuristic:
		return "heuristic"
	case TierUnstructured:
		return "unstructured"
	default:
		return "unknown"
	}
}

// Sections is the raw two-part split of a model answer.
type Sections struct {
	Text    string
	List    string
	HasText bool
	HasList bool
	Tier    Tier
}

type labelSet struct {
	body *regexp.Regexp
	list *regexp.Regexp
}

// labelPattern matches a label at line start with optional heading, list or
// bold markers. The label must be followed by a colon or end the line.
func labelPattern(ignoreCase bool, labels ...string) *regexp.Regexp {
	alternatives := make([]string, 0, len(labels))
	for _, label := range labels {
		words := strings.Fields(label)
		for i, word := range words {
			words[i] = regexp.QuoteMeta(word)
		}
		alternatives = append(alternatives, strings.Join(words, `[ \t]+`))
	}
	flags := `(?m)`
	if ignoreCase {
		flags = `(?im)`
	}
	return regexp.MustCompile(flags + `^[ \t]*(?:#{1,6}[ \t]*)?(?:\d+[.)][ \t]*)?(?:\*\*|__)?[ \t]*(?:` +
		strings.Join(alternatives, "|") +
		`)[ \t]*(?:\*\*|__)?[ \t]*(?::[ \t]*(?:\*\*|__)?|$)`)
}

var strictLabels = map[domain.Task]labelSet{
	domain.TaskEdit: {
		body: labelPattern(false, "EDITED TEXT"),
		list: labelPattern(false, "CHANGES"),
	},
	domain.TaskTranslate: {
		body: labelPattern(false, "TRANSLATED TEXT"),
		list: labelPattern(false, "NOTES"),
	},
}

var looseLabels = map[domain.Task]labelSet{
	domain.TaskEdit: {
		body: labelPattern(true,
			"edited text", "edited version", "corrected text", "corrected version",
			"revised text", "revised version", "proofread text", "final text", "edited",
		),
		list: labelPattern(true,
			"changes made", "list of changes", "summary of changes", "changes list",
			"corrections made", "corrections", "edits made", "edits", "changes",
		),
	},
	domain.TaskTranslate: {
		body: labelPattern(true, "translated text", "translated version", "translation", "translated"),
		list: labelPattern(true,
			"translator's notes", "translator’s notes", "translator notes", "translation notes",
			"notes on translation", "notes on the translation", "notes",
		),
	},
}

type labelHit struct {
	start int
	end   int
}

func firstHit(re *regexp.Regexp, raw string) (labelHit, bool) {
	loc := re.FindStringIndex(raw)
	if loc == nil {
		return labelHit{}, false
	}
	return labelHit{start: loc[0], end: loc[1]}, true
}

func allHits(raw string, patterns ...*regexp.Regexp) []labelHit {
	var out []labelHit
	for _, re := range patterns {
		if re == nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(raw, -1) {
			out = append(out, labelHit{start: loc[0], end: loc[1]})
		}
	}
	return out
}

// sectionAfter captures text from the end of hit up to the next label that
// starts after it.
func sectionAfter(raw string, hit labelHit, boundaries []labelHit) string {
	end := len(raw)
	for _, boundary := range boundaries {
		if boundary.start >= hit.end && boundary.start < end {
			end = boundary.start
		}
	}
	return raw[hit.end:end]
}

func labelsFor(task domain.Task) (labelSet, labelSet) {
	if task == domain.TaskTranslate {
		return strictLabels[domain.TaskTranslate], looseLabels[domain.TaskTranslate]
	}
	return strictLabels[domain.TaskEdit], looseLabels[domain.TaskEdit]
}

// SplitSections extracts the body and list sections of a model answer. The
// body and the list are located independently; for each, strict labels win
// over loose ones. When no label is found the keyword heuristic decides.
func SplitSections(raw string, task domain.Task) Sections {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")
	strict, loose := labelsFor(task)

	bodyHit, bodyPattern, bodyTier, hasBody := locate(normalized, strict.body, loose.body)
	listHit, listPattern, listTier, hasList := locate(normalized, strict.list, loose.list)

	if !hasBody && !hasList {
		return splitHeuristic(normalized)
	}
	boundaries := allHits(normalized, bodyPattern, listPattern)

	out := Sections{HasText: hasBody, HasList: hasList, Tier: maxTier(bodyTier, listTier)}
	if hasBody {
		out.Text = cleanBody(sectionAfter(normalized, bodyHit, boundaries))
	} else {
		// Only the list is labelled; whatever precedes it is the body.
		out.Text = cleanBody(normalized[:listHit.start])
	}
	if hasList {
		out.List = strings.TrimSpace(sectionAfter(normalized, listHit, boundaries))
	}
	return out
}

func locate(raw string, strict, loose *regexp.Regexp) (labelHit, *regexp.Regexp, Tier, bool) {
	if hit, ok := firstHit(strict, raw); ok {
		return hit, strict, TierStrict, true
	}
	if hit, ok := firstHit(loose, raw); ok {
		return hit, loose, TierLoose, true
	}
	return labelHit{}, nil, 0, false
}

func maxTier(a, b Tier) Tier {
	if a > b {
		return a
	}
	return b
}
