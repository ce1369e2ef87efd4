package responseparse

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/docproof/internal/core/domain"
)

// MinFreeformLineLength is the shortest unmarked line kept as a detail item.
const MinFreeformLineLength = 3

var (
	headingPrefix  = regexp.MustCompile(`^#{1,6}[ \t]*`)
	categoryLine   = regexp.MustCompile(`(?i)^(?:[-•][ \t]*)?(?:\*\*|__)?[ \t]*category[ \t]*(?:\*\*|__)?[ \t]*:[ \t]*(.*)$`)
	boldHeaderLine = regexp.MustCompile(`^(?:\*\*|__)([^*_]+?):?(?:\*\*|__):?$`)
	bulletLine     = regexp.MustCompile(`^(?:[-•–][ \t]*|\*[ \t]+)(.*)$`)
	numberedLine   = regexp.MustCompile(`^\d+[.)][ \t]+(.*)$`)
	horizontalRule = regexp.MustCompile(`^[-*_=]{3,}$`)
)

// ParseItems turns a changes or notes block into a flat list of category
// headers and detail lines. Details that precede any header are grouped under
// a synthetic General category.
func ParseItems(block string) []domain.ListItem {
	items := make([]domain.ListItem, 0)
	haveCategory := false

	addDetail := func(text string) {
		text = cleanLine(text)
		if text == "" {
			return
		}
		if !haveCategory {
			items = append(items, domain.CategoryItem(domain.GeneralCategory))
			haveCategory = true
		}
		items = append(items, domain.DetailItem(text))
	}

	for _, rawLine := range strings.Split(strings.ReplaceAll(block, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "```") || horizontalRule.MatchString(line) {
			continue
		}
		line = headingPrefix.ReplaceAllString(line, "")

		if m := categoryLine.FindStringSubmatch(line); m != nil {
			name := strings.TrimSuffix(cleanLine(m[1]), ":")
			if name == "" {
				name = domain.GeneralCategory
			}
			items = append(items, domain.CategoryItem(name))
			haveCategory = true
			continue
		}
		if m := boldHeaderLine.FindStringSubmatch(line); m != nil {
			items = append(items, domain.CategoryItem(strings.TrimSpace(m[1])))
			haveCategory = true
			continue
		}
		if m := bulletLine.FindStringSubmatch(line); m != nil {
			addDetail(m[1])
			continue
		}
		if m := numberedLine.FindStringSubmatch(line); m != nil {
			addDetail(m[1])
			continue
		}
		if utf8.RuneCountInString(line) >= MinFreeformLineLength {
			addDetail(line)
		}
	}
	return items
}
