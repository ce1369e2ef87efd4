package responseparse

import (
	"regexp"
	"strings"
)

var (
	boldStars       = regexp.MustCompile(`\*\*([^*\n]+?)\*\*`)
	boldUnderscores = regexp.MustCompile(`__([^_\n]+?)__`)
	italicStar      = regexp.MustCompile(`(^|[^*\w])\*([^*\s][^*\n]*?)\*([^*\w]|$)`)
	italicUnder     = regexp.MustCompile(`(^|[^_\w])_([^_\s][^_\n]*?)_([^_\w]|$)`)
	codeFence       = regexp.MustCompile("(?m)^[ \t]*```[a-zA-Z0-9_-]*[ \t]*$")
	strayBold       = regexp.MustCompile(`^\*\*|\*\*$|^__|__$`)
)

// stripMarkdown removes bold and italic markers around words.
func stripMarkdown(s string) string {
	s = boldStars.ReplaceAllString(s, "$1")
	s = boldUnderscores.ReplaceAllString(s, "$1")
	// Adjacent italic runs share a boundary character, so a second pass
	// catches the ones the first pass skipped.
	for i := 0; i < 2; i++ {
		s = italicStar.ReplaceAllString(s, "$1$2$3")
		s = italicUnder.ReplaceAllString(s, "$1$2$3")
	}
	return s
}

func cleanBody(s string) string {
	s = codeFence.ReplaceAllString(s, "")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = stripMarkdown(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func cleanLine(s string) string {
	s = strings.TrimSpace(stripMarkdown(s))
	s = strayBold.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
