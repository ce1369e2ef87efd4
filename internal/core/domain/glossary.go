package domain

import (
	"bufio"
	"fmt"
	"strings"
)

type GlossaryEntry struct {
	Term        string `json:"term"`
	Explanation string `json:"explanation"`
}

// ParseGlossary reads one "term: explanation" pair per line. Blank lines and
// lines starting with '#' are ignored.
func ParseGlossary(raw string) ([]GlossaryEntry, error) {
	entries := make([]GlossaryEntry, 0)
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		term, explanation, ok := strings.Cut(line, ":")
		term = strings.TrimSpace(term)
		explanation = strings.TrimSpace(explanation)
		if !ok || term == "" || explanation == "" {
			return nil, WrapError(ErrInvalidInput, "parse glossary", fmt.Errorf("line %d: expected \"term: explanation\"", lineNo))
		}
		entries = append(entries, GlossaryEntry{Term: term, Explanation: explanation})
	}
	if err := scanner.Err(); err != nil {
		return nil, WrapError(ErrInvalidInput, "parse glossary", err)
	}
	return entries, nil
}

// FormatGlossary renders entries back into the "term: explanation" form.
func FormatGlossary(entries []GlossaryEntry) string {
	var b strings.Builder
	for i, entry := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(entry.Term)
		b.WriteString(": ")
		b.WriteString(entry.Explanation)
	}
	return b.String()
}
