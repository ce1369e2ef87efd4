package chunking

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/docproof/internal/core/domain"
)

// MaxChunkSize bounds a chunk in characters. It approximates 2000 words.
const MaxChunkSize = 10000

const paragraphSeparator = "\n\n"

var paragraphBreak = regexp.MustCompile(`\n\n+`)

type Splitter struct {
	MaxSize int
}

func NewSplitter(maxSize int) *Splitter {
	if maxSize <= 0 {
		maxSize = MaxChunkSize
	}
	return &Splitter{MaxSize: maxSize}
}

// NeedsChunking reports whether text has to be sent in more than one request.
func (s *Splitter) NeedsChunking(text string) bool {
	return utf8.RuneCountInString(text) > s.MaxSize
}

// Split packs paragraphs greedily into chunks of at most MaxSize characters.
// A paragraph longer than MaxSize becomes its own oversized chunk.
func (s *Splitter) Split(text string) []domain.TextChunk {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	paragraphs := paragraphBreak.Split(text, -1)

	out := make([]domain.TextChunk, 0)
	var current strings.Builder
	currentLen := 0

	seal := func() {
		sealed := strings.TrimSpace(current.String())
		current.Reset()
		currentLen = 0
		if sealed == "" {
			return
		}
		out = append(out, domain.TextChunk{Text: sealed, Index: len(out)})
	}

	for _, paragraph := range paragraphs {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}
		paragraphLen := utf8.RuneCountInString(paragraph)
		if currentLen > 0 && currentLen+paragraphLen+2 > s.MaxSize {
			seal()
		}
		if currentLen > 0 {
			current.WriteString(paragraphSeparator)
			currentLen += 2
		}
		current.WriteString(paragraph)
		currentLen += paragraphLen
	}
	seal()
	return out
}

// Merge joins chunk texts in Index order. The input slice is not modified.
func Merge(chunks []domain.TextChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	sorted := make([]domain.TextChunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	parts := make([]string, 0, len(sorted))
	for _, chunk := range sorted {
		parts = append(parts, chunk.Text)
	}
	return strings.Join(parts, paragraphSeparator)
}

func (s *Splitter) Merge(chunks []domain.TextChunk) string {
	return Merge(chunks)
}
