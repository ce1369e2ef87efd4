package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	StatsWarningThreshold  = 14500
	StatsCriticalThreshold = 150000
)

type StatsStatus string

const (
	StatsAcceptable StatsStatus = "acceptable"
	StatsWarning    StatsStatus = "warning"
	StatsCritical   StatsStatus = "critical"
)

// DocumentStats is derived from the current text only.
type DocumentStats struct {
	CharCount  int         `json:"char_count"`
	WordCount  int         `json:"word_count"`
	Status     StatsStatus `json:"status"`
	StatusText string      `json:"status_text"`
}

func ComputeStats(text string) DocumentStats {
	chars := utf8.RuneCountInString(text)
	stats := DocumentStats{
		CharCount: chars,
		WordCount: len(strings.Fields(text)),
	}
	switch {
	case chars >= StatsCriticalThreshold:
		stats.Status = StatsCritical
		stats.StatusText = fmt.Sprintf("Document is very large (%d characters); processing will take a long time and may hit provider limits.", chars)
	case chars >= StatsWarningThreshold:
		stats.Status = StatsWarning
		stats.StatusText = fmt.Sprintf("Document is large (%d characters); it will be processed in several parts.", chars)
	default:
		stats.Status = StatsAcceptable
		stats.StatusText = fmt.Sprintf("Document size is fine (%d characters).", chars)
	}
	return stats
}
