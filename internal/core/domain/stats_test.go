package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestComputeStatsThresholds(t *testing.T) {
	cases := []struct {
		chars int
		want  StatsStatus
	}{
		{0, StatsAcceptable},
		{StatsWarningThreshold - 1, StatsAcceptable},
		{StatsWarningThreshold, StatsWarning},
		{StatsCriticalThreshold - 1, StatsWarning},
		{StatsCriticalThreshold, StatsCritical},
	}
	for _, tc := range cases {
		stats := ComputeStats(strings.Repeat("a", tc.chars))
		if stats.Status != tc.want {
			t.Fatalf("%d chars: expected %s, got %s", tc.chars, tc.want, stats.Status)
		}
		if stats.CharCount != tc.chars {
			t.Fatalf("%d chars: unexpected count %d", tc.chars, stats.CharCount)
		}
		if stats.StatusText == "" {
			t.Fatalf("%d chars: expected status text", tc.chars)
		}
	}
}

func TestComputeStatsCountsRunesAndWords(t *testing.T) {
	stats := ComputeStats("Grüße aus\nMünchen")
	if stats.CharCount != 17 {
		t.Fatalf("expected 17 characters, got %d", stats.CharCount)
	}
	if stats.WordCount != 3 {
		t.Fatalf("expected 3 words, got %d", stats.WordCount)
	}
}

func TestParseGlossary(t *testing.T) {
	raw := "# product terms\n\nSaaS: software as a service\n  KPI : key performance indicator \n"
	entries, err := ParseGlossary(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	if entries[1].Term != "KPI" || entries[1].Explanation != "key performance indicator" {
		t.Fatalf("unexpected entry: %+v", entries[1])
	}
	if got := FormatGlossary(entries); got != "SaaS: software as a service\nKPI: key performance indicator" {
		t.Fatalf("unexpected formatted glossary: %q", got)
	}
}

func TestParseGlossaryReportsLine(t *testing.T) {
	_, err := ParseGlossary("API: interface\nbroken line\n")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}

func TestParseGlossaryEmpty(t *testing.T) {
	entries, err := ParseGlossary("  \n# only comments\n")
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected no entries, got %+v, %v", entries, err)
	}
}
