package xlsx

import (
	"bytes"
	"context"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/docproof/internal/core/domain"
)

func TestRenderWritesOneRowPerDetail(t *testing.T) {
	data, err := NewRenderer().Render(context.Background(), domain.RenderRequest{
		Title: "Report",
		Task:  domain.TaskEdit,
		Items: []domain.ListItem{
			domain.DetailItem("stray line"),
			domain.CategoryItem("Grammar"),
			domain.DetailItem("fixed tense"),
			domain.DetailItem("fixed agreement"),
			domain.CategoryItem("Style"),
			domain.DetailItem("shortened sentence"),
		},
		Model: "gpt-4o",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Changes")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	want := [][]string{
		{"#", "Category", "Change"},
		{"1", domain.GeneralCategory, "stray line"},
		{"2", "Grammar", "fixed tense"},
		{"3", "Grammar", "fixed agreement"},
		{"4", "Style", "shortened sentence"},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %v", len(want), rows)
	}
	for i := range want {
		for j := range want[i] {
			if rows[i][j] != want[i][j] {
				t.Fatalf("cell %d,%d: expected %q, got %q", i, j, want[i][j], rows[i][j])
			}
		}
	}

	summary, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("GetRows(Summary) error = %v", err)
	}
	if summary[3][1] != "4" {
		t.Fatalf("expected item count 4, got %v", summary)
	}
}

func TestRenderTranslationUsesNotesSheet(t *testing.T) {
	data, err := NewRenderer().Render(context.Background(), domain.RenderRequest{Task: domain.TaskTranslate})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Notes" {
		t.Fatalf("unexpected sheets %v", sheets)
	}
	header, err := f.GetRows("Notes")
	if err != nil || len(header) != 1 || header[0][2] != "Note" {
		t.Fatalf("unexpected header %v, %v", header, err)
	}
}
