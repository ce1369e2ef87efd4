package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/docproof/internal/core/domain"
)

const (
	defaultSheet = "Sheet1"
	summarySheet = "Summary"
)

// Renderer writes the change or note list of a job as a spreadsheet with
// one row per item, plus a summary sheet.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Format() domain.ExportFormat {
	return domain.ExportXLSX
}

func (r *Renderer) Render(_ context.Context, req domain.RenderRequest) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	listSheet, itemHeader := "Changes", "Change"
	if req.Task == domain.TaskTranslate {
		listSheet, itemHeader = "Notes", "Note"
	}
	if err := f.SetSheetName(defaultSheet, listSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return nil, fmt.Errorf("create wrap style: %w", err)
	}

	if err := f.SetSheetRow(listSheet, "A1", &[]any{"#", "Category", itemHeader}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(listSheet, "A1", "C1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	rows := itemRows(req.Items)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(listSheet, cell, &[]any{i + 1, row.category, row.text}); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if len(rows) > 0 {
		last, err := excelize.CoordinatesToCellName(3, len(rows)+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(listSheet, "A2", last, wrapStyle); err != nil {
			return nil, fmt.Errorf("style rows: %w", err)
		}
	}
	for col, width := range map[string]float64{"A": 6, "B": 24, "C": 90} {
		if err := f.SetColWidth(listSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	if err := writeSummary(f, req, len(rows), headerStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

type itemRow struct {
	category string
	text     string
}

// itemRows attaches each detail line to the category header above it.
func itemRows(items []domain.ListItem) []itemRow {
	rows := make([]itemRow, 0, len(items))
	category := domain.GeneralCategory
	for _, item := range items {
		if item.IsCategory {
			category = item.Text
			continue
		}
		rows = append(rows, itemRow{category: category, text: item.Text})
	}
	return rows
}

func writeSummary(f *excelize.File, req domain.RenderRequest, count int, headerStyle int) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	values := [][]any{
		{"Document", req.Title},
		{"Task", string(req.Task)},
		{"Model", req.Model},
		{"Items", count},
	}
	for i, row := range values {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(values)), headerStyle); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	return f.SetColWidth(summarySheet, "B", "B", 40)
}
