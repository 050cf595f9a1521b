package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

// WriteXLSX writes the report as an Excel workbook with a Results sheet and
// a Summary sheet.
func WriteXLSX(w io.Writer, s *Summary) error {
	f, err := buildWorkbook(s)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

func buildWorkbook(s *Summary) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("report: add sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E0E0E0"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("report: header style: %w", err)
	}
	failStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("report: fail style: %w", err)
	}

	// Results
	for i, h := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(resultsSheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	f.SetCellStyle(resultsSheet, "A1", last, headerStyle)

	resultCol := 8 // "result"
	for i, r := range s.Results {
		rowNum := i + 2
		for j, v := range row(r) {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			f.SetCellValue(resultsSheet, cell, v)
		}
		if !r.Passed() {
			cell, _ := excelize.CoordinatesToCellName(resultCol, rowNum)
			f.SetCellStyle(resultsSheet, cell, cell, failStyle)
		}
	}
	widths := []float64{16, 28, 14, 14, 28, 10, 10, 8, 40}
	for i, wd := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(resultsSheet, col, col, wd)
	}
	f.SetPanes(resultsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	// Summary
	summary := [][]any{
		{"Test Date", s.StartedAt.Format(TextDateLayout)},
		{"Total", s.Total()},
		{"Passed", s.Passed},
		{"Failed", s.Failed},
		{"Duration", s.Duration.String()},
	}
	for i, kv := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &kv); err != nil {
			f.Close()
			return nil, fmt.Errorf("report: summary row: %w", err)
		}
	}
	f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), headerStyle)
	f.SetColWidth(summarySheet, "A", "A", 14)
	f.SetColWidth(summarySheet, "B", "B", 22)

	idx, _ := f.GetSheetIndex(resultsSheet)
	f.SetActiveSheet(idx)
	return f, nil
}
