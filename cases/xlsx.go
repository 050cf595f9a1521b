package cases

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// LoadXLSXFile reads cases from a worksheet of an Excel workbook. An empty
// sheet name selects the first sheet.
func LoadXLSXFile(path, sheet string) ([]Case, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cases: open %s: %w", path, err)
	}
	defer f.Close()

	return readWorkbook(f, filepath.Base(path), sheet)
}

// ReadXLSX reads cases from Excel workbook data.
func ReadXLSX(r io.Reader, name, sheet string) ([]Case, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cases: open %s: %w", name, err)
	}
	defer f.Close()

	return readWorkbook(f, name, sheet)
}

func readWorkbook(f *excelize.File, name, sheet string) ([]Case, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("cases: %s has no sheets", name)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("cases: read %s sheet %q: %w", name, sheet, err)
	}

	var out []Case
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		// GetRows drops trailing empty cells; pad so short rows still map
		// onto the four columns and fail on the expected column.
		for len(row) < 4 {
			row = append(row, "")
		}
		c, err := fromRow(row, fmt.Sprintf("%s!A%d", sheet, i+1))
		if errors.Is(err, errBlankRow) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
