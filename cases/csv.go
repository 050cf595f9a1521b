package cases

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LoadCSVFile reads cases from a CSV file.
func LoadCSVFile(path string) ([]Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cases: open %s: %w", path, err)
	}
	defer f.Close()

	return ReadCSV(f, filepath.Base(path))
}

// ReadCSV reads cases from CSV data. name is used in Case.Source.
func ReadCSV(r io.Reader, name string) ([]Case, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	var out []Case
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cases: read %s: %w", name, err)
		}
		if line == 1 {
			continue // header
		}

		row, _ := reader.FieldPos(0)
		c, err := fromRow(record, fmt.Sprintf("%s:%d", name, row))
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
