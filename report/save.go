package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Report formats.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrUnknownFormat is returned for a format that has no writer.
var ErrUnknownFormat = errors.New("report: unknown format")

// Formats lists the accepted format names.
var Formats = []string{FormatAuto, FormatText, FormatCSV, FormatXLSX}

// ResolveFormat maps a format name and file path to a concrete format.
// "auto" (or "") picks by extension and falls back to text.
func ResolveFormat(format, path string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatAuto:
		switch strings.ToLower(filepath.Ext(path)) {
		case ".csv":
			return FormatCSV, nil
		case ".xlsx":
			return FormatXLSX, nil
		default:
			return FormatText, nil
		}
	case FormatText, "txt":
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Write writes s to w in the given concrete format.
func Write(w io.Writer, format string, s *Summary) error {
	switch format {
	case FormatText:
		return WriteText(w, s)
	case FormatCSV:
		return WriteCSV(w, s)
	case FormatXLSX:
		return WriteXLSX(w, s)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Save writes s to path. The format is resolved with ResolveFormat.
func Save(path, format string, s *Summary) error {
	resolved, err := ResolveFormat(format, path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	if err := Write(f, resolved, s); err != nil {
		f.Close()
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return f.Close()
}
