// Package cases loads registration test cases: a username, password and
// email together with the eligibility the validator is expected to report.
//
// Cases can come from CSV, XLSX or YAML files, or from the built-in
// scenario set. In CSV and XLSX files the first row is a header and is
// skipped; an empty cell or the word "null" is the absent value.
package cases

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dalemusser/regcheck/account"
)

// Common errors.
var (
	ErrUnsupportedFormat = errors.New("cases: unsupported file format")
	ErrNoCases           = errors.New("cases: no cases found")
)

// Case is one registration and its expected outcome.
type Case struct {
	Name         string
	Registration account.Registration
	Expected     bool
	// Source locates the case, e.g. "data.csv:3" or "Sheet1!A3".
	Source string
}

// ParseError reports a row that could not be turned into a Case.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cases: %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Option configures Load.
type Option func(*options)

type options struct {
	sheet string
}

// WithSheet selects the worksheet read from XLSX files. The default is the
// first sheet in the workbook.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

// Load reads cases from path. The format is chosen by file extension:
// .csv, .xlsx, .yaml or .yml.
func Load(path string, opts ...Option) ([]Case, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		cs  []Case
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		cs, err = LoadCSVFile(path)
	case ".xlsx":
		cs, err = LoadXLSXFile(path, o.sheet)
	case ".yaml", ".yml":
		cs, err = LoadYAMLFile(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(cs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCases, path)
	}
	return cs, nil
}

// fromRow builds a Case from a tabular row of username, password, email,
// expected.
func fromRow(row []string, source string) (Case, error) {
	if isBlankRow(row) {
		return Case{}, errBlankRow
	}
	if len(row) < 4 {
		return Case{}, &ParseError{Source: source, Err: fmt.Errorf("want 4 columns, got %d", len(row))}
	}
	expected, err := strconv.ParseBool(strings.TrimSpace(row[3]))
	if err != nil {
		return Case{}, &ParseError{Source: source, Err: fmt.Errorf("expected column: %w", err)}
	}
	reg := account.Registration{
		Username: cell(row[0]),
		Password: cell(row[1]),
		Email:    cell(row[2]),
	}
	return Case{
		Name:         caseName(reg),
		Registration: reg,
		Expected:     expected,
		Source:       source,
	}, nil
}

var errBlankRow = errors.New("blank row")

// cell maps a tabular cell to a field value. Surrounding whitespace is
// trimmed; a cell that is then empty or "null" is absent.
func cell(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	return account.Str(s)
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func caseName(reg account.Registration) string {
	return fmt.Sprintf("[%s,%s,%s]",
		account.Display(reg.Username),
		account.Display(reg.Password),
		account.Display(reg.Email))
}
