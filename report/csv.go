package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/dalemusser/regcheck/account"
)

var columns = []string{
	"source", "name", "username", "password", "email",
	"expected", "actual", "result", "failed_rules",
}

// WriteCSV writes one row per result with a header row.
func WriteCSV(w io.Writer, s *Summary) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return err
	}
	for _, r := range s.Results {
		if err := writer.Write(row(r)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func row(r Result) []string {
	reg := r.Case.Registration
	return []string{
		r.Case.Source,
		r.Case.Name,
		account.Display(reg.Username),
		account.Display(reg.Password),
		account.Display(reg.Email),
		strconv.FormatBool(r.Case.Expected),
		strconv.FormatBool(r.Actual),
		passFail(r.Passed()),
		strings.Join(r.Errors.Rules(), " "),
	}
}
