package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/dalemusser/regcheck/account"
)

// TextDateLayout is the timestamp layout used in text reports.
const TextDateLayout = "2006-01-02 15:04:05"

// WriteText writes the human-readable report.
func WriteText(w io.Writer, s *Summary) error {
	var buf bytes.Buffer

	buf.WriteString("=== UNIT TEST RESULTS ===\n")
	fmt.Fprintf(&buf, "Test Date: %s\n\n", s.StartedAt.Format(TextDateLayout))

	for _, r := range s.Results {
		status := "PASSED"
		mark := "✓"
		if !r.Passed() {
			status = "FAILED"
			mark = "✗"
		}
		fmt.Fprintf(&buf, "%s %s Expected: %t, Actual: %t - %s\n",
			mark, r.Case.Name, r.Case.Expected, r.Actual, status)
	}

	buf.WriteString("\n=== DETAILED RESULTS ===\n")
	for _, r := range s.Results {
		reg := r.Case.Registration
		fmt.Fprintf(&buf, "Username: %-10s | Password: %-10s | Email: %-20s | Expected: %-5s | Actual: %-5s | Result: %s\n",
			account.Display(reg.Username),
			account.Display(reg.Password),
			account.Display(reg.Email),
			strconv.FormatBool(r.Case.Expected),
			strconv.FormatBool(r.Actual),
			passFail(r.Passed()),
		)
	}

	if failed := s.FailedResults(); len(failed) > 0 {
		buf.WriteString("\n=== FAILURES ===\n")
		for _, r := range failed {
			fmt.Fprintf(&buf, "%s (%s): expected %t, got %t", r.Case.Name, r.Case.Source, r.Case.Expected, r.Actual)
			if len(r.Errors) > 0 {
				fmt.Fprintf(&buf, " [%s]", r.Errors.Error())
			}
			buf.WriteString("\n")
		}
	}

	buf.WriteString("\n=== SUMMARY ===\n")
	fmt.Fprintf(&buf, "Total: %d, Passed: %d, Failed: %d\n", s.Total(), s.Passed, s.Failed)
	if s.OK() {
		buf.WriteString("All cases passed.\n")
	} else {
		fmt.Fprintf(&buf, "%d case(s) failed.\n", s.Failed)
	}

	_, err := w.Write(buf.Bytes())
	return err
}
