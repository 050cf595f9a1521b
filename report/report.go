// Package report runs registration cases through the account validator and
// writes the outcome as a text, CSV or Excel report.
package report

import (
	"time"

	"github.com/dalemusser/regcheck/account"
	"github.com/dalemusser/regcheck/cases"
)

// Result is the outcome of one case.
type Result struct {
	Case   cases.Case
	Actual bool
	// Errors lists the rules the registration failed, empty when Actual is true.
	Errors account.Errors
}

// Passed reports whether the validator agreed with the expected outcome.
func (r Result) Passed() bool {
	return r.Case.Expected == r.Actual
}

// Summary collects the results of a run.
type Summary struct {
	Results   []Result
	Passed    int
	Failed    int
	StartedAt time.Time
	Duration  time.Duration
}

// Total returns the number of cases run.
func (s *Summary) Total() int {
	return len(s.Results)
}

// OK reports whether every case passed.
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// FailedResults returns the results whose outcome did not match.
func (s *Summary) FailedResults() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.Passed() {
			out = append(out, r)
		}
	}
	return out
}

// Recorder observes every registration checked during a run.
type Recorder interface {
	ObserveRegistration(valid bool, errs account.Errors)
}

// Option configures Run.
type Option func(*runner)

type runner struct {
	recorder Recorder
	now      func() time.Time
	messages *account.Messages
	locale   string
}

// WithRecorder sends every check to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *runner) {
		r.recorder = rec
	}
}

// WithClock overrides time.Now for the run timestamp and duration.
func WithClock(now func() time.Time) Option {
	return func(r *runner) {
		r.now = now
	}
}

// WithLocale selects the message locale for failed rules.
func WithLocale(locale string) Option {
	return func(r *runner) {
		r.locale = locale
	}
}

// Run evaluates every case and returns the summary. Cases are independent;
// order is preserved in Summary.Results.
func Run(cs []cases.Case, opts ...Option) *Summary {
	r := runner{
		now:      time.Now,
		messages: account.DefaultMessages(),
	}
	for _, opt := range opts {
		opt(&r)
	}

	s := &Summary{
		Results:   make([]Result, 0, len(cs)),
		StartedAt: r.now(),
	}
	for _, c := range cs {
		username, password, email := c.Registration.Fields()
		res := Result{
			Case:   c,
			Actual: c.Registration.Valid(),
			Errors: account.CheckLocale(r.messages, r.locale, username, password, email),
		}
		if r.recorder != nil {
			r.recorder.ObserveRegistration(res.Actual, res.Errors)
		}
		if res.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Results = append(s.Results, res)
	}
	s.Duration = r.now().Sub(s.StartedAt)
	return s
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
