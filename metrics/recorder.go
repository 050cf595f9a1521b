package metrics

import (
	"github.com/dalemusser/regcheck/account"
)

// fieldRules maps each field to the rule counted as its pass outcome.
var fieldRules = []struct {
	field string
	rule  string
}{
	{account.FieldUsername, account.RuleUsernameRequired},
	{account.FieldPassword, account.RulePasswordMinLength},
	{account.FieldEmail, account.RuleEmailFormat},
}

// Recorder feeds validation outcomes into the regcheck counters. The zero
// value is ready to use.
type Recorder struct{}

// ObserveRegistration counts one registration and each of its rules. A field
// without errors counts as a pass of its rule; every failed rule counts once
// as a failure.
func (Recorder) ObserveRegistration(valid bool, errs account.Errors) {
	outcome := OutcomeFail
	if valid {
		outcome = OutcomePass
	}
	registrations.WithLabelValues(outcome).Inc()

	for _, fr := range fieldRules {
		if !errs.Has(fr.field) {
			ruleChecks.WithLabelValues(fr.rule, OutcomePass).Inc()
		}
	}
	for _, err := range errs {
		ruleChecks.WithLabelValues(err.Rule, OutcomeFail).Inc()
	}
}
