package account

import "strings"

// Field names used in FieldError.Field.
const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldEmail    = "email"
)

// Rule keys used in FieldError.Rule and as message catalog keys.
const (
	RuleUsernameRequired  = "username.required"
	RulePasswordMinLength = "password.min_length"
	RuleEmailRequired     = "email.required"
	RuleEmailFormat       = "email.format"
)

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return e.Message
}

// Errors is a list of failed rules in field order.
type Errors []FieldError

// Error implements the error interface.
func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Message
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether any error is for the given field.
func (e Errors) Has(field string) bool {
	for _, err := range e {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ByField returns the errors as a map keyed by field. When a field failed
// more than one rule, the first message wins.
func (e Errors) ByField() map[string]string {
	m := make(map[string]string, len(e))
	for _, err := range e {
		if _, ok := m[err.Field]; !ok {
			m[err.Field] = err.Message
		}
	}
	return m
}

// Rules returns the failed rule keys in order.
func (e Errors) Rules() []string {
	rules := make([]string, len(e))
	for i, err := range e {
		rules[i] = err.Rule
	}
	return rules
}
