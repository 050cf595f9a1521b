package account

import (
	"strconv"
	"strings"
)

// Registration is one set of registration fields. A nil field is the
// absent value, which every rule treats as invalid.
type Registration struct {
	Username *string `json:"username" yaml:"username"`
	Password *string `json:"password" yaml:"password"`
	Email    *string `json:"email" yaml:"email"`
}

// Str returns a pointer to s.
func Str(s string) *string {
	return &s
}

// NewRegistration builds a Registration with all three fields present.
func NewRegistration(username, password, email string) Registration {
	return Registration{Username: Str(username), Password: Str(password), Email: Str(email)}
}

// Valid reports whether the registration is eligible. It is RegisterAccount
// with absent fields mapped to the empty string.
func (r Registration) Valid() bool {
	return RegisterAccount(r.Fields())
}

// Check runs every rule against the registration and returns the failures
// with messages from the default (English) catalog.
func (r Registration) Check() Errors {
	return Check(r.Fields())
}

// Check runs every rule, without stopping at the first failure, and returns
// one FieldError per failed rule. An empty result means RegisterAccount
// would return true for the same arguments.
func Check(username, password, email string) Errors {
	return CheckLocale(defaultMessages, "", username, password, email)
}

// CheckLocale is Check with messages taken from m in the given locale.
// An empty locale uses m's default.
func CheckLocale(m *Messages, locale, username, password, email string) Errors {
	var errs Errors
	add := func(field, rule, param string) {
		errs = append(errs, FieldError{
			Field:   field,
			Rule:    rule,
			Message: m.Get(locale, rule, field, param),
		})
	}

	if !IsValidUsername(username) {
		add(FieldUsername, RuleUsernameRequired, "")
	}
	if !IsValidPassword(password) {
		add(FieldPassword, RulePasswordMinLength, strconv.Itoa(MinPasswordLength))
	}
	switch {
	case strings.TrimSpace(email) == "":
		add(FieldEmail, RuleEmailRequired, "")
	case !IsValidEmail(email):
		add(FieldEmail, RuleEmailFormat, "")
	}
	return errs
}

// Display returns the value for reports, with the absent value shown as
// "null".
func Display(s *string) string {
	if s == nil {
		return "null"
	}
	return *s
}

// Value returns *s, or the empty string (the absent value) when s is nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Fields returns the three fields with absent values mapped to "".
func (r Registration) Fields() (username, password, email string) {
	return Value(r.Username), Value(r.Password), Value(r.Email)
}
