// Package account holds the registration rules for new accounts: a username
// must be present, a password must be longer than six characters, and an
// email must match a fixed ASCII grammar.
//
// All functions are pure and safe for concurrent use. Invalid input is a
// false result, never an error or a panic. The absent value is the empty
// string; use Registration when absent and empty need to stay distinct.
package account

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 7

// EmailPattern is the full-match grammar applied by IsValidEmail.
// The top-level label is limited to 2-7 letters.
const EmailPattern = `^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@` +
	`(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`

var emailRegex = regexp.MustCompile(EmailPattern)

// IsValidUsername reports whether username is non-empty after trimming
// surrounding whitespace.
func IsValidUsername(username string) bool {
	return strings.TrimSpace(username) != ""
}

// IsValidPassword reports whether password has at least MinPasswordLength
// characters. Length is counted in runes, not bytes, so a character outside
// the Basic Multilingual Plane (an emoji, say) counts once.
func IsValidPassword(password string) bool {
	return utf8.RuneCountInString(password) >= MinPasswordLength
}

// IsValidEmail reports whether email matches EmailPattern in full.
// The value is matched as given; surrounding whitespace makes it invalid.
func IsValidEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	return emailRegex.MatchString(email)
}

// RegisterAccount reports whether the three fields are eligible for
// registration. Checks run in order username, password, email and stop at
// the first failure.
func RegisterAccount(username, password, email string) bool {
	if !IsValidUsername(username) {
		return false
	}
	if !IsValidPassword(password) {
		return false
	}
	return IsValidEmail(email)
}
