package cases

import (
	"fmt"

	"github.com/dalemusser/regcheck/account"
)

// Builtin returns the standard registration scenarios: valid data, missing
// and blank usernames, short passwords around the length boundary, and
// malformed email addresses.
func Builtin() []Case {
	s := account.Str
	cs := []Case{
		// valid data
		{Name: "valid data", Registration: account.NewRegistration("validuser", "validpass123", "valid@example.com"), Expected: true},

		// username
		{Name: "empty username", Registration: account.NewRegistration("", "password123", "test@email.com"), Expected: false},
		{Name: "absent username", Registration: account.Registration{Password: s("password123"), Email: s("test@email.com")}, Expected: false},
		{Name: "blank username", Registration: account.NewRegistration("   ", "password123", "test@email.com"), Expected: false},

		// password
		{Name: "short password", Registration: account.NewRegistration("user", "short", "test@email.com"), Expected: false},
		{Name: "password of 6 characters", Registration: account.NewRegistration("user", "123456", "test@email.com"), Expected: false},
		{Name: "password of 7 characters", Registration: account.NewRegistration("user", "1234567", "test@email.com"), Expected: true},

		// email
		{Name: "email without @", Registration: account.NewRegistration("user", "password123", "invalid-email"), Expected: false},
		{Name: "email without domain", Registration: account.NewRegistration("user", "password123", "test@"), Expected: false},
		{Name: "email without local part", Registration: account.NewRegistration("user", "password123", "@test.com"), Expected: false},
		{Name: "email with dotted domain", Registration: account.NewRegistration("user", "password123", "test.user@sub.domain.com"), Expected: true},
		{Name: "email with country domain", Registration: account.NewRegistration("user", "password123", "user.name@domain.co.uk"), Expected: true},
		{Name: "email with plus tag", Registration: account.NewRegistration("user", "password123", "user+tag@example.org"), Expected: true},

		// detailed table
		{Name: "john123", Registration: account.NewRegistration("john123", "pass123", "john@example.com"), Expected: true},
		{Name: "absent username (table)", Registration: account.Registration{Password: s("pass123"), Email: s("john@example.com")}, Expected: false},
		{Name: "alice", Registration: account.NewRegistration("alice", "short", "alice@mail.com"), Expected: false},
		{Name: "bob123", Registration: account.NewRegistration("bob123", "password", "bobmail.com"), Expected: false},
		{Name: "carol", Registration: account.NewRegistration("carol", "password", "carol@domain.com"), Expected: true},
	}
	for i := range cs {
		cs[i].Source = fmt.Sprintf("builtin:%d", i+1)
	}
	return cs
}
