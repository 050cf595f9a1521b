package account

import (
	"strings"
	"sync"
	"testing"
)

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"validuser", true},
		{"u", true},
		{" padded ", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			if got := IsValidUsername(tt.username); got != tt.want {
				t.Errorf("IsValidUsername(%q) = %v, want %v", tt.username, got, tt.want)
			}
		})
	}
}

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"empty", "", false},
		{"short", "short", false},
		{"six chars", "123456", false},
		{"seven chars", "1234567", true},
		{"long", "validpass123", true},
		{"six runes multibyte", "mậtkhẩ", false},
		{"seven runes multibyte", "mậtkhẩu", true},
		{"spaces count", "       ", true},
		{"four emoji", "😀😀😀😀", false},
		{"seven emoji", "😀😀😀😀😀😀😀", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidPassword(tt.password); got != tt.want {
				t.Errorf("IsValidPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		// Valid
		{"test@example.com", true},
		{"valid@example.com", true},
		{"user.name@domain.co.uk", true},
		{"user+tag@example.org", true},
		{"test.user@sub.domain.com", true},
		{"a_b&c*d-e@x-y.io", true},
		{"user@example.museum", true},

		// Invalid: empty/whitespace
		{"", false},
		{"   ", false},

		// Invalid: missing parts
		{"invalid-email", false},
		{"test@", false},
		{"@test.com", false},
		{"bobmail.com", false},
		{"user@localhost", false},

		// Invalid: dots
		{".user@example.com", false},
		{"user.@example.com", false},
		{"user..name@example.com", false},
		{"user@.example.com", false},
		{"user@example..com", false},

		// Invalid: top-level label
		{"user@example.c", false},
		{"user@example.abcdefgh", false},
		{"user@example.c0m", false},

		// Invalid: not a full match
		{" user@example.com", false},
		{"user@example.com ", false},
		{"user@example.com\n", false},
		{"User <user@example.com>", false},
		{"user name@example.com", false},
		{"ü@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestRegisterAccount(t *testing.T) {
	tests := []struct {
		name                      string
		username, password, email string
		want                      bool
	}{
		{"valid data", "validuser", "validpass123", "valid@example.com", true},
		{"empty username", "", "password123", "test@email.com", false},
		{"blank username", "   ", "password123", "test@email.com", false},
		{"short password", "user", "short", "test@email.com", false},
		{"password six chars", "user", "123456", "test@email.com", false},
		{"password seven chars", "user", "1234567", "test@email.com", true},
		{"invalid email", "user", "password123", "invalid-email", false},
		{"email without domain", "user", "password123", "test@", false},
		{"email without local part", "user", "password123", "@test.com", false},
		{"dotted email", "user", "password123", "test.user@sub.domain.com", true},
		{"empty password", "user", "", "test@email.com", false},
		{"empty email", "user", "password123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RegisterAccount(tt.username, tt.password, tt.email)
			if got != tt.want {
				t.Errorf("RegisterAccount(%q, %q, %q) = %v, want %v",
					tt.username, tt.password, tt.email, got, tt.want)
			}
			all := IsValidUsername(tt.username) && IsValidPassword(tt.password) && IsValidEmail(tt.email)
			if got != all {
				t.Errorf("RegisterAccount = %v, conjunction of field checks = %v", got, all)
			}
		})
	}
}

func TestPasswordBoundary(t *testing.T) {
	for n := 0; n <= 12; n++ {
		p := strings.Repeat("x", n)
		want := n > 6
		if got := IsValidPassword(p); got != want {
			t.Errorf("IsValidPassword(len %d) = %v, want %v", n, got, want)
		}
	}
}

func TestConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if !RegisterAccount("user", "password123", "user@example.com") {
					t.Error("valid registration rejected")
					return
				}
				if RegisterAccount("user", "password123", "@example.com") {
					t.Error("invalid registration accepted")
					return
				}
			}
		}()
	}
	wg.Wait()
}
