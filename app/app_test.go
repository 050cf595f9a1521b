package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &App{Name: "regcheck", Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

func TestCheckBuiltin(t *testing.T) {
	reportFile := filepath.Join(t.TempDir(), "UnitTest_Results.txt")
	a, stdout, stderr := newTestApp()

	code := a.Run(context.Background(), []string{"check", "--report_file", reportFile})
	if code != ExitOK {
		t.Fatalf("exit = %d, stderr:\n%s", code, stderr)
	}
	if !strings.Contains(stdout.String(), "0 failed") {
		t.Errorf("stdout = %q", stdout)
	}
	b, err := os.ReadFile(reportFile)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	for _, want := range []string{"=== UNIT TEST RESULTS ===", "=== SUMMARY ===", "Username: null"} {
		if !strings.Contains(string(b), want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestCheckCSVWithFailures(t *testing.T) {
	dir := t.TempDir()
	casesFile := filepath.Join(dir, "cases.csv")
	csv := "username,password,email,expected\n" +
		"john123,pass123,john@example.com,true\n" +
		"alice,short,alice@mail.com,true\n"
	if err := os.WriteFile(casesFile, []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}
	reportFile := filepath.Join(dir, "results.csv")
	textfile := filepath.Join(dir, "regcheck.prom")

	a, stdout, stderr := newTestApp()
	code := a.Run(context.Background(), []string{
		"check", casesFile,
		"--report_file", reportFile,
		"--metrics_textfile", textfile,
	})
	if code != ExitFailed {
		t.Fatalf("exit = %d, want %d; stderr:\n%s", code, ExitFailed, stderr)
	}
	if !strings.Contains(stdout.String(), "2 cases: 1 passed, 1 failed") {
		t.Errorf("stdout = %q", stdout)
	}
	if b, err := os.ReadFile(reportFile); err != nil || !strings.HasPrefix(string(b), "source,") {
		t.Errorf("csv report: %v %q", err, b)
	}
	if _, err := os.Stat(textfile); err != nil {
		t.Errorf("metrics textfile: %v", err)
	}
}

func TestCheckMissingFile(t *testing.T) {
	a, _, _ := newTestApp()
	code := a.Run(context.Background(), []string{"check", filepath.Join(t.TempDir(), "nope.csv"),
		"--report_file", filepath.Join(t.TempDir(), "r.txt")})
	if code != ExitError {
		t.Errorf("exit = %d, want %d", code, ExitError)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     []string
	}{
		{
			name:     "eligible",
			args:     []string{"--username", "validUser", "--password", "password123", "--email", "test@example.com"},
			wantCode: ExitOK,
			want:     []string{"eligible: true", "username: ok"},
		},
		{
			name:     "invalid email",
			args:     []string{"--username", "user", "--password", "password123", "--email", "invalid-email"},
			wantCode: ExitFailed,
			want:     []string{"eligible: false", "email must be a valid email address"},
		},
		{
			name:     "absent username",
			args:     []string{"--password", "password123", "--email", "test@example.com"},
			wantCode: ExitFailed,
			want:     []string{"username is required"},
		},
		{
			name:     "vietnamese messages",
			args:     []string{"--username", "user", "--password", "123456", "--email", "user@example.com", "--locale", "vi"},
			wantCode: ExitFailed,
			want:     []string{"phải có ít nhất 7 ký tự"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, stdout, stderr := newTestApp()
			code := a.Run(context.Background(), append([]string{"validate"}, tt.args...))
			if code != tt.wantCode {
				t.Fatalf("exit = %d, want %d; stderr:\n%s", code, tt.wantCode, stderr)
			}
			for _, w := range tt.want {
				if !strings.Contains(stdout.String(), w) {
					t.Errorf("stdout missing %q:\n%s", w, stdout)
				}
			}
		})
	}
}

func TestUsageAndVersion(t *testing.T) {
	a, stdout, _ := newTestApp()
	if code := a.Run(context.Background(), []string{"version"}); code != ExitOK {
		t.Errorf("version exit = %d", code)
	}
	if !strings.Contains(stdout.String(), Version) {
		t.Errorf("version output = %q", stdout)
	}

	a, _, stderr := newTestApp()
	if code := a.Run(context.Background(), nil); code != ExitError {
		t.Errorf("no args exit = %d", code)
	}
	if code := a.Run(context.Background(), []string{"frobnicate"}); code != ExitError {
		t.Errorf("unknown command exit = %d", code)
	}
	if !strings.Contains(stderr.String(), `unknown command: "frobnicate"`) {
		t.Errorf("stderr = %q", stderr)
	}

	if code := a.Run(context.Background(), []string{"check", "--no-such-flag"}); code != ExitError {
		t.Errorf("bad flag exit = %d", code)
	}
	if code := a.Run(context.Background(), []string{"check", "--report_format", "pdf",
		"--report_file", filepath.Join(t.TempDir(), "r")}); code != ExitError {
		t.Errorf("invalid config exit = %d", code)
	}
}
