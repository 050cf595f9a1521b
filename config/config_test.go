package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	fs := NewFlagSet("test")
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := Load(nil, fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg := parse(t)

	if cfg.Env != "dev" || cfg.LogLevel != "info" {
		t.Errorf("env/log_level = %q/%q", cfg.Env, cfg.LogLevel)
	}
	if cfg.ReportFile != "UnitTest_Results.txt" || cfg.ReportFormat != "auto" {
		t.Errorf("report = %q/%q", cfg.ReportFile, cfg.ReportFormat)
	}
	if cfg.Locale != "en" {
		t.Errorf("locale = %q, want en", cfg.Locale)
	}
	if cfg.HTTP.HTTPPort != 8080 {
		t.Errorf("http_port = %d, want 8080", cfg.HTTP.HTTPPort)
	}
	if cfg.HTTP.ShutdownTimeout != 10*time.Second || cfg.HTTP.IdleTimeout != time.Minute {
		t.Errorf("timeouts = %v/%v", cfg.HTTP.ShutdownTimeout, cfg.HTTP.IdleTimeout)
	}
	if cfg.HTTP.MaxRequestBodyBytes != 1<<20 {
		t.Errorf("max_request_body_bytes = %d", cfg.HTTP.MaxRequestBodyBytes)
	}
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := "log_level: debug\nhttp_port: 7000\nlocale: vi\nreport_file: from-file.txt\n"
	if err := os.WriteFile("config.yaml", []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REGCHECK_HTTP_PORT", "7100")
	t.Setenv("REGCHECK_REPORT_FILE", "from-env.csv")

	cfg := parse(t, "--report_file", "from-flag.xlsx", "--read_timeout", "30")

	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug (file)", cfg.LogLevel)
	}
	if cfg.Locale != "vi" {
		t.Errorf("locale = %q, want vi (file)", cfg.Locale)
	}
	if cfg.HTTP.HTTPPort != 7100 {
		t.Errorf("http_port = %d, want 7100 (env over file)", cfg.HTTP.HTTPPort)
	}
	if cfg.ReportFile != "from-flag.xlsx" {
		t.Errorf("report_file = %q, want flag value", cfg.ReportFile)
	}
	if cfg.HTTP.ReadTimeout != 30*time.Second {
		t.Errorf("read_timeout = %v, want 30s", cfg.HTTP.ReadTimeout)
	}
}

func TestLoad_CORSLists(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REGCHECK_ENABLE_CORS", "true")
	t.Setenv("REGCHECK_CORS_ALLOWED_ORIGINS", `["https://a.example","https://b.example"]`)

	cfg := parse(t)
	if !cfg.CORS.EnableCORS {
		t.Fatal("enable_cors = false")
	}
	if got := cfg.CORS.CORSAllowedOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Errorf("origins = %v", got)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"env", []string{"--env", "staging"}, "env must be"},
		{"log level", []string{"--log_level", "loud"}, "log_level must be"},
		{"format", []string{"--report_format", "pdf"}, "report_format must be"},
		{"locale", []string{"--locale", "fr"}, "locale must be"},
		{"port", []string{"--http_port", "70000"}, "http_port must be"},
		{"https without certs", []string{"--use_https"}, "REGCHECK_CERT_FILE"},
		{"duration", []string{"--shutdown_timeout", "soon"}, "shutdown_timeout"},
		{"negative duration", []string{"--idle_timeout=-5s"}, "idle_timeout"},
		{"cors without origins", []string{"--enable_cors"}, "cors_allowed_origins"},
		{"bad cors json", []string{"--cors_allowed_origins", "https://a"}, "JSON array"},
		{"negative rate", []string{"--rate_limit_rps=-1"}, "rate_limit_rps"},
		{"zero burst", []string{"--rate_limit_rps", "5", "--rate_limit_burst", "0"}, "rate_limit_burst"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			fs := NewFlagSet("test")
			if err := fs.Parse(tt.args); err != nil {
				t.Fatalf("parse: %v", err)
			}
			_, err := Load(nil, fs)
			if err == nil {
				t.Fatal("Load: want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDumpMasksAPIKey(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{APIKey: "s3cret"}}
	out := cfg.Dump()
	if strings.Contains(out, "s3cret") {
		t.Errorf("Dump leaked the API key:\n%s", out)
	}
	if cfg.HTTP.APIKey != "s3cret" {
		t.Error("Dump modified the receiver")
	}
}

func TestParseDuration(t *testing.T) {
	def := 5 * time.Second
	tests := []struct {
		raw     any
		want    time.Duration
		wantErr bool
	}{
		{"90s", 90 * time.Second, false},
		{"2m", 2 * time.Minute, false},
		{"120", 120 * time.Second, false},
		{"1.5", 1500 * time.Millisecond, false},
		{"", def, false},
		{30, 30 * time.Second, false},
		{int64(3), 3 * time.Second, false},
		{0.5, 500 * time.Millisecond, false},
		{time.Minute, time.Minute, false},
		{nil, def, false},
		{"abc", def, true},
		{"0s", def, true},
		{-1, def, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.raw, def)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDuration(%v) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseDuration(%v) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
