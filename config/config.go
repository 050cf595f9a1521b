// config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dalemusser/regcheck/account"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes every environment variable, e.g. REGCHECK_LOG_LEVEL.
const EnvPrefix = "REGCHECK"

// HTTPConfig groups the settings of the serve command.
type HTTPConfig struct {
	HTTPPort  int    `mapstructure:"http_port"`
	HTTPSPort int    `mapstructure:"https_port"`
	UseHTTPS  bool   `mapstructure:"use_https"`
	CertFile  string `mapstructure:"cert_file"`
	KeyFile   string `mapstructure:"key_file"`

	// Parsed separately so "30s", "30" and 30 are all accepted.
	ReadTimeout     time.Duration `mapstructure:"-"`
	WriteTimeout    time.Duration `mapstructure:"-"`
	IdleTimeout     time.Duration `mapstructure:"-"`
	ShutdownTimeout time.Duration `mapstructure:"-"`

	MaxRequestBodyBytes int64 `mapstructure:"max_request_body_bytes"`

	// APIKey, when set, is required on /api requests.
	APIKey string `mapstructure:"api_key"`

	// Per client IP; RateLimitRPS <= 0 disables limiting.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// CORSConfig groups CORS behavior and lists.
type CORSConfig struct {
	EnableCORS           bool     `mapstructure:"enable_cors"`
	CORSAllowedOrigins   []string `mapstructure:"cors_allowed_origins"`
	CORSAllowedMethods   []string `mapstructure:"cors_allowed_methods"`
	CORSAllowedHeaders   []string `mapstructure:"cors_allowed_headers"`
	CORSAllowCredentials bool     `mapstructure:"cors_allow_credentials"`
	CORSMaxAge           int      `mapstructure:"cors_max_age"`
}

// Config is the complete regcheck configuration.
type Config struct {
	Env      string `mapstructure:"env"`       // "dev" | "prod"
	LogLevel string `mapstructure:"log_level"` // debug, info, warn, error …

	// check command
	CasesFile       string `mapstructure:"cases_file"`
	ReportFile      string `mapstructure:"report_file"`
	ReportFormat    string `mapstructure:"report_format"`
	MetricsTextfile string `mapstructure:"metrics_textfile"`

	// message locale for failed rules
	Locale string `mapstructure:"locale"`

	HTTP HTTPConfig `mapstructure:",squash"`
	CORS CORSConfig `mapstructure:",squash"`
}

// Dump returns a pretty JSON string of the config for debug logging, with
// the API key masked.
func (c Config) Dump() string {
	if c.HTTP.APIKey != "" {
		c.HTTP.APIKey = "****"
	}
	b, _ := json.MarshalIndent(c, "", "  ")
	return string(b)
}

// NewFlagSet returns a flag set with every config key defined. Callers may
// add their own flags before parsing it and handing it to Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)

	fs.String("env", "dev", `Runtime environment "dev"|"prod"`)
	fs.String("log_level", "info", "Log level")

	fs.String("cases_file", "", "Cases file (.csv, .xlsx, .yaml); empty runs the built-in cases")
	fs.String("report_file", "UnitTest_Results.txt", "Report output file")
	fs.String("report_format", "auto", "Report format: auto, text, csv, xlsx")
	fs.String("metrics_textfile", "", "Write Prometheus metrics to this file after a check run")
	fs.String("locale", account.LocaleEnglish, "Message locale for failed rules")

	fs.Int("http_port", 8080, "HTTP port")
	fs.Int("https_port", 443, "HTTPS port")
	fs.Bool("use_https", false, "Serve HTTPS")
	fs.String("cert_file", "", "TLS cert file")
	fs.String("key_file", "", "TLS key file")
	fs.String("read_timeout", "15s", "HTTP read timeout")
	fs.String("write_timeout", "15s", "HTTP write timeout")
	fs.String("idle_timeout", "60s", "HTTP idle timeout")
	fs.String("shutdown_timeout", "10s", "Graceful shutdown timeout")
	fs.Int64("max_request_body_bytes", 1<<20, "Max HTTP request body size in bytes (0 = unlimited)")
	fs.String("api_key", "", "Require this key on /api requests (empty = open)")
	fs.Float64("rate_limit_rps", 0, "Requests per second per client IP (0 = unlimited)")
	fs.Int("rate_limit_burst", 20, "Rate limit burst size")

	fs.Bool("enable_cors", false, "Enable CORS")
	fs.String("cors_allowed_origins", "", `JSON array of origins, e.g. '["https://a.example"]'`)
	fs.String("cors_allowed_methods", "", `JSON array of methods, e.g. '["GET","POST"]'`)
	fs.String("cors_allowed_headers", "", `JSON array of headers, e.g. '["Content-Type"]'`)
	fs.Bool("cors_allow_credentials", false, "CORS: allow credentials")
	fs.Int("cors_max_age", 0, "CORS: max age seconds (0 disables cache)")

	return fs
}

// Load merges defaults → config.* file → env vars → explicit flags.
// Final precedence (highest wins): flags(explicit) > env > config > defaults.
// fs must come from NewFlagSet and already be parsed; nil means no flags.
func Load(logger *zap.Logger, fs *pflag.FlagSet) (*Config, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err == nil {
		logger.Info("loaded .env file")
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for _, k := range allKeys() {
		_ = v.BindEnv(k)
	}

	for _, ext := range [...]string{"yaml", "yml", "json", "toml"} {
		file := "config." + ext
		b, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		v.SetConfigType(ext)
		if err := v.MergeConfig(bytes.NewReader(b)); err != nil {
			logger.Warn("cannot decode config file", zap.String("file", file), zap.Error(err))
			continue
		}
		logger.Info("loaded config file", zap.String("file", file))
	}

	setDefaults(v)

	if fs != nil {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				_ = v.BindPFlag(f.Name, f)
			}
		})
	}

	if err := normalizeListKeys(logger, v,
		"cors_allowed_origins",
		"cors_allowed_methods",
		"cors_allowed_headers",
	); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	var durErrs []string
	for _, d := range []struct {
		key string
		dst *time.Duration
		def time.Duration
	}{
		{"read_timeout", &cfg.HTTP.ReadTimeout, 15 * time.Second},
		{"write_timeout", &cfg.HTTP.WriteTimeout, 15 * time.Second},
		{"idle_timeout", &cfg.HTTP.IdleTimeout, 60 * time.Second},
		{"shutdown_timeout", &cfg.HTTP.ShutdownTimeout, 10 * time.Second},
	} {
		dur, err := parseDuration(v.Get(d.key), d.def)
		if err != nil {
			durErrs = append(durErrs, fmt.Sprintf("%s: %v", d.key, err))
		}
		*d.dst = dur
	}

	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.ReportFormat = strings.ToLower(strings.TrimSpace(cfg.ReportFormat))
	cfg.Locale = strings.ToLower(strings.TrimSpace(cfg.Locale))

	if err := validate(cfg, durErrs); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func allKeys() []string {
	return []string{
		"env", "log_level",
		"cases_file", "report_file", "report_format", "metrics_textfile", "locale",
		"http_port", "https_port", "use_https", "cert_file", "key_file",
		"read_timeout", "write_timeout", "idle_timeout", "shutdown_timeout",
		"max_request_body_bytes", "api_key", "rate_limit_rps", "rate_limit_burst",
		"enable_cors", "cors_allowed_origins", "cors_allowed_methods",
		"cors_allowed_headers", "cors_allow_credentials", "cors_max_age",
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")

	v.SetDefault("cases_file", "")
	v.SetDefault("report_file", "UnitTest_Results.txt")
	v.SetDefault("report_format", "auto")
	v.SetDefault("metrics_textfile", "")
	v.SetDefault("locale", account.LocaleEnglish)

	v.SetDefault("http_port", 8080)
	v.SetDefault("https_port", 443)
	v.SetDefault("use_https", false)
	v.SetDefault("cert_file", "")
	v.SetDefault("key_file", "")
	v.SetDefault("read_timeout", "15s")
	v.SetDefault("write_timeout", "15s")
	v.SetDefault("idle_timeout", "60s")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("max_request_body_bytes", int64(1<<20))
	v.SetDefault("api_key", "")
	v.SetDefault("rate_limit_rps", 0.0)
	v.SetDefault("rate_limit_burst", 20)

	v.SetDefault("enable_cors", false)
	v.SetDefault("cors_allowed_origins", []string{})
	v.SetDefault("cors_allowed_methods", []string{})
	v.SetDefault("cors_allowed_headers", []string{})
	v.SetDefault("cors_allow_credentials", false)
	v.SetDefault("cors_max_age", 0)
}

// normalizeListKeys coerces JSON-string values into []string for the given keys.
func normalizeListKeys(logger *zap.Logger, v *viper.Viper, keys ...string) error {
	for _, key := range keys {
		switch t := v.Get(key).(type) {
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				v.Set(key, []string{})
				continue
			}
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err != nil {
				return fmt.Errorf("config key %q expects a JSON array string, got %q: %w", key, s, err)
			}
			v.Set(key, arr)
		case []interface{}:
			arr := make([]string, 0, len(t))
			for _, e := range t {
				arr = append(arr, fmt.Sprint(e))
			}
			v.Set(key, arr)
		case []string, nil:
		default:
			logger.Warn("unexpected type for list key; expected JSON array/string",
				zap.String("key", key), zap.Any("value", t))
		}
	}
	return nil
}

var (
	validEnvs      = []string{"dev", "prod"}
	validFormats   = []string{"auto", "text", "txt", "csv", "xlsx", "excel"}
	validLogLevels = []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}
)

func validate(cfg Config, invalid []string) error {
	var missing []string

	if !contains(validEnvs, cfg.Env) {
		invalid = append(invalid, `env must be "dev" or "prod"`)
	}
	if !contains(validLogLevels, strings.ToLower(cfg.LogLevel)) {
		invalid = append(invalid, "log_level must be one of "+strings.Join(validLogLevels, ", "))
	}
	if !contains(validFormats, cfg.ReportFormat) {
		invalid = append(invalid, "report_format must be one of auto, text, csv, xlsx")
	}
	if strings.TrimSpace(cfg.ReportFile) == "" {
		missing = append(missing, "REGCHECK_REPORT_FILE (or --report_file)")
	}
	if locales := account.DefaultMessages().Locales(); !contains(locales, cfg.Locale) {
		invalid = append(invalid, "locale must be one of "+strings.Join(locales, ", "))
	}

	if cfg.HTTP.HTTPPort <= 0 || cfg.HTTP.HTTPPort > 65535 {
		invalid = append(invalid, "http_port must be in 1..65535")
	}
	if cfg.HTTP.HTTPSPort <= 0 || cfg.HTTP.HTTPSPort > 65535 {
		invalid = append(invalid, "https_port must be in 1..65535")
	}
	if cfg.HTTP.UseHTTPS {
		if strings.TrimSpace(cfg.HTTP.CertFile) == "" || strings.TrimSpace(cfg.HTTP.KeyFile) == "" {
			missing = append(missing, "REGCHECK_CERT_FILE and REGCHECK_KEY_FILE (or --cert_file/--key_file) for HTTPS")
		}
		if cfg.HTTP.HTTPPort == cfg.HTTP.HTTPSPort {
			invalid = append(invalid, "http_port and https_port cannot be equal when use_https=true")
		}
	}
	if cfg.HTTP.MaxRequestBodyBytes < 0 {
		invalid = append(invalid, "max_request_body_bytes must be >= 0")
	}
	if cfg.HTTP.RateLimitRPS < 0 {
		invalid = append(invalid, "rate_limit_rps must be >= 0")
	}
	if cfg.HTTP.RateLimitRPS > 0 && cfg.HTTP.RateLimitBurst < 1 {
		invalid = append(invalid, "rate_limit_burst must be >= 1 when rate_limit_rps > 0")
	}

	if cfg.CORS.EnableCORS {
		if len(cfg.CORS.CORSAllowedOrigins) == 0 {
			missing = append(missing, "CORS: cors_allowed_origins (JSON array) required when enable_cors=true")
		}
		for _, o := range cfg.CORS.CORSAllowedOrigins {
			if o == "*" && cfg.CORS.CORSAllowCredentials {
				invalid = append(invalid, `CORS: cannot use "*" in cors_allowed_origins when cors_allow_credentials=true`)
				break
			}
		}
		if cfg.CORS.CORSMaxAge < 0 {
			invalid = append(invalid, "CORS: cors_max_age must be >= 0")
		}
	}

	if len(missing) == 0 && len(invalid) == 0 {
		return nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid: "+strings.Join(invalid, ", "))
	}
	return fmt.Errorf("configuration errors: %s", strings.Join(parts, " | "))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
