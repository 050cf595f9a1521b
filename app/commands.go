package app

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/regcheck/account"
	"github.com/dalemusser/regcheck/api"
	"github.com/dalemusser/regcheck/cases"
	"github.com/dalemusser/regcheck/metrics"
	"github.com/dalemusser/regcheck/pantry/ratelimit"
	"github.com/dalemusser/regcheck/report"
	"github.com/dalemusser/regcheck/router"
	"github.com/dalemusser/regcheck/server"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func checkFlags(fs *pflag.FlagSet) {
	fs.String("sheet", "", "Worksheet to read from an .xlsx cases file (default: first sheet)")
}

// runCheck loads cases from the positional argument, then cases_file, then
// the built-in set, and writes the report.
func runCheck(_ context.Context, a *App, env *runEnv) int {
	cfg, logger := env.cfg, env.logger

	path := cfg.CasesFile
	if env.fs.NArg() > 0 {
		path = env.fs.Arg(0)
	}

	var cs []cases.Case
	if path == "" {
		cs = cases.Builtin()
		logger.Info("running built-in cases", zap.Int("count", len(cs)))
	} else {
		sheet, _ := env.fs.GetString("sheet")
		loaded, err := cases.Load(path, cases.WithSheet(sheet))
		if err != nil {
			logger.Error("load cases failed", zap.String("file", path), zap.Error(err))
			return ExitError
		}
		cs = loaded
		logger.Info("loaded cases", zap.String("file", path), zap.Int("count", len(cs)))
	}

	metrics.RegisterDefault(logger)
	summary := report.Run(cs,
		report.WithRecorder(metrics.Recorder{}),
		report.WithLocale(cfg.Locale),
	)

	if err := report.Save(cfg.ReportFile, cfg.ReportFormat, summary); err != nil {
		logger.Error("write report failed", zap.String("file", cfg.ReportFile), zap.Error(err))
		return ExitError
	}
	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("write metrics textfile failed", zap.String("file", cfg.MetricsTextfile), zap.Error(err))
			return ExitError
		}
	}

	for _, r := range summary.FailedResults() {
		logger.Warn("case failed",
			zap.String("source", r.Case.Source),
			zap.String("case", r.Case.Name),
			zap.Bool("expected", r.Case.Expected),
			zap.Bool("actual", r.Actual),
		)
	}
	fmt.Fprintf(a.Stdout, "%d cases: %d passed, %d failed. Report written to %s\n",
		summary.Total(), summary.Passed, summary.Failed, cfg.ReportFile)

	if !summary.OK() {
		return ExitFailed
	}
	return ExitOK
}

func validateFlags(fs *pflag.FlagSet) {
	fs.String(account.FieldUsername, "", "Username to validate (omit for absent)")
	fs.String(account.FieldPassword, "", "Password to validate (omit for absent)")
	fs.String(account.FieldEmail, "", "Email to validate (omit for absent)")
}

// runValidate prints one line per field and the overall eligibility. A flag
// that is not given is the absent value.
func runValidate(_ context.Context, a *App, env *runEnv) int {
	flag := func(name string) *string {
		if !env.fs.Changed(name) {
			return nil
		}
		v, _ := env.fs.GetString(name)
		return &v
	}
	reg := account.Registration{
		Username: flag(account.FieldUsername),
		Password: flag(account.FieldPassword),
		Email:    flag(account.FieldEmail),
	}

	messages := account.DefaultMessages()
	errs := messages.Localize(reg.Check(), env.cfg.Locale)
	failed := errs.ByField()

	for _, field := range []string{account.FieldUsername, account.FieldPassword, account.FieldEmail} {
		if msg, ok := failed[field]; ok {
			fmt.Fprintf(a.Stdout, "%-9s FAIL  %s\n", field+":", msg)
		} else {
			fmt.Fprintf(a.Stdout, "%-9s ok\n", field+":")
		}
	}

	valid := reg.Valid()
	fmt.Fprintf(a.Stdout, "eligible: %t\n", valid)
	env.logger.Debug("registration validated", zap.Bool("valid", valid), zap.Strings("failed_rules", errs.Rules()))
	if !valid {
		return ExitFailed
	}
	return ExitOK
}

// runServe serves the HTTP API until SIGINT/SIGTERM or ctx is canceled.
func runServe(ctx context.Context, _ *App, env *runEnv) int {
	cfg, logger := env.cfg, env.logger

	metrics.RegisterDefault(logger)

	ctx, cancel := server.WithShutdownSignals(ctx, logger)
	defer cancel()

	var limiter *ratelimit.KeyLimiter
	if cfg.HTTP.RateLimitRPS > 0 {
		limiter = ratelimit.NewKeyLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst, time.Hour)
		go limiter.Run(ctx)
		logger.Info("rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS), zap.Int("burst", cfg.HTTP.RateLimitBurst))
	}
	if cfg.HTTP.APIKey == "" && cfg.Env == "prod" {
		logger.Warn("api_key is empty; /api is open to any client")
	}

	h := api.NewHandler(metrics.Recorder{}, logger)
	srv := server.New(cfg, router.New(cfg, h, limiter, logger), logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return ExitError
	}
	logger.Info("server stopped")
	return ExitOK
}
