// app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dalemusser/regcheck/config"
	"github.com/dalemusser/regcheck/logging"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time with -ldflags "-X github.com/dalemusser/regcheck/app.Version=...".
var Version = "dev"

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1 // cases failed or registration ineligible
	ExitError  = 2 // usage, config or I/O error
)

// App runs one regcheck command. Stdout carries command output; logs go
// to Stderr.
type App struct {
	Name   string
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an App bound to the process's standard streams.
func New(name string) *App {
	return &App{Name: name, Stdout: os.Stdout, Stderr: os.Stderr}
}

type command struct {
	name    string
	summary string
	flags   func(fs *pflag.FlagSet)
	run     func(ctx context.Context, a *App, env *runEnv) int
}

// runEnv is what a command receives after the startup sequence.
type runEnv struct {
	cfg    *config.Config
	fs     *pflag.FlagSet
	logger *zap.Logger
}

var commands = []command{
	{name: "check", summary: "run registration cases and write the results report", flags: checkFlags, run: runCheck},
	{name: "validate", summary: "validate one registration given as flags", flags: validateFlags, run: runValidate},
	{name: "serve", summary: "serve the validation HTTP API", run: runServe},
	{name: "version", summary: "print the version"},
}

// Run executes the command named by args[0] and returns the process exit
// code. The startup sequence is:
//
//  1. Bootstrap logger
//  2. Parse flags and load config (flags > env > config file > defaults)
//  3. Build the final logger from config
//  4. Hand off to the command
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		a.usage()
		return ExitError
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
		}
	}
	switch {
	case cmd == nil && (args[0] == "help" || args[0] == "-h" || args[0] == "--help"):
		a.usage()
		return ExitOK
	case cmd == nil:
		fmt.Fprintf(a.Stderr, "unknown command: %q\n\n", args[0])
		a.usage()
		return ExitError
	case cmd.run == nil:
		fmt.Fprintf(a.Stdout, "%s %s\n", a.Name, Version)
		return ExitOK
	}

	bootstrap := logging.BootstrapLogger()
	defer func() { _ = bootstrap.Sync() }()

	fs := config.NewFlagSet(a.Name + " " + cmd.name)
	fs.SetOutput(a.Stderr)
	if cmd.flags != nil {
		cmd.flags(fs)
	}
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return ExitOK
		}
		return ExitError
	}

	cfg, err := config.Load(bootstrap, fs)
	if err != nil {
		bootstrap.Error("config load failed", zap.Error(err))
		return ExitError
	}

	logger, err := logging.Build(cfg.LogLevel, cfg.Env, zapcore.AddSync(a.Stderr))
	if err != nil {
		bootstrap.Error("logger build failed", zap.Error(err))
		return ExitError
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("config loaded", zap.String("command", cmd.name), zap.String("config", cfg.Dump()))

	return cmd.run(ctx, a, &runEnv{cfg: cfg, fs: fs, logger: logger})
}

func (a *App) usage() {
	fmt.Fprintf(a.Stderr, "Usage: %s <command> [flags]\n\nCommands:\n", a.Name)
	for _, c := range commands {
		fmt.Fprintf(a.Stderr, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(a.Stderr, "\nRun '%s <command> --help' for the flags of a command.\n", a.Name)
}
