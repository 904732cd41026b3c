package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vk/grifork/internal/config"
	"github.com/vk/grifork/internal/ctxlog"
	"github.com/vk/grifork/internal/dsl"
	"github.com/vk/grifork/internal/fsutil"
	"github.com/vk/grifork/internal/logfile"
)

// ErrHookNotDefined is returned when the resolved configuration has no task
// for the requested hook.
var ErrHookNotDefined = errors.New("hook is not defined for this role")

// App encapsulates the application's dependencies and configuration.
type App struct {
	logger *slog.Logger
	config *Config
	interp *dsl.Interpreter
}

// NewApp is the constructor for the main application. Logs are written to
// logW; opts configure the script interpreter.
func NewApp(logW io.Writer, cfg *Config, opts ...dsl.Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.", "on_remote", cfg.OnRemote)

	return &App{
		logger: logger,
		config: cfg,
		interp: dsl.New(opts...),
	}
}

// Resolve interprets script and merges every override in order over it.
func (a *App) Resolve(ctx context.Context, script string, merges ...string) (*config.Config, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	cfg, err := a.interp.LoadFile(ctx, script, a.config.OnRemote)
	if err != nil {
		return nil, err
	}
	for _, path := range merges {
		cfg, err = a.interp.LoadAndMerge(ctx, cfg, path)
		if err != nil {
			return nil, err
		}
	}

	a.logger.Debug("Configuration resolved.", "script", script, "merges", len(merges))
	return cfg, nil
}

// ScriptResult is the outcome of validating one script.
type ScriptResult struct {
	Path   string
	Config *config.Config
	Err    error
}

// Validate loads every script found under paths. Individual load failures
// are reported in the results; the error is only set when paths cannot be
// searched.
func (a *App) Validate(ctx context.Context, paths ...string) ([]ScriptResult, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	scripts, err := fsutil.FindScripts(paths...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Discovered scripts.", "count", len(scripts))

	results := make([]ScriptResult, 0, len(scripts))
	for _, path := range scripts {
		cfg, err := a.interp.LoadFile(ctx, path, a.config.OnRemote)
		results = append(results, ScriptResult{Path: path, Config: cfg, Err: err})
	}
	return results, nil
}

// RunHook resolves script, merges the overrides and runs the named hook
// (prepare, local, remote or finish) with args.
//
// When the configuration names a log file, hook logs are appended to it as
// JSON lines. Every invocation is tagged with a fresh run_id.
func (a *App) RunHook(ctx context.Context, script string, merges []string, name string, args []string) (any, error) {
	if !slices.Contains(config.TaskSlots, name) {
		return nil, fmt.Errorf("unknown hook %q: expected one of %s", name, strings.Join(config.TaskSlots, ", "))
	}

	cfg, err := a.Resolve(ctx, script, merges...)
	if err != nil {
		return nil, err
	}
	tk, ok := cfg.Task(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrHookNotDefined)
	}

	logger := a.logger
	if l, ok := cfg.Log.Get(); ok {
		w, err := logfile.Open(filepath.Dir(script), l.File)
		if err != nil {
			return nil, err
		}
		defer w.Close()
		a.logger.Debug("Writing hook logs to file.", "path", w.Path())
		logger = newLogger(cmp.Or(l.Level, "info"), "json", w)
	}
	logger = logger.With("run_id", uuid.NewString(), "hook", name, "on_remote", cfg.OnRemote)
	ctx = ctxlog.WithLogger(ctx, logger)

	callArgs := make([]any, len(args))
	for i, arg := range args {
		callArgs[i] = arg
	}

	logger.Info("Hook started.", "args", args)
	start := time.Now()
	result, err := tk.Run(ctx, callArgs...)
	if err != nil {
		logger.Error("Hook failed.", "error", err, "duration", time.Since(start))
		return nil, fmt.Errorf("failed to run hook %s: %w", name, err)
	}
	logger.Info("Hook finished.", "duration", time.Since(start))
	return result, nil
}
