package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Veraticus/regexp-match/pkg/config"
	"github.com/Veraticus/regexp-match/pkg/interfaces"
	"github.com/Veraticus/regexp-match/pkg/matcher"
	"github.com/Veraticus/regexp-match/pkg/oracle"
	"github.com/Veraticus/regexp-match/pkg/process"
	"github.com/Veraticus/regexp-match/pkg/types"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// Dependencies holds all the dependencies for the application
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger
	Tester interfaces.PatternTester
}

// NewDependencies creates all dependencies with the given configuration
func NewDependencies(cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if cfg.EnginePath == "" {
		logger.Debug("evaluating patterns in-process")
		deps.Tester = oracle.NewTester(matcher.Default)
		return deps, nil
	}

	// The engine runs with an empty environment, so PATH lookups happen here.
	enginePath, err := resolveEngine(cfg.EnginePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("evaluating patterns in engine process", zap.String("engine", enginePath))

	deps.Tester = process.NewRunner(process.RunnerConfig{
		EnginePath:     enginePath,
		EngineArgs:     cfg.EngineArgs,
		Timeout:        cfg.Timeout,
		MaxInputBytes:  cfg.MaxInputBytes,
		MaxOutputBytes: cfg.MaxOutputBytes,
		MemoryLimitMB:  cfg.MemoryLimitMB,
	}, logger)

	return deps, nil
}

// resolveEngine returns an absolute path to an executable engine binary
func resolveEngine(path string) (string, error) {
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", fmt.Errorf("engine %q not found: %w", path, err)
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to resolve engine path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to stat engine: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("engine %q is not a regular file", abs)
	}
	return abs, nil
}

// Close cleans up all dependencies
func (d *Dependencies) Close() {
	if d.Logger != nil {
		_ = d.Logger.Sync() // Best effort
	}
}

// Application represents the main application
type Application struct {
	deps *Dependencies
}

// NewApplication creates a new application with the given dependencies
func NewApplication(deps *Dependencies) *Application {
	return &Application{
		deps: deps,
	}
}

// Query answers req and returns the result document to print together with
// the process exit code. Problems with the pattern or text are data and exit
// cleanly; a broken engine does not.
func (a *Application) Query(ctx context.Context, req types.Request) (types.Result, int) {
	outcome := a.deps.Tester.TestPattern(ctx, req)
	if outcome.Err == nil {
		return types.Matched(outcome.IsMatch), exitOK
	}

	msg := process.ClientError(outcome.Err)
	if errors.Is(outcome.Err, types.ErrRuntime) || errors.Is(outcome.Err, process.ErrInput) {
		return types.Failed(msg), exitOK
	}

	a.deps.Logger.Error("pattern test failed", zap.Error(outcome.Err))
	return types.Failed(msg), exitFailure
}
