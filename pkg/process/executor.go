package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxOutputBytes caps each of stdout and stderr.
	DefaultMaxOutputBytes = 64 * 1024

	// waitDelay bounds how long Wait lingers on pipes after the child is gone.
	waitDelay = time.Second

	shellPath = "/bin/sh"
)

// ExecExecutor runs engine processes with os/exec.
type ExecExecutor struct {
	maxOutputBytes int
	logger         *zap.Logger
}

// Ensure ExecExecutor implements Executor
var _ Executor = (*ExecExecutor)(nil)

// NewExecExecutor creates an executor that keeps at most maxOutputBytes of
// each output stream.
func NewExecExecutor(maxOutputBytes int, logger *zap.Logger) *ExecExecutor {
	if maxOutputBytes <= 0 {
		maxOutputBytes = DefaultMaxOutputBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecExecutor{
		maxOutputBytes: maxOutputBytes,
		logger:         logger,
	}
}

// Execute starts c, feeds it c.Stdin and waits for it to exit. A non-zero
// exit is not an error; it is reported in Completed.ExitCode. The error is
// non-nil only when the process could not be started or the context ended.
func (e *ExecExecutor) Execute(ctx context.Context, c Command) (*Completed, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("empty command")
	}

	name, args := c.Path, c.Args
	if c.MemoryLimitMB > 0 {
		// exec "$@" keeps the engine path out of the shell string.
		script := fmt.Sprintf("ulimit -v %d 2>/dev/null; exec \"$@\"", c.MemoryLimitMB*1024)
		args = append([]string{"-c", script, "_", c.Path}, c.Args...)
		name = shellPath
	}

	cmd := exec.CommandContext(ctx, name, args...)
	isolate(cmd)
	cmd.WaitDelay = waitDelay

	// Never inherit the parent environment.
	cmd.Env = append([]string{}, c.Env...)

	stdout := newCappedBuffer(e.maxOutputBytes)
	stderr := newCappedBuffer(e.maxOutputBytes)
	cmd.Stdin = bytes.NewReader(c.Stdin)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	e.logger.Debug("starting engine",
		zap.String("path", c.Path),
		zap.Int("stdin_bytes", len(c.Stdin)),
		zap.Int("memory_limit_mb", c.MemoryLimitMB),
	)

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			e.logger.Warn("engine did not finish",
				zap.Duration("duration", duration),
				zap.Error(ctxErr),
			)
			return nil, fmt.Errorf("engine stopped after %s: %w", duration.Round(time.Millisecond), ctxErr)
		}

		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("failed to run engine: %w", runErr)
		}
		exitCode = exitErr.ExitCode()
	}

	e.logger.Debug("engine finished",
		zap.Int("exit_code", exitCode),
		zap.Duration("duration", duration),
		zap.Int("stdout_bytes", len(stdout.Bytes())),
		zap.Int("stderr_bytes", len(stderr.Bytes())),
	)

	return &Completed{
		Stdout:          stdout.Bytes(),
		Stderr:          stderr.Bytes(),
		ExitCode:        exitCode,
		StdoutTruncated: stdout.Truncated(),
	}, nil
}
