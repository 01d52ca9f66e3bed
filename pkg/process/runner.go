package process

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Veraticus/regexp-match/pkg/interfaces"
	"github.com/Veraticus/regexp-match/pkg/types"
)

var (
	// ErrInput means the request was refused before an engine was started.
	ErrInput = errors.New("invalid input")
	// ErrTimeout means the engine did not answer within the deadline.
	ErrTimeout = errors.New("engine timed out")
	// ErrStart means the engine process could not be started.
	ErrStart = errors.New("engine could not be started")
	// ErrEngineFailed means the engine exited with a non-zero status.
	ErrEngineFailed = errors.New("engine failed")
	// ErrOutputLimit means the engine wrote more than the output cap.
	ErrOutputLimit = errors.New("engine output limit exceeded")
	// ErrOutputJSON means the engine wrote something other than a result document.
	ErrOutputJSON = errors.New("invalid engine output")
)

const (
	// DefaultTimeout is the per-query wall clock budget.
	DefaultTimeout = 100 * time.Millisecond
	// DefaultMaxInputBytes matches the oracle's own input cap.
	DefaultMaxInputBytes = 1 << 20

	stderrExcerptBytes = 512
)

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	EnginePath     string
	EngineArgs     []string
	Env            []string
	Timeout        time.Duration
	MaxInputBytes  int
	MaxOutputBytes int
	MemoryLimitMB  int
}

// Runner answers pattern queries by running the oracle binary once per query.
type Runner struct {
	cfg      RunnerConfig
	executor Executor
	logger   *zap.Logger
}

// Ensure Runner implements PatternTester
var _ interfaces.PatternTester = (*Runner)(nil)

// NewRunner creates a runner backed by an ExecExecutor.
func NewRunner(cfg RunnerConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NewRunnerWithExecutor(cfg, NewExecExecutor(cfg.MaxOutputBytes, logger), logger)
}

// NewRunnerWithExecutor creates a runner that starts engines through executor.
func NewRunnerWithExecutor(cfg RunnerConfig, executor Executor, logger *zap.Logger) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxInputBytes <= 0 {
		cfg.MaxInputBytes = DefaultMaxInputBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		executor: executor,
		logger:   logger,
	}
}

// TestPattern runs the engine on req and lifts its result document into an
// Outcome. Data failures reported by the engine wrap types.ErrRuntime; every
// other error wraps one of the sentinel errors of this package.
func (r *Runner) TestPattern(ctx context.Context, req types.Request) types.Outcome {
	logger := r.logger.With(zap.String("invocation_id", uuid.NewString()))

	outcome := r.testPattern(ctx, req)
	if outcome.Err != nil && !errors.Is(outcome.Err, types.ErrRuntime) {
		logger.Warn("pattern test failed", zap.Error(outcome.Err))
	} else {
		logger.Debug("pattern test finished",
			zap.Bool("is_match", outcome.IsMatch),
			zap.Bool("rejected", outcome.Err != nil),
		)
	}
	return outcome
}

func (r *Runner) testPattern(ctx context.Context, req types.Request) types.Outcome {
	payload, err := req.ToJSON()
	if err != nil {
		return types.Outcome{Err: fmt.Errorf("%w: %v", ErrInput, err)}
	}
	if len(payload) > r.cfg.MaxInputBytes {
		return types.Outcome{Err: fmt.Errorf("%w: request is %d bytes, limit is %d",
			ErrInput, len(payload), r.cfg.MaxInputBytes)}
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	done, err := r.executor.Execute(ctx, Command{
		Path:          r.cfg.EnginePath,
		Args:          r.cfg.EngineArgs,
		Env:           r.cfg.Env,
		Stdin:         payload,
		MemoryLimitMB: r.cfg.MemoryLimitMB,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return types.Outcome{Err: fmt.Errorf("%w after %s", ErrTimeout, r.cfg.Timeout)}
		}
		if errors.Is(err, context.Canceled) {
			return types.Outcome{Err: err}
		}
		return types.Outcome{Err: fmt.Errorf("%w: %v", ErrStart, err)}
	}

	if done.ExitCode != 0 {
		return types.Outcome{Err: fmt.Errorf("%w: exit status %d: %s",
			ErrEngineFailed, done.ExitCode, excerpt(done.Stderr))}
	}
	if done.StdoutTruncated {
		return types.Outcome{Err: ErrOutputLimit}
	}

	result, err := types.ResultFromJSON(done.Stdout)
	if err != nil {
		return types.Outcome{Err: fmt.Errorf("%w: %v", ErrOutputJSON, err)}
	}
	return result.ToOutcome()
}

// excerpt returns a short, single-line prefix of an engine's stderr
func excerpt(stderr []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(stderr)), "\uFFFD")
	if len(s) > stderrExcerptBytes {
		s = s[:stderrExcerptBytes]
		for !utf8.ValidString(s) {
			s = s[:len(s)-1]
		}
		s += "..."
	}
	if s == "" {
		return "no diagnostic"
	}
	return strings.ReplaceAll(s, "\n", " | ")
}

// ClientError converts an error from a PatternTester into a string that is
// safe to hand back to the caller. Diagnostics the engine reported as data are
// passed through; infrastructure details are not.
func ClientError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, types.ErrRuntime):
		return strings.TrimPrefix(err.Error(), types.ErrRuntime.Error()+": ")
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return "pattern matching timed out"
	case errors.Is(err, context.Canceled):
		return "pattern matching canceled"
	case errors.Is(err, ErrInput):
		return "invalid pattern or text input format"
	case errors.Is(err, ErrOutputJSON), errors.Is(err, ErrOutputLimit):
		return "engine output error"
	case errors.Is(err, ErrEngineFailed), errors.Is(err, ErrStart):
		return "engine execution failed"
	default:
		return "internal error"
	}
}
