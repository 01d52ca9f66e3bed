// Command regexp-oracle answers one "does pattern match text?" query.
//
// It reads a JSON document {"pattern": ..., "text": ...} of at most 1 MiB
// from stdin and writes {"is_match": ..., "error": ...} to stdout. Problems
// with the request are reported in the error field with exit status 0. The
// process exits non-zero, without a result, only when stdin or stdout fail.
package main

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Veraticus/regexp-match/pkg/oracle"
)

func main() {
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr))
}

func run(stdin io.Reader, stdout, stderr io.Writer) int {
	logger := newLogger(stderr)
	defer func() { _ = logger.Sync() }()

	if err := oracle.Run(stdin, stdout); err != nil {
		logger.Error("request could not be served", zap.Error(err))
		return 1
	}
	return 0
}

// newLogger writes error-level JSON lines to w. Nothing else is ever logged,
// so a healthy invocation leaves stderr empty.
func newLogger(w io.Writer) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(zapcore.AddSync(w)),
		zapcore.ErrorLevel,
	)
	return zap.New(core).Named("regexp-oracle")
}
