// Package oracle answers a single question for an untrusted caller: does
// pattern P match text T?
//
// One invocation reads a bounded request document, decodes it, evaluates the
// pattern and writes exactly one result document. Problems with the request
// content are reported inside the result; only a broken input or output
// channel surfaces as an error, and callers turn that into a non-zero exit.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/regexp-match/pkg/interfaces"
	"github.com/Veraticus/regexp-match/pkg/matcher"
	"github.com/Veraticus/regexp-match/pkg/types"
)

// Oracle runs the read, decode, evaluate, write cycle.
type Oracle struct {
	maxInputBytes int64
	evaluator     *Evaluator
}

// New creates an oracle with the default input cap and engine
func New() *Oracle {
	return NewWithCompiler(MaxInputBytes, matcher.Default)
}

// NewWithCompiler creates an oracle with a custom input cap and engine.
// A non-positive limit uses MaxInputBytes.
func NewWithCompiler(limit int64, compile matcher.Compiler) *Oracle {
	if limit <= 0 {
		limit = MaxInputBytes
	}
	return &Oracle{
		maxInputBytes: limit,
		evaluator:     NewEvaluator(compile),
	}
}

// Run serves one request with the default oracle.
func Run(in io.Reader, out io.Writer) error {
	return New().Run(in, out)
}

// Run reads a request from in and writes its result to out. The returned
// error is always an *IOError; nothing is written to out when reading fails.
func (o *Oracle) Run(in io.Reader, out io.Writer) error {
	matched, err := o.answer(in)

	result, err := Resolve(matched, err)
	if err != nil {
		return err
	}

	return WriteResult(out, result)
}

func (o *Oracle) answer(in io.Reader) (bool, error) {
	data, err := ReadBounded(in, o.maxInputBytes)
	if err != nil {
		return false, err
	}

	req, err := Decode(data)
	if err != nil {
		return false, err
	}

	return o.evaluator.Evaluate(req)
}

// Resolve maps the outcome of a pipeline onto the result document.
//
//	nil           -> {is_match: matched, error: ""}
//	*DecodeError  -> {is_match: false, error: diagnostic}
//	*PatternError -> {is_match: false, error: diagnostic}
//	*IOError      -> returned as is, no document
//
// Any other error is a programming mistake and is treated like an I/O
// failure, so no unclassified failure is ever reported as a normal result.
func Resolve(matched bool, err error) (types.Result, error) {
	if err == nil {
		return types.Matched(matched), nil
	}

	var (
		ioErr      *IOError
		decodeErr  *DecodeError
		patternErr *PatternError
	)
	switch {
	case errors.As(err, &ioErr):
		return types.Result{}, ioErr
	case errors.As(err, &decodeErr):
		return types.Failed(decodeErr.Error()), nil
	case errors.As(err, &patternErr):
		return types.Failed(patternErr.Error()), nil
	default:
		return types.Result{}, &IOError{Op: "classify failure", Err: err}
	}
}

// Tester evaluates structured requests in-process.
type Tester struct {
	evaluator *Evaluator
}

// Ensure Tester implements PatternTester
var _ interfaces.PatternTester = (*Tester)(nil)

// NewTester creates an in-process tester. A nil compile uses matcher.Default.
func NewTester(compile matcher.Compiler) *Tester {
	return &Tester{evaluator: NewEvaluator(compile)}
}

// TestPattern evaluates req. The context is only consulted before evaluation
// starts; the engine's linear-time guarantee bounds the rest.
func (t *Tester) TestPattern(ctx context.Context, req types.Request) types.Outcome {
	if err := ctx.Err(); err != nil {
		return types.Outcome{Err: fmt.Errorf("pattern test not started: %w", err)}
	}

	matched, err := t.evaluator.Evaluate(req)
	result, err := Resolve(matched, err)
	if err != nil {
		return types.Outcome{Err: err}
	}
	return result.ToOutcome()
}
