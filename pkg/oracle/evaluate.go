package oracle

import (
	"errors"
	"fmt"

	"github.com/Veraticus/regexp-match/pkg/matcher"
	"github.com/Veraticus/regexp-match/pkg/types"
)

var errNoMatcher = errors.New("engine returned no matcher")

// Evaluator compiles a request's pattern and tests it against the text.
type Evaluator struct {
	compile matcher.Compiler
}

// NewEvaluator creates an evaluator backed by compile. A nil compile falls
// back to matcher.Default.
func NewEvaluator(compile matcher.Compiler) *Evaluator {
	if compile == nil {
		compile = matcher.Default
	}
	return &Evaluator{compile: compile}
}

// Evaluate reports whether req.Pattern matches anywhere in req.Text. A pattern
// the engine rejects, or an engine that panics, yields a *PatternError.
func (e *Evaluator) Evaluate(req types.Request) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
			err = &PatternError{Err: fmt.Errorf("engine panic: %v", r)}
		}
	}()

	m, err := e.compile(string(req.Pattern))
	if err != nil {
		return false, &PatternError{Err: err}
	}
	if m == nil {
		return false, &PatternError{Err: errNoMatcher}
	}

	return m.MatchString(string(req.Text)), nil
}
