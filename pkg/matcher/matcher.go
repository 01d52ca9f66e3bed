// Package matcher wraps the regular expression engine the oracle trusts.
//
// The engine is Go's regexp package, which implements RE2 semantics: matching
// runs in time linear in the size of the input and never backtracks, so an
// adversarial pattern cannot stall the process. Pattern complexity is not
// re-validated here; the engine rejects programs it considers too large.
package matcher

import (
	"regexp"
)

// Matcher reports whether a compiled pattern matches somewhere in text.
type Matcher interface {
	MatchString(text string) bool
}

// Compiler turns a pattern source into a Matcher.
type Compiler func(pattern string) (Matcher, error)

// Compile compiles pattern with the RE2 engine
func Compile(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return re, nil
}

// Default is the compiler used by the oracle
var Default Compiler = Compile
