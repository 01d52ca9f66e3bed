package oracle

import "fmt"

// IOError is a failure of the input or output channel itself. It is the only
// failure the oracle cannot report as data.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// DecodeError means the request document was malformed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "unable to parse the input json: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PatternError means the engine refused to compile the pattern.
type PatternError struct {
	Err error
}

func (e *PatternError) Error() string {
	return "invalid regular expression: " + e.Err.Error()
}

func (e *PatternError) Unwrap() error { return e.Err }
