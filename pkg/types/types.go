// Package types contains the wire model shared by the oracle and its hosts.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrRuntime marks a failure the oracle reported as data in its result document.
var ErrRuntime = errors.New("runtime error")

// UntrustedPattern is a regular expression supplied by the caller
type UntrustedPattern string

// UntrustedText is the text a pattern is tested against
type UntrustedText string

// Request is the document the oracle reads from its input channel.
type Request struct {
	Pattern UntrustedPattern `json:"pattern"`
	Text    UntrustedText    `json:"text"`
}

// ToJSON encodes the request as the oracle expects it on stdin
func (r Request) ToJSON() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request to JSON: %w", err)
	}
	return data, nil
}

// Result is the document the oracle writes to its output channel.
// Error is empty on success.
type Result struct {
	IsMatch bool   `json:"is_match"`
	Error   string `json:"error"`
}

// Matched builds a successful result
func Matched(isMatch bool) Result {
	return Result{IsMatch: isMatch}
}

// Failed builds a result describing a recoverable failure
func Failed(msg string) Result {
	return Result{IsMatch: false, Error: msg}
}

// ResultFromJSON decodes a result document produced by the oracle
func ResultFromJSON(data []byte) (Result, error) {
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return r, nil
}

// Outcome is a result lifted back into Go error semantics.
type Outcome struct {
	IsMatch bool
	Err     error
}

// ToOutcome converts the wire result into an Outcome. A non-empty Error
// becomes an error wrapping ErrRuntime.
func (r Result) ToOutcome() Outcome {
	var err error
	if r.Error != "" {
		err = fmt.Errorf("%w: %s", ErrRuntime, r.Error)
	}
	return Outcome{
		IsMatch: r.IsMatch && err == nil,
		Err:     err,
	}
}
