// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import (
	"context"

	"github.com/Veraticus/regexp-match/pkg/types"
)

// PatternTester answers whether a request's pattern matches its text.
// Failures reported by the oracle as data wrap types.ErrRuntime.
type PatternTester interface {
	TestPattern(ctx context.Context, req types.Request) types.Outcome
}
