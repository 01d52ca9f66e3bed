package testutil

import (
	"sync"

	"github.com/Veraticus/regexp-match/pkg/matcher"
)

// MockMatcher is a mock implementation of matcher.Matcher for testing
type MockMatcher struct {
	mu             sync.Mutex
	matchFound     bool
	matchCallCount int
	lastText       string
}

// NewMockMatcher creates a new mock matcher
func NewMockMatcher(matchFound bool) *MockMatcher {
	return &MockMatcher{matchFound: matchFound}
}

// MatchString implements the Matcher interface
func (m *MockMatcher) MatchString(text string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchCallCount++
	m.lastText = text
	return m.matchFound
}

// GetMatchCallCount returns how many times MatchString was called
func (m *MockMatcher) GetMatchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchCallCount
}

// LastText returns the text of the most recent MatchString call
func (m *MockMatcher) LastText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastText
}

// MockCompiler builds matcher.Compiler functions with canned behaviour.
type MockCompiler struct {
	mu       sync.Mutex
	matcher  matcher.Matcher
	err      error
	panicVal any
	patterns []string
}

// NewMockCompiler creates a compiler that returns m and err
func NewMockCompiler(m matcher.Matcher, err error) *MockCompiler {
	return &MockCompiler{matcher: m, err: err}
}

// NewPanickingCompiler creates a compiler that panics with v
func NewPanickingCompiler(v any) *MockCompiler {
	return &MockCompiler{panicVal: v}
}

// Compile implements matcher.Compiler
func (c *MockCompiler) Compile(pattern string) (matcher.Matcher, error) {
	c.mu.Lock()
	c.patterns = append(c.patterns, pattern)
	panicVal := c.panicVal
	c.mu.Unlock()

	if panicVal != nil {
		panic(panicVal)
	}
	return c.matcher, c.err
}

// Patterns returns a copy of every pattern passed to Compile
func (c *MockCompiler) Patterns() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]string, len(c.patterns))
	copy(result, c.patterns)
	return result
}
