package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/Veraticus/regexp-match/pkg/types"
)

// ErrBrokenPipe is returned by the failing readers and writers
var ErrBrokenPipe = errors.New("broken pipe")

// FailingReader returns its data and then Err instead of io.EOF
type FailingReader struct {
	Data []byte
	Err  error
	read bool
}

// Read implements io.Reader
func (r *FailingReader) Read(p []byte) (int, error) {
	if !r.read && len(r.Data) > 0 {
		r.read = true
		return copy(p, r.Data), nil
	}
	if r.Err == nil {
		return 0, ErrBrokenPipe
	}
	return 0, r.Err
}

// FailingWriter fails every write with Err
type FailingWriter struct {
	Err    error
	Writes int
}

// Write implements io.Writer
func (w *FailingWriter) Write(p []byte) (int, error) {
	w.Writes++
	if w.Err == nil {
		return 0, ErrBrokenPipe
	}
	return 0, w.Err
}

// ShortWriter accepts only the first N bytes of each write without reporting an error
type ShortWriter struct {
	N int
}

// Write implements io.Writer
func (w *ShortWriter) Write(p []byte) (int, error) {
	if len(p) > w.N {
		return w.N, nil
	}
	return len(p), nil
}

// MockPatternTester is a thread-safe mock implementation of interfaces.PatternTester
type MockPatternTester struct {
	mu       sync.Mutex
	outcome  types.Outcome
	requests []types.Request
}

// NewMockPatternTester creates a tester that always returns outcome
func NewMockPatternTester(outcome types.Outcome) *MockPatternTester {
	return &MockPatternTester{outcome: outcome}
}

// TestPattern implements the PatternTester interface
func (m *MockPatternTester) TestPattern(ctx context.Context, req types.Request) types.Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	return m.outcome
}

// GetRequests returns a copy of every request received
func (m *MockPatternTester) GetRequests() []types.Request {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]types.Request, len(m.requests))
	copy(result, m.requests)
	return result
}
