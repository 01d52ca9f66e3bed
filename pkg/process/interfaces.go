package process

import (
	"context"
)

// Executor defines the interface for running a single engine process
type Executor interface {
	Execute(ctx context.Context, cmd Command) (*Completed, error)
}

// Command describes one engine invocation.
type Command struct {
	Path  string
	Args  []string
	Env   []string
	Stdin []byte

	// MemoryLimitMB caps the child's address space. Zero disables the cap.
	MemoryLimitMB int
}

// Completed is what a finished process left behind.
type Completed struct {
	Stdout          []byte
	Stderr          []byte
	ExitCode        int
	StdoutTruncated bool
}
