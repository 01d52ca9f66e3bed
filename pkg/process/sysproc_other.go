//go:build !unix

package process

import "os/exec"

// isolate is a no-op where process groups are unavailable; exec kills the
// child itself when the context is done.
func isolate(cmd *exec.Cmd) {}
