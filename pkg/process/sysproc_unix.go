//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// isolate runs the child in its own process group and kills the whole group
// when the context is done.
func isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
