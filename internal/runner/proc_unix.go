//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the tool in its own group and kills the whole group on
// cancellation so helper processes the tool spawns die with it.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
