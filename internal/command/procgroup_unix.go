//go:build unix

package command

import (
	"os"
	"os/exec"
	"syscall"
)

// setProcessGroup starts the child as the leader of its own process group and
// kills the whole group when the context is canceled.
func setProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		if err := syscall.Kill(-c.Process.Pid, syscall.SIGKILL); err != nil {
			return c.Process.Kill()
		}
		return nil
	}
}

func interruptGroup(pid int) error {
	return syscall.Kill(-pid, syscall.SIGINT)
}

func signalOf(state *os.ProcessState) string {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return ""
	}
	return ws.Signal().String()
}
