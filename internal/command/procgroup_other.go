//go:build !unix

package command

import (
	"os"
	"os/exec"
)

// setProcessGroup is a no-op without Unix process groups; cancellation falls
// back to killing the child itself.
func setProcessGroup(_ *exec.Cmd) {}

func interruptGroup(pid int) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Kill()
}

func signalOf(_ *os.ProcessState) string {
	return ""
}
