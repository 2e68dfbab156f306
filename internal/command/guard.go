package command

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptExitCode is the status used after forwarding an interrupt
const InterruptExitCode = 130

var groups = struct {
	sync.Mutex
	pids map[int]struct{}
}{pids: map[int]struct{}{}}

// exitProcess is replaced in tests
var exitProcess = os.Exit

// trackGroup registers a running process group and returns its release func
func trackGroup(pid int) func() {
	groups.Lock()
	groups.pids[pid] = struct{}{}
	groups.Unlock()

	return func() {
		groups.Lock()
		delete(groups.pids, pid)
		groups.Unlock()
	}
}

func trackedGroups() []int {
	groups.Lock()
	defer groups.Unlock()

	pids := make([]int, 0, len(groups.pids))
	for pid := range groups.pids {
		pids = append(pids, pid)
	}
	return pids
}

// InterruptAll forwards an interrupt to every running child process group
func InterruptAll() {
	for _, pid := range trackedGroups() {
		_ = interruptGroup(pid)
	}
}

// CleanupOnInterrupt installs a SIGINT/SIGTERM handler that interrupts every
// running child process group and exits with InterruptExitCode. The returned
// func uninstalls the handler.
func CleanupOnInterrupt() (stop func()) {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-ch:
			InterruptAll()
			exitProcess(InterruptExitCode)
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
