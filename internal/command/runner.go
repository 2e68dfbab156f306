package command

import (
	"context"
	"errors"
	"os/exec"
)

// realRunner implements ProcessRunner using os/exec
type realRunner struct {
	opts RunOptions
}

// NewRealRunner creates a runner that spawns real processes
func NewRealRunner(opts RunOptions) ProcessRunner {
	return &realRunner{opts: opts}
}

// Run spawns the command in its own process group and waits for it. The group
// is registered for interrupt forwarding until the wait returns.
func (r *realRunner) Run(ctx context.Context, cmd Command) Outcome {
	c := Build(ctx, cmd, r.opts)
	setProcessGroup(c)

	if err := c.Start(); err != nil {
		return Outcome{Err: err}
	}

	release := trackGroup(c.Process.Pid)
	defer release()

	return waitOutcome(ctx, c.Wait(), c)
}

func waitOutcome(ctx context.Context, waitErr error, c *exec.Cmd) Outcome {
	o := Outcome{Started: true, Err: waitErr}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		o.Err = nil
	}

	state := c.ProcessState
	if state == nil {
		return o
	}
	if sig := signalOf(state); sig != "" {
		o.Signal = sig
	} else if state.Exited() {
		o.Exited = true
		o.ExitCode = state.ExitCode()
	}

	if ctx.Err() != nil && (o.Signal != "" || o.ExitCode != 0) {
		o.Err = context.Cause(ctx)
	}
	return o
}
