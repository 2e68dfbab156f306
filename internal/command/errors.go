package command

import (
	"errors"
	"fmt"
)

// Kind classifies a failed execution
type Kind int

const (
	// KindExitCode means the process exited with a nonzero status
	KindExitCode Kind = iota + 1
	// KindTerminated means the process was killed by a signal or ended abnormally
	KindTerminated
	// KindSpawnFailed means the process could not be started
	KindSpawnFailed
)

func (k Kind) String() string {
	switch k {
	case KindExitCode:
		return "exit-code"
	case KindTerminated:
		return "terminated"
	case KindSpawnFailed:
		return "spawn-failed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels matched by *Error through errors.Is
var (
	ErrExitCode    = errors.New("command exited with nonzero status")
	ErrTerminated  = errors.New("command terminated abnormally")
	ErrSpawnFailed = errors.New("command failed to start")
)

// Error describes a command that did not exit cleanly. Its message carries the
// program, every argument and the cause.
type Error struct {
	Kind    Kind
	Program string
	Args    []string
	Code    int    // Exit status for KindExitCode
	Signal  string // Signal name for KindTerminated, empty when the cause is not a signal
	Cause   error  // Underlying error for KindSpawnFailed, or the reason for KindTerminated
}

func (e *Error) Error() string {
	line := Command{Name: e.Program, Args: e.Args}.String()
	switch e.Kind {
	case KindExitCode:
		return fmt.Sprintf("command exited with code %d: %s", e.Code, line)
	case KindTerminated:
		switch {
		case e.Signal != "" && e.Cause != nil:
			return fmt.Sprintf("command terminated by signal %s (%v): %s", e.Signal, e.Cause, line)
		case e.Signal != "":
			return fmt.Sprintf("command terminated by signal %s: %s", e.Signal, line)
		case e.Cause != nil:
			return fmt.Sprintf("command terminated abnormally (%v): %s", e.Cause, line)
		default:
			return fmt.Sprintf("command terminated abnormally: %s", line)
		}
	case KindSpawnFailed:
		return fmt.Sprintf("command failed to start: %s: %v", line, e.Cause)
	default:
		return fmt.Sprintf("command failed: %s", line)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the Kind sentinels
func (e *Error) Is(target error) bool {
	switch target {
	case ErrExitCode:
		return e.Kind == KindExitCode
	case ErrTerminated:
		return e.Kind == KindTerminated
	case ErrSpawnFailed:
		return e.Kind == KindSpawnFailed
	default:
		return false
	}
}

// ExitCode returns the exit status and true when the command exited nonzero
func (e *Error) ExitCode() (int, bool) {
	if e.Kind != KindExitCode {
		return 0, false
	}
	return e.Code, true
}

// Classify maps a raw outcome to nil on a clean zero exit, or to an *Error
func Classify(cmd Command, o Outcome) error {
	base := Error{Program: cmd.Name, Args: append([]string{}, cmd.Args...)}

	switch {
	case !o.Started:
		base.Kind = KindSpawnFailed
		base.Cause = o.Err
		if base.Cause == nil {
			base.Cause = errors.New("process was not started")
		}
	case o.Signal != "":
		base.Kind = KindTerminated
		base.Signal = o.Signal
		base.Cause = o.Err
	case o.Exited && o.ExitCode != 0:
		base.Kind = KindExitCode
		base.Code = o.ExitCode
	case o.Exited && o.Err == nil:
		return nil
	default:
		base.Kind = KindTerminated
		base.Cause = o.Err
	}
	return &base
}
