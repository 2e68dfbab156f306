package command

import (
	"context"
	"strings"

	"github.com/SirJson/commandspec/internal/render"
)

// Command represents a process to be spawned
type Command struct {
	Name    string            // Program name or path (e.g., "cargo")
	Args    []string          // Command arguments, passed without shell splitting
	WorkDir string            // Optional working directory
	Env     map[string]string // Overrides layered on top of the inherited environment
}

// FromRendered converts a rendered template into a Command
func FromRendered(r *render.Rendered) Command {
	env := make(map[string]string, len(r.Env))
	for k, v := range r.Env {
		env[k] = v
	}
	return Command{
		Name:    r.Program,
		Args:    append([]string{}, r.Args...),
		WorkDir: r.Dir,
		Env:     env,
	}
}

// String renders the command line with shell quoting, for display only
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, render.Quote(c.Name))
	for _, arg := range c.Args {
		parts = append(parts, render.Quote(arg))
	}
	return strings.Join(parts, " ")
}

// Outcome is the raw result of spawning a process and waiting for it
type Outcome struct {
	Started  bool   // The process was spawned
	Exited   bool   // The process exited on its own and ExitCode is valid
	ExitCode int    // Exit status when Exited
	Signal   string // Terminating signal, if any
	Err      error  // Spawn failure, wait failure or cancellation cause
}

// CommandResult represents the result of a single command execution
type CommandResult struct {
	Command Command
	Error   error
}

// ExecutionResult represents the result of executing multiple commands
type ExecutionResult struct {
	Results []CommandResult
}

// ProcessRunner abstracts spawning a process and blocking until it terminates
type ProcessRunner interface {
	Run(ctx context.Context, cmd Command) Outcome
}

// CommandExecutor runs commands and classifies their outcomes
type CommandExecutor interface {
	Run(ctx context.Context, cmd Command) error
	Execute(ctx context.Context, commands []Command) (*ExecutionResult, error)
}
