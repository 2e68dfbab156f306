package command

import "context"

// executor implements CommandExecutor interface
type executor struct {
	runner ProcessRunner
}

// NewExecutor creates a new command executor with the given process runner
func NewExecutor(runner ProcessRunner) CommandExecutor {
	return &executor{
		runner: runner,
	}
}

// NewRealExecutor creates an executor that spawns real processes
func NewRealExecutor(opts RunOptions) CommandExecutor {
	return NewExecutor(NewRealRunner(opts))
}

// Run executes one command and classifies its outcome
func (e *executor) Run(ctx context.Context, cmd Command) error {
	return Classify(cmd, e.runner.Run(ctx, cmd))
}

// Execute runs the commands in sequence and stops at the first failure, which
// is also returned
func (e *executor) Execute(ctx context.Context, commands []Command) (*ExecutionResult, error) {
	result := &ExecutionResult{
		Results: make([]CommandResult, 0, len(commands)),
	}

	for _, cmd := range commands {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := e.Run(ctx, cmd)
		result.Results = append(result.Results, CommandResult{
			Command: cmd,
			Error:   err,
		})
		if err != nil {
			return result, err
		}
	}

	return result, nil
}
