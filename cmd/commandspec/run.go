package main

import (
	"context"
	stderrors "errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/SirJson/commandspec/internal/command"
	"github.com/SirJson/commandspec/internal/errors"
	cliio "github.com/SirJson/commandspec/internal/io"
	"github.com/SirJson/commandspec/internal/logging"
)

const runUsage = "commandspec run <task> [--set name=value]... [--list name=words]... [--unset name]..."

// Variables to allow mocking in tests
var (
	newCommandExecutor = command.NewRealExecutor
	installInterrupt   = command.CleanupOnInterrupt
)

// NewRunCommand creates the run command definition
func NewRunCommand() *cli.Command {
	flags := append(bindingFlags(), &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"n"},
		Usage:   "Print the rendered commands without running them",
	})
	return &cli.Command{
		Name:      "run",
		Usage:     "Render and run a task",
		UsageText: runUsage,
		ArgsUsage: "<task>",
		Description: "Renders every template of the task with its bindings and the command-line overrides, " +
			"then runs them in order without a shell, stopping at the first failure. " +
			"No process is started unless every template renders.",
		Flags:  flags,
		Action: runCommand,
	}
}

func runCommand(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	if cmd.Bool("dry-run") {
		return renderCommandWithWriter(cmd, w, runUsage)
	}

	executor := newCommandExecutor(command.RunOptions{
		Stdin:  cmd.Root().Reader,
		Stdout: cliio.Stream(cmd.Root().Writer),
		Stderr: cliio.Stream(cmd.Root().ErrWriter),
	})

	stop := installInterrupt()
	defer stop()

	return runCommandWithExecutor(ctx, cmd, executor)
}

func runCommandWithExecutor(ctx context.Context, cmd *cli.Command, executor command.CommandExecutor) error {
	p, err := resolvePlan(cmd, runUsage)
	if err != nil {
		return err
	}

	rendered, err := p.render()
	if err != nil {
		return err
	}

	commands := make([]command.Command, 0, len(rendered))
	for i, r := range rendered {
		logging.Debug().
			Str("source", p.source).
			Int("step", i+1).
			Str("command", r.String()).
			Msg("rendered command")
		commands = append(commands, command.FromRendered(r))
	}

	result, err := executor.Execute(ctx, commands)
	if result != nil {
		for i, res := range result.Results {
			logOutcome(i+1, res)
		}
	}
	if err != nil {
		return errors.CommandFailed(err)
	}
	return nil
}

func logOutcome(step int, res command.CommandResult) {
	var cmdErr *command.Error
	if !stderrors.As(res.Error, &cmdErr) {
		logging.Debug().Int("step", step).Str("program", res.Command.Name).Msg("command succeeded")
		return
	}

	event := logging.Warn().
		Int("step", step).
		Str("program", cmdErr.Program).
		Str("kind", cmdErr.Kind.String())
	if code, ok := cmdErr.ExitCode(); ok {
		event = event.Int("code", code)
	}
	if cmdErr.Signal != "" {
		event = event.Str("signal", cmdErr.Signal)
	}
	event.Msg("command failed")
}
