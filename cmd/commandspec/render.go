package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

const renderUsage = "commandspec render <task> [--set name=value]... [--list name=words]... [--unset name]..."

// NewRenderCommand creates the render command definition
func NewRenderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Print the commands a task would run",
		UsageText: renderUsage,
		ArgsUsage: "<task>",
		Description: "Prints one line per template: the working directory, the environment overrides " +
			"and the argument vector, quoted so that it can be pasted into a POSIX shell.",
		Flags:  bindingFlags(),
		Action: renderCommand,
	}
}

func renderCommand(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	return renderCommandWithWriter(cmd, w, renderUsage)
}

func renderCommandWithWriter(cmd *cli.Command, w io.Writer, usage string) error {
	p, err := resolvePlan(cmd, usage)
	if err != nil {
		return err
	}

	rendered, err := p.render()
	if err != nil {
		return err
	}

	for _, r := range rendered {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}
