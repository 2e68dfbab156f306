package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/SirJson/commandspec/internal/config"
	cliio "github.com/SirJson/commandspec/internal/io"
)

// NewListCommand creates the list command definition
func NewListCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List tasks",
		Action:  listCommand,
	}
}

func listCommand(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return listTasks(w, cfg)
}

func listTasks(w io.Writer, cfg *config.Config) error {
	names := cfg.TaskNames()
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found. Run 'commandspec init' to create .commandspec.yml")
		return err
	}

	heading := color.New(color.FgCyan, color.Bold)
	if !cliio.IsTerminal(w) {
		heading.DisableColor()
	}

	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	for _, name := range names {
		task := cfg.Tasks[name]
		label := name + strings.Repeat(" ", width-len(name))

		var details []string
		if task.Description != "" {
			details = append(details, task.Description)
		}
		switch {
		case task.Elevated:
			details = append(details, "[elevated script]")
		case task.Shell:
			details = append(details, "[script]")
		}
		if steps := len(task.Templates()); steps > 1 {
			details = append(details, fmt.Sprintf("(%d steps)", steps))
		}

		if _, err := heading.Fprint(w, label); err != nil {
			return err
		}
		line := strings.TrimRight("  "+strings.Join(details, " "), " ")
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
