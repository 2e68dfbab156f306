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
	"github.com/SirJson/commandspec/internal/errors"
	cliio "github.com/SirJson/commandspec/internal/io"
)

// NewCheckCommand creates the check command definition
func NewCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Validate every task template",
		Description: "Parses every task in the configuration file and reports parse errors. " +
			"Placeholders without a default binding are listed so they can be supplied with --set.",
		Action: checkCommand,
	}
}

func checkCommand(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.ReadFile(path)
	if err != nil {
		return errors.ConfigLoadFailed(path, err)
	}

	return checkConfig(w, cfg)
}

func checkConfig(w io.Writer, cfg *config.Config) error {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	if !cliio.IsTerminal(w) {
		ok.DisableColor()
		bad.DisableColor()
	}

	names := cfg.TaskNames()
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No tasks found.")
		return err
	}

	var failed []string
	for _, name := range names {
		task := cfg.Tasks[name]
		templates, err := task.Parse()
		if err != nil {
			failed = append(failed, name)
			if _, werr := bad.Fprintf(w, "✗ %s: %v\n", name, err); werr != nil {
				return werr
			}
			continue
		}

		if _, werr := ok.Fprintf(w, "✓ %s\n", name); werr != nil {
			return werr
		}

		var unbound []string
		seen := map[string]bool{}
		for _, tmpl := range templates {
			for _, placeholder := range tmpl.Placeholders() {
				if _, bound := task.Bindings[placeholder]; !bound && !seen[placeholder] {
					seen[placeholder] = true
					unbound = append(unbound, placeholder)
				}
			}
		}
		if len(unbound) > 0 {
			if _, werr := fmt.Fprintf(w, "    unbound: %s\n", strings.Join(unbound, ", ")); werr != nil {
				return werr
			}
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d tasks failed to parse: %s", len(failed), len(names), strings.Join(failed, ", "))
	}
	return nil
}
