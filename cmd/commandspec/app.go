package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/SirJson/commandspec/internal/logging"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "commandspec",
		Usage: "Render and run command templates without a shell",
		Description: "commandspec compiles shell-like templates (an optional cd line, export lines and one " +
			"command line with {placeholders}) into a process invocation and runs it directly. " +
			"Tasks are read from .commandspec.yml.",
		Version:                   versionString(),
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the task file (default: ./.commandspec.yml)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn or error",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format: console or json",
				Value: logging.FormatConsole,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Shorthand for --log-level=debug",
			},
		},
		Before: configureLogging,
		Commands: []*cli.Command{
			NewRunCommand(),
			NewRenderCommand(),
			NewCheckCommand(),
			NewListCommand(),
			NewInitCommand(),
		},
	}
}

func configureLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level, err := logging.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, err
	}
	if cmd.Bool("debug") {
		level = logging.DebugLevel
	}

	pretty, err := logging.ParseFormat(cmd.String("log-format"))
	if err != nil {
		return ctx, err
	}

	logging.Init(logging.Config{
		Level:  level,
		Output: cmd.Root().ErrWriter,
		Pretty: pretty,
	})
	return ctx, nil
}
