package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/SirJson/commandspec/internal/command"
	cliio "github.com/SirJson/commandspec/internal/io"
)

const defaultVersion = "dev"

// Version information (set by GoReleaser)
var (
	version = defaultVersion
	commit  = "none"
	date    = "unknown"
)

func main() {
	initVersion()
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run executes the app and returns the process exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := newApp()
	app.Writer = stdout
	app.ErrWriter = stderr

	if err := app.Run(ctx, args); err != nil {
		printError(stderr, err)
		return exitCode(err)
	}
	return 0
}

// exitCode mirrors a child's exit status, maps interrupts to 130 and
// everything else to 1
func exitCode(err error) int {
	var cmdErr *command.Error
	if !errors.As(err, &cmdErr) {
		return 1
	}
	if code, ok := cmdErr.ExitCode(); ok {
		return code
	}
	if cmdErr.Kind == command.KindTerminated &&
		(cmdErr.Signal == "interrupt" || errors.Is(err, context.Canceled)) {
		return command.InterruptExitCode
	}
	return 1
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed, color.Bold)
	if !cliio.IsTerminal(w) {
		red.DisableColor()
	}
	_, _ = red.Fprint(w, "Error: ")
	_, _ = io.WriteString(w, err.Error()+"\n")
}
