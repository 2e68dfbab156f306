package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/SirJson/commandspec/internal/config"
	"github.com/SirJson/commandspec/internal/errors"
)

const configFileMode = 0o600

// NewInitCommand creates the init command definition
func NewInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize configuration file",
		Description: "Creates a .commandspec.yml task file in the current directory " +
			"(or at --config) with example tasks.",
		Action: initCommand,
	}
}

func initCommand(_ context.Context, cmd *cli.Command) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return errors.ConfigAlreadyExists(path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.DirectoryAccessFailed("create", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, []byte(config.SampleConfig), configFileMode); err != nil {
		return errors.DirectoryAccessFailed("create configuration file in", filepath.Dir(path), err)
	}

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintf(w, "Configuration file created: %s\n", path)
	fmt.Fprintln(w, "Edit this file to define your tasks, then run 'commandspec list'.")
	return nil
}
